package http

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The embedded contract must stay a valid OpenAPI 3 document and keep
// describing the routes the handler actually serves.
func TestEmbeddedOpenAPISpecIsValid(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openAPISpec)
	require.NoError(t, err)
	require.NoError(t, doc.Validate(context.Background()))

	assert.Equal(t, "Voyant Planner API", doc.Info.Title)

	for _, path := range []string{"/plan/start", "/plan/{planRunID}/state", "/plan/{planRunID}/events", "/health", "/info"} {
		assert.NotNil(t, doc.Paths.Find(path), "missing path %s", path)
	}
}
