package middleware_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/persistence/middleware"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func planState() *domain.PlanState {
	return &domain.PlanState{
		PlanRunID:        "run-1",
		State:            domain.RunComplete,
		CurrentStepIndex: 3,
		Outputs: map[string]any{
			"step_outputs": map[string]any{
				"step_0": map[string]any{"summary": "Found flights"},
			},
		},
		FinalOutput:   `{"summary":"A fine trip."}`,
		StatusMessage: "Plan completed successfully",
	}
}

func TestEncryptionRoundTrip(t *testing.T) {
	backend := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", planState()))

	loaded, err := store.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, planState(), loaded)
}

func TestEncryptionEnvelopeHidesContent(t *testing.T) {
	backend := memory.NewStore()
	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "run-1", planState()))

	// Read the raw envelope straight from the backend.
	raw, err := backend.Load(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, domain.RunComplete, raw.State, "run state stays visible for monitoring")
	assert.Nil(t, raw.FinalOutput)
	assert.Empty(t, raw.StatusMessage)
	assert.NotEmpty(t, raw.Outputs["__encrypted__"])
	assert.NotContains(t, raw.Outputs, "step_outputs")
}

func TestEncryptionKeyRotation(t *testing.T) {
	backend := memory.NewStore()
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	require.NoError(t, oldStore.Save(ctx, "run-1", planState()))

	// New active key, old key demoted to fallback.
	rotated := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    testKey(2),
		FallbackKeys: [][]byte{testKey(1)},
	})(backend)

	loaded, err := rotated.Load(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", loaded.PlanRunID)
}

func TestEncryptionWrongKeyFails(t *testing.T) {
	backend := memory.NewStore()
	ctx := context.Background()

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)
	require.NoError(t, store.Save(ctx, "run-1", planState()))

	wrong := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(9),
	})(backend)

	_, err := wrong.Load(ctx, "run-1")
	assert.Error(t, err)
}

func TestEncryptionRejectsPlainSnapshots(t *testing.T) {
	backend := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, backend.Save(ctx, "run-1", planState()))

	store := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey: testKey(1),
	})(backend)

	_, err := store.Load(ctx, "run-1")
	assert.Error(t, err)
}

func TestEncryptionRequires32ByteKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	})
}
