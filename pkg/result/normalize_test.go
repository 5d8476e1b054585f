package result_test

import (
	"testing"

	"github.com/aretw0/voyant/pkg/domain"
	"github.com/aretw0/voyant/pkg/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_JSONEncodedString(t *testing.T) {
	finalOutput := `{"departureFlight":{"Airline":"Acme","price":1000,"departTime":"2025-03-15T10:00:00Z","arrivalTime":"2025-03-15T12:00:00Z"}}`

	n := result.Normalize(finalOutput)

	require.NotNil(t, n.Data)
	require.NotNil(t, n.Data.DepartureFlight)
	assert.Equal(t, "Acme", n.Data.DepartureFlight.Airline)
	assert.Equal(t, 1000.0, n.Data.DepartureFlight.Price)
	assert.Equal(t, "2025-03-15T10:00:00Z", n.Data.DepartureFlight.DepartTime)
	assert.Equal(t, 1000.0, n.Data.TotalCost())
	assert.Empty(t, n.Raw)
}

func TestNormalize_ValueWrapperWithEncodedString(t *testing.T) {
	finalOutput := map[string]any{
		"value": `{"accommodation":{"HotelName":"X","price":500}}`,
	}

	n := result.Normalize(finalOutput)

	require.NotNil(t, n.Data)
	require.NotNil(t, n.Data.Accommodation)
	assert.Equal(t, "X", n.Data.Accommodation.HotelName)
	assert.Equal(t, 500.0, n.Data.TotalCost())
	assert.Nil(t, n.Data.DepartureFlight)
	assert.Nil(t, n.Data.ReturnFlight)
}

func TestNormalize_ValueWrapperWithObject(t *testing.T) {
	finalOutput := map[string]any{
		"value": map[string]any{
			"returnFlight": map[string]any{"Airline": "Acme", "price": 900.0},
		},
	}

	n := result.Normalize(finalOutput)

	require.NotNil(t, n.Data)
	require.NotNil(t, n.Data.ReturnFlight)
	assert.Equal(t, "Acme", n.Data.ReturnFlight.Airline)
}

func TestNormalize_DirectObject(t *testing.T) {
	finalOutput := map[string]any{
		"departureFlight": map[string]any{"Airline": "Zephyr", "price": 420.5, "deepLinkUrl": "https://example.com/f"},
		"accommodation":   map[string]any{"HotelName": "Grand", "price": 300.0},
		"summary":         "A fine trip.",
	}

	n := result.Normalize(finalOutput)

	require.NotNil(t, n.Data)
	assert.Equal(t, "Zephyr", n.Data.DepartureFlight.Airline)
	assert.Equal(t, "https://example.com/f", n.Data.DepartureFlight.DeepLinkURL)
	assert.Equal(t, 720.5, n.Data.TotalCost())
}

func TestNormalize_PlainString(t *testing.T) {
	n := result.Normalize("Trip booked!")

	assert.Nil(t, n.Data)
	assert.Equal(t, "Trip booked!", n.Raw)
	assert.Equal(t, "Trip booked!", result.Summary("Trip booked!", n))
}

func TestNormalize_UnrecognizedObject(t *testing.T) {
	finalOutput := map[string]any{"status": "done", "count": 3.0}

	n := result.Normalize(finalOutput)

	assert.Nil(t, n.Data)
	assert.Empty(t, n.Raw)
}

func TestNormalize_NonObjectCandidate(t *testing.T) {
	assert.Nil(t, result.Normalize(nil).Data)
	assert.Nil(t, result.Normalize(42.0).Data)
	assert.Nil(t, result.Normalize([]any{"a", "b"}).Data)
}

func TestSummary_PrefersExplicitField(t *testing.T) {
	finalOutput := map[string]any{
		"summary":         "Here is your trip.",
		"departureFlight": map[string]any{"Airline": "Acme", "price": 100.0},
	}

	n := result.Normalize(finalOutput)
	assert.Equal(t, "Here is your trip.", result.Summary(finalOutput, n))
}

func TestSummary_ExplicitFieldInsideEncodedString(t *testing.T) {
	finalOutput := `{"summary":"Encoded summary.","accommodation":{"HotelName":"X","price":500}}`

	n := result.Normalize(finalOutput)
	assert.Equal(t, "Encoded summary.", result.Summary(finalOutput, n))
}

func TestSummary_SynthesizedFromTravelData(t *testing.T) {
	finalOutput := map[string]any{
		"departureFlight": map[string]any{"Airline": "Acme", "price": 1000.0, "departTime": "2025-03-15T10:00:00Z"},
		"accommodation":   map[string]any{"HotelName": "Grand", "price": 500.0},
	}

	n := result.Normalize(finalOutput)
	s := result.Summary(finalOutput, n)

	assert.Contains(t, s, "### Departure Flight")
	assert.Contains(t, s, "**Airline:** Acme")
	assert.Contains(t, s, "### Accommodation")
	assert.Contains(t, s, "**Hotel:** Grand")
	assert.Contains(t, s, "**Total trip cost:** $1500.00")
	assert.NotContains(t, s, "Return Flight")
}

func TestSummary_GenericFallback(t *testing.T) {
	finalOutput := map[string]any{"status": "done", "attempts": 2.0}

	n := result.Normalize(finalOutput)
	s := result.Summary(finalOutput, n)

	assert.Contains(t, s, "**status:** done")
	assert.Contains(t, s, "**attempts:** 2")
}

// Sections degrade gracefully: a price-less flight still renders what it has.
func TestSummary_PartialFields(t *testing.T) {
	data := &domain.TravelData{DepartureFlight: &domain.FlightOption{Airline: "Acme"}}
	finalOutput := map[string]any{"departureFlight": map[string]any{"Airline": "Acme"}}

	n := result.Normalize(finalOutput)
	require.NotNil(t, n.Data)
	assert.Equal(t, data.DepartureFlight.Airline, n.Data.DepartureFlight.Airline)

	s := result.Summary(finalOutput, n)
	assert.Contains(t, s, "**Airline:** Acme")
	assert.NotContains(t, s, "Price")
	assert.NotContains(t, s, "Total trip cost")
}
