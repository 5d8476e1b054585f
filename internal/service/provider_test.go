package service_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/voyant/internal/service"
	"github.com/aretw0/voyant/pkg/domain"
)

func TestStaticProviderIsDeterministic(t *testing.T) {
	p := &service.StaticProvider{}
	form := testForm()

	first, firstSummary, err := p.Search(context.Background(), form)
	require.NoError(t, err)
	second, secondSummary, err := p.Search(context.Background(), form)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, firstSummary, secondSummary)

	require.NotNil(t, first.DepartureFlight)
	require.NotNil(t, first.ReturnFlight)
	require.NotNil(t, first.Accommodation)
	assert.Positive(t, first.TotalCost())
	assert.Contains(t, firstSummary, "Lisbon")
	assert.Contains(t, firstSummary, "Tokyo")
}

func TestStaticProviderScalesWithPreferences(t *testing.T) {
	p := &service.StaticProvider{}

	economy := testForm()
	business := testForm()
	business.CabinClass = domain.CabinBusiness
	business.Passengers = 2

	cheap, _, err := p.Search(context.Background(), economy)
	require.NoError(t, err)
	pricey, _, err := p.Search(context.Background(), business)
	require.NoError(t, err)

	assert.Greater(t, pricey.DepartureFlight.Price, cheap.DepartureFlight.Price)
}

func TestStaticProviderFixtureOverride(t *testing.T) {
	p := &service.StaticProvider{
		Fixtures: []service.Fixture{
			{
				Origin:      "lisbon",
				Destination: "TOKYO",
				Summary:     "Pinned trip.",
				Data: domain.TravelData{
					DepartureFlight: &domain.FlightOption{Airline: "Fixture Air", Price: 1},
				},
			},
		},
	}

	data, summary, err := p.Search(context.Background(), testForm())
	require.NoError(t, err)
	assert.Equal(t, "Fixture Air", data.DepartureFlight.Airline)
	assert.Equal(t, "Pinned trip.", summary)
}

func TestStaticProviderFixtureFailure(t *testing.T) {
	p := &service.StaticProvider{
		Fixtures: []service.Fixture{
			{Origin: "Lisbon", Destination: "Tokyo", Error: "No flights found"},
		},
	}

	_, _, err := p.Search(context.Background(), testForm())
	require.Error(t, err)
	assert.Equal(t, "No flights found", err.Error())
}

func TestLoadFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixtures.yaml")
	content := `fixtures:
  - origin: Lisbon
    destination: Tokyo
    summary: Pinned trip.
    data:
      departureFlight:
        Airline: Fixture Air
        price: 950
  - origin: Lisbon
    destination: Nowhere
    fail: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	fixtures, err := service.LoadFixtures(path)
	require.NoError(t, err)
	require.Len(t, fixtures, 2)

	assert.Equal(t, "Fixture Air", fixtures[0].Data.DepartureFlight.Airline)
	assert.Equal(t, 950.0, fixtures[0].Data.DepartureFlight.Price)
	assert.Equal(t, "No flights found", fixtures[1].Error)
}

func TestLoadFixturesMissingFile(t *testing.T) {
	fixtures, err := service.LoadFixtures(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Nil(t, fixtures)
}

func TestLoadFixturesMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("fixtures: {not a list"), 0o644))

	_, err := service.LoadFixtures(path)
	assert.Error(t, err)
}
