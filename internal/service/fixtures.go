package service

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/voyant/pkg/domain"
)

// Fixture pins the provider's answer for one route. Routes are matched
// case-insensitively on origin and destination.
type Fixture struct {
	Origin      string            `yaml:"origin" json:"origin"`
	Destination string            `yaml:"destination" json:"destination"`
	Summary     string            `yaml:"summary" json:"summary"`
	Data        domain.TravelData `yaml:"data" json:"data"`

	// Fail makes the route fail with the canonical no-flights error.
	// Error overrides the failure message.
	Fail  bool   `yaml:"fail" json:"fail"`
	Error string `yaml:"error" json:"error"`
}

// fixtureFile represents the structure of fixtures.yaml.
type fixtureFile struct {
	Fixtures []Fixture `yaml:"fixtures" json:"fixtures"`
}

// LoadFixtures reads route fixtures from a YAML file. A missing file is
// treated as "no fixtures configured".
func LoadFixtures(path string) ([]Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}

	var cfg fixtureFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	for i := range cfg.Fixtures {
		fx := &cfg.Fixtures[i]
		if fx.Fail && fx.Error == "" {
			fx.Error = ErrNoFlights.Error()
		}
	}

	return cfg.Fixtures, nil
}
