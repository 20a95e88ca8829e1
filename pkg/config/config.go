// Package config holds the explorer profile: where the lobbying data
// export lives and how the record listing is displayed. Profiles are plain
// YAML files.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultDataPath is the data file used when no profile or flag overrides
// it.
const DefaultDataPath = "lobbying_data.json"

// DefaultColumns is the display-column order of the record listing.
var DefaultColumns = []string{
	"filing_year",
	"filing_type_display",
	"registrant_name",
	"registrant_type",
	"client_name",
	"lobbyists",
	"covered_positions",
	"foreign_entities",
	"filing_link",
}

// Config is the explorer profile.
type Config struct {
	// DataPath is the lobbying disclosure JSON export to load.
	DataPath string `yaml:"data_path"`

	// Columns is the display-column order for record listings. Empty means
	// the default order.
	Columns []string `yaml:"columns,omitempty"`

	// Charts toggles the aggregate sections of the summary output.
	Charts ChartConfig `yaml:"charts"`
}

// ChartConfig selects which aggregate breakdowns the summary shows.
type ChartConfig struct {
	FilingsPerYear  bool `yaml:"filings_per_year"`
	RegistrantTypes bool `yaml:"registrant_types"`
	ForeignEntities bool `yaml:"foreign_entities"`
	Positions       bool `yaml:"covered_positions"`
}

// Default returns the profile used when no file is loaded.
func Default() *Config {
	return &Config{
		DataPath: DefaultDataPath,
		Columns:  append([]string{}, DefaultColumns...),
		Charts: ChartConfig{
			FilingsPerYear:  true,
			RegistrantTypes: true,
			ForeignEntities: true,
			Positions:       true,
		},
	}
}

// DisplayColumns returns the configured column order, falling back to the
// default when unset.
func (c *Config) DisplayColumns() []string {
	if len(c.Columns) == 0 {
		return append([]string{}, DefaultColumns...)
	}
	return c.Columns
}

// FromYAML parses a profile from YAML data.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if cfg.DataPath == "" {
		cfg.DataPath = DefaultDataPath
	}
	return cfg, nil
}

// ToYAML serializes the profile.
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// LoadFromFile reads a profile from a YAML file on disk.
func LoadFromFile(filePath string) (*Config, error) {
	yamlData, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", filePath, err)
	}
	return FromYAML(yamlData)
}

// SaveToFile writes the profile to a YAML file on disk.
func (c *Config) SaveToFile(filePath string) error {
	yamlData, err := c.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to serialize profile: %w", err)
	}
	if err := os.WriteFile(filePath, yamlData, 0644); err != nil {
		return fmt.Errorf("failed to write profile file %s: %w", filePath, err)
	}
	return nil
}
