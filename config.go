package zfinder

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// SelectionConfig describes one named Z definition.
type SelectionConfig struct {
	Name    string   `toml:"name"`
	Cuts0   []string `toml:"cuts0"`
	Cuts1   []string `toml:"cuts1"`
	MassMin float64  `toml:"mass_min"`
	MassMax float64  `toml:"mass_max"`
}

// AcceptanceConfig tunes the acceptance cuts.
type AcceptanceConfig struct {
	MinPt *float64 `toml:"min_pt"`
}

// TruthMatchConfig tunes generator matching.
type TruthMatchConfig struct {
	MaxDeltaR *float64 `toml:"max_delta_r"`
}

// EfficiencyConfig is a binned efficiency for one named cut. Values are
// indexed [abs eta bin][pt bin].
type EfficiencyConfig struct {
	Cut         string      `toml:"cut"`
	AbsEtaEdges []float64   `toml:"abs_eta_edges"`
	PtEdges     []float64   `toml:"pt_edges"`
	Values      [][]float64 `toml:"values"`
}

// Config is the analysis configuration file.
type Config struct {
	Selections []SelectionConfig  `toml:"selection"`
	Acceptance AcceptanceConfig   `toml:"acceptance"`
	TruthMatch TruthMatchConfig   `toml:"truth_match"`
	Efficiency []EfficiencyConfig `toml:"efficiency"`
}

// LoadConfig reads a TOML configuration file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// DecodeConfig parses TOML configuration text.
func DecodeConfig(data string) (Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Definitions builds every configured selection, stopping at the first
// configuration error.
func (c Config) Definitions(opts ...Option) ([]*ZDefinition, error) {
	seen := make(map[string]bool)
	defs := make([]*ZDefinition, 0, len(c.Selections))
	for _, sel := range c.Selections {
		if seen[sel.Name] {
			return nil, &ConfigurationError{Kind: ErrDuplicateName, Selection: sel.Name}
		}
		seen[sel.Name] = true

		def, err := NewZDefinition(sel, opts...)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Definition builds the selection with the given name.
func (c Config) Definition(name string, opts ...Option) (*ZDefinition, error) {
	for _, sel := range c.Selections {
		if sel.Name == name {
			return NewZDefinition(sel, opts...)
		}
	}
	return nil, fmt.Errorf("selection %q not found in config", name)
}

// Setters builds the cut setters described by the configuration, in the
// order they must run.
func (c Config) Setters() ([]Setter, error) {
	acc := NewAcceptanceSetter()
	if c.Acceptance.MinPt != nil {
		acc.MinPt = *c.Acceptance.MinPt
	}
	match := NewTruthMatcher()
	if c.TruthMatch.MaxDeltaR != nil {
		match.MaxDeltaR = *c.TruthMatch.MaxDeltaR
	}
	setters := []Setter{match, acc}

	if len(c.Efficiency) > 0 {
		table, err := NewEfficiencyTable(c.Efficiency)
		if err != nil {
			return nil, err
		}
		setters = append(setters, table)
	}
	return setters, nil
}
