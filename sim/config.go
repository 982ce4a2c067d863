package sim

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// SimulationConfig groups the run parameters validated before any trial
// executes.
type SimulationConfig struct {
	Trials       int     `yaml:"trials"`        // Monte Carlo repetitions (must be > 0)
	BaseSeed     int64   `yaml:"base_seed"`     // trial t runs with seed base_seed+t
	TakeupRate   float64 `yaml:"takeup_rate"`   // overall UI take-up probability, in (0,1) exclusive
	TotalFunds   float64 `yaml:"total_funds"`   // program fund size in dollars (must be > 0)
	TargetBurden float64 `yaml:"target_burden"` // affordable rent-to-income ratio, in (0,1]
	HideMOE      bool    `yaml:"hide_moe"`      // omit margin-of-error columns from reports
	Workers      int     `yaml:"workers"`       // concurrent trials (default NumCPU)
}

// DefaultConfig returns the baseline parameters: 30 trials at a 67% take-up
// rate against a $100M fund and the 30% affordability standard.
func DefaultConfig() SimulationConfig {
	return SimulationConfig{
		Trials:       30,
		BaseSeed:     42,
		TakeupRate:   0.67,
		TotalFunds:   100_000_000,
		TargetBurden: 0.30,
		Workers:      runtime.NumCPU(),
	}
}

// LoadScenario reads a YAML scenario file over the defaults.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (SimulationConfig, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading scenario: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing scenario: %w", err)
	}
	return cfg, nil
}

// Validate checks that all fields in the config are valid.
func (c *SimulationConfig) Validate() error {
	if c.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", c.Trials)
	}
	if math.IsNaN(c.TakeupRate) || math.IsInf(c.TakeupRate, 0) {
		return fmt.Errorf("takeup_rate must be a finite number, got %f", c.TakeupRate)
	}
	if c.TakeupRate <= 0 || c.TakeupRate >= 1 {
		return fmt.Errorf("takeup_rate must be in (0, 1) exclusive, got %f", c.TakeupRate)
	}
	if err := validateFinitePositive("total_funds", c.TotalFunds); err != nil {
		return err
	}
	if err := validateFinitePositive("target_burden", c.TargetBurden); err != nil {
		return err
	}
	if c.TargetBurden > 1 {
		return fmt.Errorf("target_burden must be in (0, 1], got %f", c.TargetBurden)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
