package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for an htnsim run.
type Config struct {
	DSN        string
	CohortPath string
	LogFormat  string // "text" or "json"
	Verbose    bool

	Seed          int64
	HorizonYears  int
	Workers       int
	Iterations    int
	Patients      int // synthetic cohort size when no cohort file is given
	DiscountRate  float64
	Tolerance     float64 // relative ICER MCSE target; 0 disables adaptive stop
	MaxIterations int

	// PhenotypeBaselineOnly freezes phenotype modifiers to reporting-only
	// instead of applying them as dynamic per-cycle multipliers.
	PhenotypeBaselineOnly bool `yaml:"phenotype_baseline_only"`

	// WTPGrid is the willingness-to-pay sweep for the CEAC, $/QALY.
	WTPGrid []float64 `yaml:"wtp_grid"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	PhenotypeBaselineOnly *bool     `yaml:"phenotype_baseline_only"`
	WTPGrid               []float64 `yaml:"wtp_grid"`
	DiscountRate          *float64  `yaml:"discount_rate"`
	Tolerance             *float64  `yaml:"tolerance"`
}

// DefaultWTPGrid is the CEAC sweep used when none is configured.
func DefaultWTPGrid() []float64 {
	grid := make([]float64, 0, 21)
	for wtp := 0.0; wtp <= 200000; wtp += 10000 {
		grid = append(grid, wtp)
	}
	return grid
}

// LoadFromFile reads a YAML config file and merges its values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.PhenotypeBaselineOnly != nil {
		c.PhenotypeBaselineOnly = *yc.PhenotypeBaselineOnly
	}
	if len(yc.WTPGrid) > 0 {
		c.WTPGrid = yc.WTPGrid
	}
	if yc.DiscountRate != nil {
		c.DiscountRate = *yc.DiscountRate
	}
	if yc.Tolerance != nil {
		c.Tolerance = *yc.Tolerance
	}
	return c.validateGrid()
}

// validateGrid checks that the WTP sweep is non-negative and increasing.
// An empty grid falls back to the default sweep.
func (c *Config) validateGrid() error {
	if len(c.WTPGrid) == 0 {
		c.WTPGrid = DefaultWTPGrid()
		return nil
	}
	prev := -1.0
	for _, wtp := range c.WTPGrid {
		if wtp < 0 {
			return fmt.Errorf("wtp_grid contains negative value %g", wtp)
		}
		if wtp <= prev {
			return fmt.Errorf("wtp_grid must be strictly increasing, got %g after %g", wtp, prev)
		}
		prev = wtp
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.HorizonYears <= 0 {
		return fmt.Errorf("--horizon-years must be positive")
	}
	if c.CohortPath == "" && c.Patients <= 0 {
		return fmt.Errorf("--cohort or --patients is required")
	}
	if c.CohortPath != "" {
		if _, err := os.Stat(c.CohortPath); err != nil {
			return fmt.Errorf("cohort file not accessible: %w", err)
		}
	}
	if c.DiscountRate < 0 || c.DiscountRate > 0.2 {
		return fmt.Errorf("--discount-rate %.3f outside [0, 0.2]", c.DiscountRate)
	}
	return c.validateGrid()
}

// ValidateWithDSN checks both run and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or HTNSIM_DB_URL is required")
	}
	return nil
}

// HorizonCycles converts the configured horizon to monthly cycles.
func (c *Config) HorizonCycles() int {
	return c.HorizonYears * 12
}
