// Package config defines the configuration of the Pourbaix engine. No I/O
// lives in this file; only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// DiagramConfig holds the defaults of every diagram construction.
type DiagramConfig struct {
	PHMin float64 `mapstructure:"ph_min"`
	PHMax float64 `mapstructure:"ph_max"`
	VMin  float64 `mapstructure:"v_min"`
	VMax  float64 `mapstructure:"v_max"`

	// DefaultConcentration is the ion concentration, in mol/L, of elements
	// missing from Concentrations.
	DefaultConcentration float64 `mapstructure:"default_concentration"`

	// Concentrations maps element symbols to ion concentrations.
	Concentrations map[string]float64 `mapstructure:"concentrations"`

	// Composition maps element symbols to their fraction of the overall
	// composition. Empty means an equal split over the entries' elements.
	Composition map[string]float64 `mapstructure:"composition"`

	FilterSolids bool `mapstructure:"filter_solids"`
}

// ComputeConfig bounds the work of stability maps.
type ComputeConfig struct {
	Workers       int           `mapstructure:"workers"`
	MapResolution int           `mapstructure:"map_resolution"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
	Output string `mapstructure:"output"` // "stderr" | "stdout" | file path
}

// CacheConfig holds the Redis snapshot cache parameters.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Mode      string        `mapstructure:"mode"` // "standalone" | "cluster"
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// MetricsConfig holds Prometheus parameters. Metrics are written to Textfile
// in the node_exporter textfile format when a command finishes.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Namespace string `mapstructure:"namespace"`
	Textfile  string `mapstructure:"textfile"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure.
type Config struct {
	Diagram DiagramConfig `mapstructure:"diagram"`
	Compute ComputeConfig `mapstructure:"compute"`
	Log     LogConfig     `mapstructure:"log"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate returns the first semantic error in c.
func (c *Config) Validate() error {
	// Diagram
	if c.Diagram.PHMin >= c.Diagram.PHMax {
		return errors.NewValidationError("diagram.ph_min",
			fmt.Sprintf("ph_min %g must be below ph_max %g", c.Diagram.PHMin, c.Diagram.PHMax))
	}
	if c.Diagram.VMin >= c.Diagram.VMax {
		return errors.NewValidationError("diagram.v_min",
			fmt.Sprintf("v_min %g must be below v_max %g", c.Diagram.VMin, c.Diagram.VMax))
	}
	if c.Diagram.DefaultConcentration <= 0 {
		return errors.NewValidationError("diagram.default_concentration", "must be positive")
	}
	for el, conc := range c.Diagram.Concentrations {
		if conc <= 0 {
			return errors.NewValidationError("diagram.concentrations."+el, "must be positive")
		}
	}
	for el, frac := range c.Diagram.Composition {
		if frac <= 0 {
			return errors.NewValidationError("diagram.composition."+el, "must be positive")
		}
	}

	// Compute
	if c.Compute.Workers < 1 {
		return errors.NewValidationError("compute.workers", fmt.Sprintf("must be ≥ 1, got %d", c.Compute.Workers))
	}
	if c.Compute.MapResolution < 2 || c.Compute.MapResolution > MaxMapResolution {
		return errors.NewValidationError("compute.map_resolution",
			fmt.Sprintf("must be in [2, %d], got %d", MaxMapResolution, c.Compute.MapResolution))
	}
	if c.Compute.Timeout < 0 {
		return errors.NewValidationError("compute.timeout", "must not be negative")
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.NewValidationError("log.level", fmt.Sprintf("%q is invalid; expected debug|info|warn|error", c.Log.Level))
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return errors.NewValidationError("log.format", fmt.Sprintf("%q is invalid; expected json|console", c.Log.Format))
	}

	// Cache
	if c.Cache.Enabled {
		if c.Cache.Addr == "" {
			return errors.NewValidationError("cache.addr", "is required when the cache is enabled")
		}
		switch c.Cache.Mode {
		case "standalone", "cluster":
		default:
			return errors.NewValidationError("cache.mode", fmt.Sprintf("%q is invalid; expected standalone|cluster", c.Cache.Mode))
		}
	}
	if c.Cache.DB < 0 {
		return errors.NewValidationError("cache.db", fmt.Sprintf("must be ≥ 0, got %d", c.Cache.DB))
	}
	if c.Cache.TTL < 0 {
		return errors.NewValidationError("cache.ttl", "must not be negative")
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Namespace == "" {
		return errors.NewValidationError("metrics.namespace", "is required when metrics are enabled")
	}

	return nil
}

// ConcentrationFor returns the configured ion concentration of element.
func (d DiagramConfig) ConcentrationFor(element string) float64 {
	if c, ok := d.Concentrations[element]; ok {
		return c
	}
	return d.DefaultConcentration
}

//Personal.AI order the ending
