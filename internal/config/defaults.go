package config

import (
	"runtime"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultPHMin            = -2.0
	DefaultPHMax            = 16.0
	DefaultVMin             = -4.0
	DefaultVMax             = 4.0
	DefaultIonConcentration = 1e-6
	DefaultMapResolution    = 61
	MaxMapResolution        = 2001
	DefaultComputeTimeout   = 5 * time.Minute
	DefaultLogLevel         = "info"
	DefaultLogFormat        = "json"
	DefaultLogOutput        = "stderr"
	DefaultCacheMode        = "standalone"
	DefaultCacheAddr        = "localhost:6379"
	DefaultCacheKeyPrefix   = "pourbaix:"
	DefaultCacheTTL         = 24 * time.Hour
	DefaultMetricsNamespace = "pourbaix"
)

// DefaultWorkers is the stability map parallelism used when none is set.
func DefaultWorkers() int { return runtime.NumCPU() }

// ApplyDefaults fills zero-value fields in cfg. Explicit values always win.
// The window is treated as a unit: it is defaulted only when all four bounds
// are zero, so that an explicit bound of 0 survives.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Diagram ───────────────────────────────────────────────────────────────
	d := &cfg.Diagram
	if d.PHMin == 0 && d.PHMax == 0 && d.VMin == 0 && d.VMax == 0 {
		d.PHMin, d.PHMax, d.VMin, d.VMax = DefaultPHMin, DefaultPHMax, DefaultVMin, DefaultVMax
	}
	if d.DefaultConcentration == 0 {
		d.DefaultConcentration = DefaultIonConcentration
	}

	// ── Compute ───────────────────────────────────────────────────────────────
	if cfg.Compute.Workers == 0 {
		cfg.Compute.Workers = DefaultWorkers()
	}
	if cfg.Compute.MapResolution == 0 {
		cfg.Compute.MapResolution = DefaultMapResolution
	}
	if cfg.Compute.Timeout == 0 {
		cfg.Compute.Timeout = DefaultComputeTimeout
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = DefaultLogOutput
	}

	// ── Cache ─────────────────────────────────────────────────────────────────
	if cfg.Cache.Mode == "" {
		cfg.Cache.Mode = DefaultCacheMode
	}
	if cfg.Cache.Addr == "" {
		cfg.Cache.Addr = DefaultCacheAddr
	}
	if cfg.Cache.KeyPrefix == "" {
		cfg.Cache.KeyPrefix = DefaultCacheKeyPrefix
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = DefaultCacheTTL
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}

//Personal.AI order the ending
