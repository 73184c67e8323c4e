package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/turtacn/pourbaix-engine/pkg/errors"
)

// envPrefix is the environment variable prefix of every setting.
const envPrefix = "PBX"

// newViper builds a Viper instance reading YAML, with PBX_ environment
// overrides where nested keys map "." to "_" (diagram.ph_min →
// PBX_DIAGRAM_PH_MIN). Every scalar key gets a default so that Unmarshal
// sees environment overrides even when no file mentions the key.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("diagram.ph_min", DefaultPHMin)
	v.SetDefault("diagram.ph_max", DefaultPHMax)
	v.SetDefault("diagram.v_min", DefaultVMin)
	v.SetDefault("diagram.v_max", DefaultVMax)
	v.SetDefault("diagram.default_concentration", DefaultIonConcentration)
	v.SetDefault("diagram.filter_solids", false)
	v.SetDefault("compute.workers", DefaultWorkers())
	v.SetDefault("compute.map_resolution", DefaultMapResolution)
	v.SetDefault("compute.timeout", DefaultComputeTimeout)
	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.format", DefaultLogFormat)
	v.SetDefault("log.output", DefaultLogOutput)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.mode", DefaultCacheMode)
	v.SetDefault("cache.addr", DefaultCacheAddr)
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.key_prefix", DefaultCacheKeyPrefix)
	v.SetDefault("cache.ttl", DefaultCacheTTL)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.namespace", DefaultMetricsNamespace)
	v.SetDefault("metrics.textfile", "")
	return v
}

// Load reads the YAML file at configPath, merges PBX_* environment
// overrides, applies defaults and validates the result. An empty configPath
// loads from defaults and the environment only.
func Load(configPath string) (*Config, error) {
	v := newViper()
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeIO, "failed to read config file").WithDetail("path=" + configPath)
		}
	}
	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from PBX_* environment variables and defaults.
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to unmarshal configuration")
	}
	ApplyDefaults(cfg)
	normalizeElementKeys(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeElementKeys restores element symbol case; viper lower-cases map
// keys, so "fe" becomes "Fe".
func normalizeElementKeys(cfg *Config) {
	cfg.Diagram.Concentrations = titleKeys(cfg.Diagram.Concentrations)
	cfg.Diagram.Composition = titleKeys(cfg.Diagram.Composition)
}

func titleKeys(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, val := range m {
		k = strings.TrimSpace(k)
		if k != "" {
			k = strings.ToUpper(k[:1]) + strings.ToLower(k[1:])
		}
		out[k] = val
	}
	return out
}

//Personal.AI order the ending
