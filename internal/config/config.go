package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voltmesh/load-distributor/internal/catalog"
	"github.com/voltmesh/load-distributor/internal/distributor"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
)

// Config aggregates runtime configuration resolved from multiple sources.
// Precedence: CLI flags > YAML config > Environment variables > Defaults
type Config struct {
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	Engine               distributor.Params
	InitialTypes         []distributor.TransformerType
}

// yamlConfig represents the YAML configuration file structure.
type yamlConfig struct {
	Port                 string                `yaml:"port"`
	ShutdownGracePeriod  string                `yaml:"shutdown_grace_period"`
	ReadHeaderTimeout    string                `yaml:"read_header_timeout"`
	WriteTimeout         string                `yaml:"write_timeout"`
	IdleTimeout          string                `yaml:"idle_timeout"`
	EnableRequestLogging bool                  `yaml:"enable_request_logging"`
	RateLimit            yamlRateLimit         `yaml:"rate_limit"`
	Engine               yamlEngine            `yaml:"engine"`
	TransformerTypes     []yamlTransformerType `yaml:"transformer_types"`
}

// yamlRateLimit represents the rate limit section in YAML.
type yamlRateLimit struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// yamlEngine represents the engine parameters section in YAML.
type yamlEngine struct {
	MaxBreakerCapacity float64     `yaml:"max_breaker_capacity"`
	LargeThreshold     int         `yaml:"large_threshold"`
	SplitBandMin       int         `yaml:"split_band_min"`
	DedicatedCapacity  float64     `yaml:"dedicated_capacity"`
	DedicatedTypes     map[int]int `yaml:"dedicated_types"`
}

// yamlTransformerType represents one catalog entry in YAML.
type yamlTransformerType struct {
	Capacity int     `yaml:"capacity"`
	SafeLoad float64 `yaml:"safe_load"`
	Breakers int     `yaml:"breakers"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile         string
	Port               *string
	RateLimitRPS       *float64
	RateLimitBurst     *int
	MaxBreakerCapacity *float64
}

// Load extracts configuration from multiple sources with precedence:
// CLI flags > YAML config > Environment variables > Defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	// Load from YAML file if specified
	if overrides != nil && overrides.ConfigFile != "" {
		yamlCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load YAML config: %w", err)
		}
		applyYAMLConfig(&cfg, yamlCfg)
	}

	// Apply environment variables (override YAML)
	applyEnvConfig(&cfg)

	// Apply CLI overrides (highest precedence)
	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	// Validate final configuration
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		Engine:               distributor.DefaultParams(),
		InitialTypes:         catalog.DefaultTypes(),
	}
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(path string) (*yamlConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return &yamlCfg, nil
}

// applyYAMLConfig applies YAML configuration to the Config struct.
func applyYAMLConfig(cfg *Config, yamlCfg *yamlConfig) {
	if yamlCfg.Port != "" {
		cfg.Port = yamlCfg.Port
	}

	if yamlCfg.ShutdownGracePeriod != "" {
		if d, err := time.ParseDuration(yamlCfg.ShutdownGracePeriod); err == nil {
			cfg.ShutdownGracePeriod = d
		}
	}

	if yamlCfg.ReadHeaderTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.ReadHeaderTimeout); err == nil {
			cfg.ReadHeaderTimeout = d
		}
	}

	if yamlCfg.WriteTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.WriteTimeout); err == nil {
			cfg.WriteTimeout = d
		}
	}

	if yamlCfg.IdleTimeout != "" {
		if d, err := time.ParseDuration(yamlCfg.IdleTimeout); err == nil {
			cfg.IdleTimeout = d
		}
	}

	cfg.EnableRequestLogging = yamlCfg.EnableRequestLogging

	if yamlCfg.RateLimit.RPS >= 0 {
		cfg.RateLimitRPS = yamlCfg.RateLimit.RPS
	}

	if yamlCfg.RateLimit.Burst >= 0 {
		cfg.RateLimitBurst = yamlCfg.RateLimit.Burst
	}

	if yamlCfg.Engine.MaxBreakerCapacity > 0 {
		cfg.Engine.MaxBreakerCapacity = yamlCfg.Engine.MaxBreakerCapacity
	}

	if yamlCfg.Engine.LargeThreshold > 0 {
		cfg.Engine.LargeThreshold = yamlCfg.Engine.LargeThreshold
	}

	if yamlCfg.Engine.SplitBandMin > 0 {
		cfg.Engine.SplitBandMin = yamlCfg.Engine.SplitBandMin
	}

	if yamlCfg.Engine.DedicatedCapacity > 0 {
		cfg.Engine.DedicatedCapacity = yamlCfg.Engine.DedicatedCapacity
	}

	if len(yamlCfg.Engine.DedicatedTypes) > 0 {
		cfg.Engine.DedicatedTypes = yamlCfg.Engine.DedicatedTypes
	}

	if len(yamlCfg.TransformerTypes) > 0 {
		types := make([]distributor.TransformerType, 0, len(yamlCfg.TransformerTypes))
		for _, t := range yamlCfg.TransformerTypes {
			types = append(types, distributor.TransformerType{
				Capacity: t.Capacity,
				SafeLoad: t.SafeLoad,
				Breakers: t.Breakers,
			})
		}
		cfg.InitialTypes = types
	}
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		cfg.Port = port
	}

	if rps := strings.TrimSpace(os.Getenv("RATE_LIMIT_RPS")); rps != "" {
		if value, err := strconv.ParseFloat(rps, 64); err == nil && value >= 0 {
			cfg.RateLimitRPS = value
		}
	}

	if burst := strings.TrimSpace(os.Getenv("RATE_LIMIT_BURST")); burst != "" {
		if value, err := strconv.Atoi(burst); err == nil && value >= 0 {
			cfg.RateLimitBurst = value
		}
	}

	if ceiling := strings.TrimSpace(os.Getenv("MAX_BREAKER_CAPACITY")); ceiling != "" {
		if value, err := strconv.ParseFloat(ceiling, 64); err == nil && value > 0 {
			cfg.Engine.MaxBreakerCapacity = value
		}
	}
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.MaxBreakerCapacity != nil && *overrides.MaxBreakerCapacity > 0 {
		cfg.Engine.MaxBreakerCapacity = *overrides.MaxBreakerCapacity
	}
}

// validateConfig validates the final configuration.
func validateConfig(cfg Config) error {
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.Engine.MaxBreakerCapacity <= 0 {
		return fmt.Errorf("max breaker capacity must be positive")
	}
	if cfg.Engine.SplitBandMin <= 0 || cfg.Engine.LargeThreshold <= cfg.Engine.SplitBandMin {
		return fmt.Errorf("thresholds must satisfy 0 < split band min < large threshold")
	}
	if len(cfg.InitialTypes) == 0 {
		return fmt.Errorf("transformer type catalog cannot be empty")
	}
	return nil
}
