package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig     `yaml:"server"`
	Database    DatabaseConfig   `yaml:"database"`
	Events      EventsConfig     `yaml:"events"`
	Scores      ScoresConfig     `yaml:"scores"`
	Revaluation RevalConfig      `yaml:"revaluation"`
	Risk        RiskConfig       `yaml:"risk"`
	Collateral  CollateralConfig `yaml:"collateral"`
	Logging     LoggingConfig    `yaml:"logging"`
}

type ServerConfig struct {
	Port            int    `yaml:"port"`
	MetricsPort     int    `yaml:"metrics_port"`
	AdminToken      string `yaml:"admin_token"`
	RateLimitPerMin int    `yaml:"rate_limit_per_min"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

type ScoresConfig struct {
	URL       string  `yaml:"url"`
	Token     string  `yaml:"token"`
	DefaultPD float64 `yaml:"default_pd"`
}

type RevalConfig struct {
	TickIntervalMs int `yaml:"tick_interval_ms"`
}

type RiskConfig struct {
	// DefaultWeights seeds the 5-slot allocation when the store holds
	// none yet. Must sum to exactly 100.
	DefaultWeights []int `yaml:"default_weights"`
}

type CollateralConfig struct {
	// Data maps each collateral category to its fixed data vector.
	Data map[string][]float64 `yaml:"data"`
	// Weights is applied across every category's data vector.
	Weights []float64 `yaml:"weights"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Revaluation.TickIntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            8700,
			MetricsPort:     8701,
			RateLimitPerMin: 120,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Scores: ScoresConfig{
			URL:       "http://localhost:8720",
			DefaultPD: 0.5,
		},
		Revaluation: RevalConfig{
			TickIntervalMs: 60000,
		},
		Risk: RiskConfig{
			DefaultWeights: []int{30, 25, 20, 15, 10},
		},
		Collateral: CollateralConfig{
			Data: map[string][]float64{
				"A": {0.95, 0.90, 0.85, 0.80},
				"B": {0.85, 0.80, 0.75, 0.70},
				"C": {0.75, 0.70, 0.65, 0.60},
				"D": {0.65, 0.60, 0.55, 0.50},
				"E": {0.50, 0.45, 0.40, 0.35},
			},
			Weights: []float64{0.40, 0.30, 0.20, 0.10},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if len(c.Risk.DefaultWeights) != 5 {
		return fmt.Errorf("risk.default_weights has %d entries, want 5", len(c.Risk.DefaultWeights))
	}
	sum := 0
	for _, w := range c.Risk.DefaultWeights {
		sum += w
	}
	if sum != 100 {
		return fmt.Errorf("risk.default_weights sum to %d, must sum to 100", sum)
	}
	for category, values := range c.Collateral.Data {
		if len(values) != len(c.Collateral.Weights) {
			return fmt.Errorf("collateral category %s: %d values for %d weights",
				category, len(values), len(c.Collateral.Weights))
		}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PROVISION_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("PROVISION_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("PROVISION_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("PROVISION_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("PROVISION_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("PROVISION_SCORES_URL"); v != "" {
		cfg.Scores.URL = v
	}
	if v := os.Getenv("PROVISION_SCORES_TOKEN"); v != "" {
		cfg.Scores.Token = v
	}
	if v := os.Getenv("PROVISION_TICK_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Revaluation.TickIntervalMs = n
		}
	}
	if v := os.Getenv("PROVISION_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
