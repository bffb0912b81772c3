package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"PROVISION_PORT", "PROVISION_METRICS_PORT", "PROVISION_ADMIN_TOKEN",
		"PROVISION_DATABASE_URL", "PROVISION_EVENTS_URL", "PROVISION_SCORES_URL",
		"PROVISION_SCORES_TOKEN", "PROVISION_TICK_INTERVAL_MS", "PROVISION_LOG_LEVEL",
	}
	for _, k := range envVars {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8700 {
		t.Errorf("expected port 8700, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 8701 {
		t.Errorf("expected metrics port 8701, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.RateLimitPerMin != 120 {
		t.Errorf("expected rate limit 120, got %d", cfg.Server.RateLimitPerMin)
	}
	if cfg.Events.URL != "nats://localhost:4222" {
		t.Errorf("expected nats URL, got %s", cfg.Events.URL)
	}
	if cfg.Scores.URL != "http://localhost:8720" {
		t.Errorf("expected scores URL, got %s", cfg.Scores.URL)
	}
	if cfg.Scores.DefaultPD != 0.5 {
		t.Errorf("expected default PD 0.5, got %f", cfg.Scores.DefaultPD)
	}
	if cfg.TickInterval() != time.Minute {
		t.Errorf("expected TickInterval 1m, got %v", cfg.TickInterval())
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got '%s'", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected log format 'json', got '%s'", cfg.Logging.Format)
	}

	// Default weight allocation
	wantWeights := []int{30, 25, 20, 15, 10}
	sum := 0
	for i, w := range cfg.Risk.DefaultWeights {
		if w != wantWeights[i] {
			t.Errorf("default weight %d: expected %d, got %d", i, wantWeights[i], w)
		}
		sum += w
	}
	if sum != 100 {
		t.Errorf("default weights sum to %d, expected 100", sum)
	}

	// Collateral tables
	if len(cfg.Collateral.Data) != 5 {
		t.Errorf("expected 5 collateral categories, got %d", len(cfg.Collateral.Data))
	}
	var weightSum float64
	for _, w := range cfg.Collateral.Weights {
		weightSum += w
	}
	if math.Abs(weightSum-1.0) > 0.001 {
		t.Errorf("collateral weights sum to %f, expected 1.0", weightSum)
	}
	for category, values := range cfg.Collateral.Data {
		if len(values) != len(cfg.Collateral.Weights) {
			t.Errorf("category %s: %d values for %d weights", category, len(values), len(cfg.Collateral.Weights))
		}
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PROVISION_PORT", "9100")
	t.Setenv("PROVISION_METRICS_PORT", "9101")
	t.Setenv("PROVISION_ADMIN_TOKEN", "secret-token")
	t.Setenv("PROVISION_DATABASE_URL", "postgres://localhost/provision_test")
	t.Setenv("PROVISION_EVENTS_URL", "nats://nats:4222")
	t.Setenv("PROVISION_SCORES_URL", "http://scores:8720")
	t.Setenv("PROVISION_SCORES_TOKEN", "scores-secret")
	t.Setenv("PROVISION_TICK_INTERVAL_MS", "2000")
	t.Setenv("PROVISION_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9100 {
		t.Errorf("expected port 9100, got %d", cfg.Server.Port)
	}
	if cfg.Server.MetricsPort != 9101 {
		t.Errorf("expected metrics port 9101, got %d", cfg.Server.MetricsPort)
	}
	if cfg.Server.AdminToken != "secret-token" {
		t.Errorf("expected admin token 'secret-token', got '%s'", cfg.Server.AdminToken)
	}
	if cfg.Database.URL != "postgres://localhost/provision_test" {
		t.Errorf("expected database URL, got '%s'", cfg.Database.URL)
	}
	if cfg.Events.URL != "nats://nats:4222" {
		t.Errorf("expected events URL, got '%s'", cfg.Events.URL)
	}
	if cfg.Scores.URL != "http://scores:8720" {
		t.Errorf("expected scores URL, got '%s'", cfg.Scores.URL)
	}
	if cfg.Scores.Token != "scores-secret" {
		t.Errorf("expected scores token, got '%s'", cfg.Scores.Token)
	}
	if cfg.Revaluation.TickIntervalMs != 2000 {
		t.Errorf("expected tick 2000, got %d", cfg.Revaluation.TickIntervalMs)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got '%s'", cfg.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  port: 9500
risk:
  default_weights: [40, 25, 15, 10, 10]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9500 {
		t.Errorf("expected port 9500, got %d", cfg.Server.Port)
	}
	if cfg.Risk.DefaultWeights[0] != 40 {
		t.Errorf("expected first weight 40, got %d", cfg.Risk.DefaultWeights[0])
	}
}

func TestLoadRejectsBadWeights(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
risk:
  default_weights: [40, 25, 15, 10, 5]
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for weights summing to 95")
	}
}
