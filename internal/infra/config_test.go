package infra

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadConfig_ParsesAndOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
api:
  coingecko:
    base_url: https://example.test/api/v3
    poll_interval_sec: 30
    top_assets: 50
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DASH_POLL_INTERVAL_SEC", "15")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.CoinGecko.BaseURL != "https://example.test/api/v3" {
		t.Errorf("base URL not parsed: %s", cfg.API.CoinGecko.BaseURL)
	}
	if cfg.API.CoinGecko.TopAssets != 50 {
		t.Errorf("top_assets not parsed: %d", cfg.API.CoinGecko.TopAssets)
	}
	// Env beats file.
	if cfg.API.CoinGecko.PollIntervalSec != 15 {
		t.Errorf("env override not applied: %d", cfg.API.CoinGecko.PollIntervalSec)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level not parsed: %s", cfg.Logging.Level)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"bad url", func(c *Config) { c.API.CoinGecko.BaseURL = "ftp://nope" }, false},
		{"zero interval", func(c *Config) { c.API.CoinGecko.PollIntervalSec = 0 }, false},
		{"too many assets", func(c *Config) { c.API.CoinGecko.TopAssets = 500 }, false},
		{"zero assets", func(c *Config) { c.API.CoinGecko.TopAssets = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantOK && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.wantOK && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
