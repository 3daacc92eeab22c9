package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting of the dashboard. Values from the
// YAML file can be overridden through environment variables so deployments
// never need to edit the file.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		CoinGecko struct {
			BaseURL         string `yaml:"base_url"`
			PollIntervalSec int    `yaml:"poll_interval_sec"`
			TopAssets       int    `yaml:"top_assets"`
		} `yaml:"coingecko"`
	} `yaml:"api"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

// DefaultConfig returns the built-in settings the dashboard runs with when
// no config file is present.
func DefaultConfig() *Config {
	var cfg Config
	cfg.App.Name = "crypto-prices-dashboard"
	cfg.App.Version = "dev"
	cfg.API.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	cfg.API.CoinGecko.PollIntervalSec = 60
	cfg.API.CoinGecko.TopAssets = 100
	cfg.Logging.Level = "info"
	return &cfg
}

// LoadConfig reads and parses the config file, applies env overrides and
// validates the result.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	overrideWithEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	gecko := c.API.CoinGecko
	if !strings.HasPrefix(gecko.BaseURL, "http://") && !strings.HasPrefix(gecko.BaseURL, "https://") {
		return fmt.Errorf("invalid CoinGecko base URL: %s", gecko.BaseURL)
	}
	if gecko.PollIntervalSec <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	// The API caps per_page at 250; one page is all we ever request.
	if gecko.TopAssets < 1 || gecko.TopAssets > 250 {
		return fmt.Errorf("top_assets must be in [1,250], got %d", gecko.TopAssets)
	}
	return nil
}

// overrideWithEnv lets environment variables take precedence over the
// config file.
func overrideWithEnv(cfg *Config) {
	if url := os.Getenv("DASH_API_URL"); url != "" {
		cfg.API.CoinGecko.BaseURL = url
	}
	if iv := os.Getenv("DASH_POLL_INTERVAL_SEC"); iv != "" {
		if n, err := strconv.Atoi(iv); err == nil {
			cfg.API.CoinGecko.PollIntervalSec = n
		}
	}
	if lvl := os.Getenv("DASH_LOG_LEVEL"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}
