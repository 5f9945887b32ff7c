// Package config loads application configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// AccountConfig provisions one login account. Password may be given as a
// bcrypt hash or, for development setups, in plain text which is hashed at
// load time by the directory.
type AccountConfig struct {
	Name         string                       `yaml:"name"`
	Password     string                       `yaml:"password"`
	PasswordHash string                       `yaml:"password_hash"`
	Credentials  map[string]map[string]string `yaml:"credentials"`
}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	Session struct {
		TTLSeconds   int `yaml:"ttl_seconds"`
		SweepSeconds int `yaml:"sweep_seconds"`
	} `yaml:"session"`
	RateLimit struct {
		PerSecond int `yaml:"per_second"`
		Burst     int `yaml:"burst"`
	} `yaml:"rate_limit"`
	Market struct {
		DataFile       string  `yaml:"data_file"`
		TickMillis     int     `yaml:"tick_millis"`
		StepsPerCandle int     `yaml:"steps_per_candle"`
		HistoryCap     int     `yaml:"history_cap"`
		StartPrice     float64 `yaml:"start_price"`
		StartBalance   float64 `yaml:"start_balance"`
	} `yaml:"market"`
	Solana struct {
		BalancesURL string `yaml:"balances_url"`
	} `yaml:"solana"`
	Accounts []AccountConfig `yaml:"accounts"`
}

// Load reads config from a YAML file, applies environment overrides, then
// fills defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TRADECORE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("TRADECORE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("TRADECORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("TRADECORE_DATA_FILE"); v != "" {
		cfg.Market.DataFile = v
	}
	if v := os.Getenv("SOLANA_BALANCES_URL"); v != "" {
		cfg.Solana.BalancesURL = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 31198
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Session.TTLSeconds == 0 {
		c.Session.TTLSeconds = 3600
	}
	if c.Session.SweepSeconds == 0 {
		c.Session.SweepSeconds = 10
	}
	if c.RateLimit.PerSecond == 0 {
		c.RateLimit.PerSecond = 5
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 10
	}
	if c.Market.DataFile == "" {
		c.Market.DataFile = "data/candles.json"
	}
	if c.Market.TickMillis == 0 {
		c.Market.TickMillis = 5000
	}
	if c.Market.StepsPerCandle == 0 {
		c.Market.StepsPerCandle = 3600
	}
	if c.Market.HistoryCap == 0 {
		c.Market.HistoryCap = 5000
	}
	if c.Market.StartPrice == 0 {
		c.Market.StartPrice = 50
	}
	if c.Market.StartBalance == 0 {
		c.Market.StartBalance = 500
	}
	if c.Solana.BalancesURL == "" {
		c.Solana.BalancesURL = "https://lite-api.jup.ag/ultra/v1/balances"
	}
	if len(c.Accounts) == 0 {
		c.Accounts = defaultAccounts()
	}
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLSeconds) * time.Second
}

// SweepInterval returns the session sweeper cadence.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Session.SweepSeconds) * time.Second
}

// TickInterval returns the simulator candle cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.Market.TickMillis) * time.Millisecond
}

// defaultAccounts mirrors the pre-provisioned development account set.
func defaultAccounts() []AccountConfig {
	return []AccountConfig{
		{
			Name:     "ekato",
			Password: "password123",
			Credentials: map[string]map[string]string{
				"paper": {
					"username": "ekato_trader",
					"password": "securepassword",
				},
				"solana": {
					"address":    "GnBP8EpuVkLPACtUKs4jVVHko74EuHqS4QBayJvgzudc",
					"privateKey": "privatekey",
				},
			},
		},
	}
}
