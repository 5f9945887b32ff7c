package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load of missing file: %v", err)
	}

	if cfg.Server.Port != 31198 {
		t.Errorf("port = %d, want 31198", cfg.Server.Port)
	}
	if cfg.SessionTTL() != time.Hour {
		t.Errorf("ttl = %v, want 1h", cfg.SessionTTL())
	}
	if cfg.SweepInterval() != 10*time.Second {
		t.Errorf("sweep = %v, want 10s", cfg.SweepInterval())
	}
	if cfg.TickInterval() != 5*time.Second {
		t.Errorf("tick = %v, want 5s", cfg.TickInterval())
	}
	if cfg.Market.StepsPerCandle != 3600 {
		t.Errorf("steps = %d, want 3600", cfg.Market.StepsPerCandle)
	}
	if cfg.Market.HistoryCap != 5000 {
		t.Errorf("cap = %d, want 5000", cfg.Market.HistoryCap)
	}
	if cfg.Market.StartBalance != 500 {
		t.Errorf("start balance = %v, want 500", cfg.Market.StartBalance)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].Name != "ekato" {
		t.Errorf("default accounts = %+v", cfg.Accounts)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := `
server:
  host: 127.0.0.1
  port: 9000
logging:
  level: debug
  format: json
session:
  ttl_seconds: 120
market:
  start_balance: 1000
accounts:
  - name: alice
    password: wonderland
    credentials:
      paper:
        username: alice
        password: wonderland
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.SessionTTL() != 2*time.Minute {
		t.Errorf("ttl = %v, want 2m", cfg.SessionTTL())
	}
	if cfg.Market.StartBalance != 1000 {
		t.Errorf("start balance = %v, want 1000", cfg.Market.StartBalance)
	}
	if len(cfg.Accounts) != 1 || cfg.Accounts[0].Name != "alice" {
		t.Errorf("accounts = %+v", cfg.Accounts)
	}
	if cfg.Accounts[0].Credentials["paper"]["username"] != "alice" {
		t.Errorf("paper credentials = %+v", cfg.Accounts[0].Credentials)
	}
	// Unset fields still take defaults.
	if cfg.SweepInterval() != 10*time.Second {
		t.Errorf("sweep = %v, want default 10s", cfg.SweepInterval())
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: ["), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("TRADECORE_HOST", "0.0.0.0")
	t.Setenv("TRADECORE_PORT", "8123")
	t.Setenv("TRADECORE_LOG_LEVEL", "warn")
	t.Setenv("TRADECORE_DATA_FILE", "/tmp/candles.json")
	t.Setenv("SOLANA_BALANCES_URL", "http://localhost:9999/balances")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" || cfg.Server.Port != 8123 {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
	if cfg.Market.DataFile != "/tmp/candles.json" {
		t.Errorf("data file = %q", cfg.Market.DataFile)
	}
	if cfg.Solana.BalancesURL != "http://localhost:9999/balances" {
		t.Errorf("balances url = %q", cfg.Solana.BalancesURL)
	}
}
