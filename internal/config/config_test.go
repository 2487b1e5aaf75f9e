package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/quizdrill/internal/model"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Practice.WeakQuota != nil || cfg.Store.Backend != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigAndApply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, `
[practice]
weak-quota = 6
other-quota = 2
bank = "/tmp/bank.json"

[store]
backend = "redis"
redis-url = "redis://localhost:6379/1"
prefix = "qd:"
`)
	fc, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := Defaults()
	ApplyFile(&cfg, fc)
	if cfg.WeakQuota != 6 || cfg.OtherQuota != 2 {
		t.Fatalf("unexpected quotas: %+v", cfg)
	}
	if cfg.BankPath != "/tmp/bank.json" {
		t.Fatalf("unexpected bank path %q", cfg.BankPath)
	}
	if cfg.Store.Backend != "redis" || cfg.Store.RedisURL != "redis://localhost:6379/1" || cfg.Store.Prefix != "qd:" {
		t.Fatalf("unexpected store config: %+v", cfg.Store)
	}
	if cfg.Store.Path != DefaultDBPath() {
		t.Fatalf("unset path should keep default, got %q", cfg.Store.Path)
	}
}

func TestLoadConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, path, "[practice]\nwords = 10\n")
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestApplyEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvDB, "/data/q.db")
	t.Setenv(EnvStore, "memory")
	t.Setenv(EnvBank, "/data/bank.json")
	t.Setenv(EnvRedisURL, "")

	cfg := Defaults()
	cfg.Store.RedisURL = "redis://file"
	ApplyEnv(&cfg)
	if cfg.Store.Path != "/data/q.db" || cfg.Store.Backend != "memory" || cfg.BankPath != "/data/bank.json" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.Store.RedisURL != "redis://file" {
		t.Fatalf("empty env must not override, got %q", cfg.Store.RedisURL)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := LoadDotEnv(filepath.Join(dir, ".env")); err != nil {
		t.Fatalf("missing .env should be ignored: %v", err)
	}

	t.Setenv(EnvStore, "sqlite")
	t.Setenv(EnvBank, "")
	os.Unsetenv(EnvBank)
	path := filepath.Join(dir, ".env")
	writeFile(t, path, "QUIZDRILL_STORE=redis\nQUIZDRILL_BANK=/from/dotenv.json\n")
	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("load .env: %v", err)
	}
	if got := os.Getenv(EnvStore); got != "sqlite" {
		t.Fatalf("existing env must win, got %q", got)
	}
	if got := os.Getenv(EnvBank); got != "/from/dotenv.json" {
		t.Fatalf("expected value from .env, got %q", got)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     model.Config
		wantErr bool
	}{
		{"defaults", Defaults(), false},
		{"negative weak", model.Config{WeakQuota: -1, OtherQuota: 1}, true},
		{"negative other", model.Config{WeakQuota: 1, OtherQuota: -2}, true},
		{"both zero", model.Config{}, true},
		{"weak only", model.Config{WeakQuota: 3}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	if got := DefaultDBPath(); got != "/xdg/data/quizdrill/quizdrill.db" {
		t.Fatalf("unexpected db path %q", got)
	}
	if got := DefaultConfigPath(); got != "/xdg/config/quizdrill/config.toml" {
		t.Fatalf("unexpected config path %q", got)
	}
	if got := DefaultLogPath(); got != "/xdg/state/quizdrill/quizdrill.log" {
		t.Fatalf("unexpected log path %q", got)
	}
}
