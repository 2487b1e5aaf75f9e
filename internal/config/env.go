package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/verte-zerg/quizdrill/internal/model"
)

// Environment variables read by ApplyEnv.
const (
	EnvDB       = "QUIZDRILL_DB"
	EnvStore    = "QUIZDRILL_STORE"
	EnvRedisURL = "QUIZDRILL_REDIS_URL"
	EnvBank     = "QUIZDRILL_BANK"
)

// LoadDotEnv loads variables from path without overriding ones already set.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with QUIZDRILL_* variables that are set.
func ApplyEnv(cfg *model.Config) {
	if v := os.Getenv(EnvDB); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv(EnvStore); v != "" {
		cfg.Store.Backend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.Store.RedisURL = v
	}
	if v := os.Getenv(EnvBank); v != "" {
		cfg.BankPath = v
	}
}
