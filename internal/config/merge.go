package config

import (
	"fmt"

	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/session"
	"github.com/verte-zerg/quizdrill/internal/store"
)

// ApplyFile copies values set in the TOML file onto cfg.
func ApplyFile(cfg *model.Config, fc FileConfig) {
	if fc.Practice.WeakQuota != nil {
		cfg.WeakQuota = *fc.Practice.WeakQuota
	}
	if fc.Practice.OtherQuota != nil {
		cfg.OtherQuota = *fc.Practice.OtherQuota
	}
	if fc.Practice.Bank != nil {
		cfg.BankPath = *fc.Practice.Bank
	}
	if fc.Store.Backend != nil {
		cfg.Store.Backend = *fc.Store.Backend
	}
	if fc.Store.Path != nil {
		cfg.Store.Path = *fc.Store.Path
	}
	if fc.Store.RedisURL != nil {
		cfg.Store.RedisURL = *fc.Store.RedisURL
	}
	if fc.Store.Prefix != nil {
		cfg.Store.Prefix = *fc.Store.Prefix
	}
}

// Validate rejects settings no session can be built with.
func Validate(cfg model.Config) error {
	if cfg.WeakQuota < 0 {
		return fmt.Errorf("weak-quota must be >= 0")
	}
	if cfg.OtherQuota < 0 {
		return fmt.Errorf("other-quota must be >= 0")
	}
	if cfg.WeakQuota == 0 && cfg.OtherQuota == 0 {
		return fmt.Errorf("weak-quota and other-quota cannot both be 0")
	}
	return nil
}

// Defaults returns the built-in settings before file, env and flags apply.
func Defaults() model.Config {
	return model.Config{
		WeakQuota:  session.DefaultWeakQuota,
		OtherQuota: session.DefaultOtherQuota,
		Store: model.StoreConfig{
			Backend: store.BackendSQLite,
			Path:    DefaultDBPath(),
			Prefix:  store.DefaultRedisPrefix,
		},
	}
}
