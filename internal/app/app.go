// Package app wires the bank, store, mastery, streak and session runner.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/verte-zerg/quizdrill/internal/bank"
	"github.com/verte-zerg/quizdrill/internal/mastery"
	"github.com/verte-zerg/quizdrill/internal/model"
	"github.com/verte-zerg/quizdrill/internal/session"
	"github.com/verte-zerg/quizdrill/internal/store"
	"github.com/verte-zerg/quizdrill/internal/streak"
)

// App holds the loaded components of one quizdrill process.
type App struct {
	Bank    *bank.Bank
	Store   store.Backend
	Mastery *mastery.Model
	Streak  *streak.Tracker
	Builder *session.Builder
	Runner  *session.Runner
	Logger  *slog.Logger
}

// Open loads everything cfg points to. Unreadable mastery or streak state
// is logged and replaced with empty state.
func Open(ctx context.Context, cfg model.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	b, err := loadBank(cfg.BankPath)
	if err != nil {
		return nil, err
	}
	st, err := store.OpenBackend(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	logger.Info("store opened", "backend", cfg.Store.Backend, "questions", b.Len(), "domains", len(b.Domains()))

	m, err := mastery.Load(ctx, st, b, logger)
	if err != nil {
		logger.Warn("mastery unavailable, starting empty", "err", err)
	}
	tr, err := streak.Load(ctx, st, time.Now())
	if err != nil {
		logger.Warn("streak unavailable, starting at zero", "err", err)
	}

	return &App{
		Bank:    b,
		Store:   st,
		Mastery: m,
		Streak:  tr,
		Builder: session.NewBuilder(cfg.WeakQuota, cfg.OtherQuota, nil),
		Runner:  session.NewRunner(m, tr, st),
		Logger:  logger,
	}, nil
}

func loadBank(path string) (*bank.Bank, error) {
	if path == "" {
		return bank.Default()
	}
	b, err := bank.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load bank %s: %w", path, err)
	}
	return b, nil
}

// StartSession builds a session from current mastery and starts the runner.
func (a *App) StartSession() error {
	qs := a.Builder.Build(a.Mastery.Levels(), a.Bank)
	if err := a.Runner.Start(qs); err != nil {
		return err
	}
	a.Logger.Info("session started", "questions", len(qs))
	return nil
}

// Reset clears mastery and streak state. Session history is kept.
func (a *App) Reset(ctx context.Context) error {
	a.Runner.Abandon()
	return errors.Join(a.Mastery.Reset(ctx), a.Streak.Reset(ctx))
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}
