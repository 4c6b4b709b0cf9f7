package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Paulos19/nunu"
	"github.com/Paulos19/nunu/api"
	"github.com/Paulos19/nunu/credstore"
)

// app is the assembled client: store, API client, session manager, and the
// route guard over the shell's navigation state. One app is built per
// command invocation; Bootstrap runs before the command body, exactly like
// the mobile app restores its session before rendering the first screen.
type app struct {
	config  fileConfig
	logger  *slog.Logger
	store   credstore.Store
	client  *api.Client
	manager *nunu.Manager
	guard   *nunu.Guard
	nav     *shellNavigator

	auditFile io.Closer
}

// shellNavigator models the terminal client's single displayed location.
// Each command starts at the screen it implements; the guard then replaces
// the location when session state demands a different area.
type shellNavigator struct {
	path string
}

func (n *shellNavigator) Location() string {
	return n.path
}

func (n *shellNavigator) Replace(path string) {
	n.path = path
}

// newApp wires the whole client and bootstraps the session. startPath is
// the screen the invoked command lives on.
func newApp(ctx context.Context, startPath string) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}))

	store, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	installID, err := ensureInstallID(ctx, store)
	if err != nil {
		return nil, err
	}

	client, err := api.New(api.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: "nunu-cli",
		InstallID: installID,
		Logger:    logger,
	})
	if err != nil {
		return nil, err
	}

	a := &app{config: cfg, logger: logger, store: store, client: client}

	builder := nunu.New().
		WithStore(store).
		WithAPIClient(client).
		WithLogger(logger)
	if sink, closer, err := openAuditSink(cfg); err != nil {
		logger.Warn("audit log unavailable", slog.Any("error", err))
	} else if sink != nil {
		builder = builder.WithAuditSink(sink)
		a.auditFile = closer
	}

	manager, err := builder.Build()
	if err != nil {
		a.Close()
		return nil, err
	}
	a.manager = manager

	a.nav = &shellNavigator{path: startPath}
	a.guard = manager.NewGuard(a.nav)

	if err := manager.Bootstrap(nunu.WithOrigin(ctx, "boot")); err != nil {
		a.Close()
		return nil, err
	}
	a.guard.Apply(manager.Current())

	return a, nil
}

func openStore(cfg fileConfig) (credstore.Store, error) {
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		return credstore.NewRedis(client, cfg.Redis.Prefix, cfg.Redis.TTL), nil
	}
	return credstore.OpenSealed(filepath.Join(cfg.DataDir, "credentials"))
}

// ensureInstallID reads the device identifier, minting one on first run.
func ensureInstallID(ctx context.Context, store credstore.Store) (string, error) {
	const key = "nunu_install_id"
	id, ok, err := store.Get(ctx, key)
	if err != nil {
		return "", fmt.Errorf("reading install id: %w", err)
	}
	if ok {
		return id, nil
	}
	id = uuid.NewString()
	if err := store.Set(ctx, key, id); err != nil {
		return "", fmt.Errorf("storing install id: %w", err)
	}
	return id, nil
}

func openAuditSink(cfg fileConfig) (nunu.AuditSink, io.Closer, error) {
	path := cfg.AuditLog
	if path == "" {
		return nil, nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, err
	}
	return nunu.NewJSONWriterSink(f), f, nil
}

// onScreen reports whether the guard left the shell on the screen the
// command implements. When it did not, the command prints the redirect
// hint instead of running.
func (a *app) onScreen(path string) bool {
	return a.nav.Location() == path
}

func (a *app) redirectHint() string {
	if a.nav.Location() == "/auth/login" {
		return "Você precisa entrar primeiro. Use: nunu login"
	}
	return "Você já está conectado. Use: nunu status"
}

func (a *app) Close() {
	if a.manager != nil {
		a.manager.Close()
	}
	if a.auditFile != nil {
		_ = a.auditFile.Close()
	}
}
