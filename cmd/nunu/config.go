package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/nunu"
	userConfigFile = "config.yaml"
	userDataDir    = ".local/share/nunu"
)

// fileConfig is the on-disk shape of ~/.config/nunu/config.yaml. Every
// field is optional; defaults cover a stock installation.
type fileConfig struct {
	BaseURL  string `yaml:"base_url"`
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	AuditLog string `yaml:"audit_log"`

	// Redis switches the credential store from the sealed file store to a
	// shared Redis database. Meant for kiosk hosts.
	Redis redisConfig `yaml:"redis"`
}

type redisConfig struct {
	Addr   string        `yaml:"addr"`
	Prefix string        `yaml:"prefix"`
	TTL    time.Duration `yaml:"ttl"`
}

func defaultFileConfig() fileConfig {
	home, _ := os.UserHomeDir()
	return fileConfig{
		BaseURL:  "https://nunu-backend.vercel.app/api",
		DataDir:  filepath.Join(home, userDataDir),
		LogLevel: "warn",
	}
}

// loadConfig layers the user config file over the defaults. A missing file
// is not an error; a malformed one is.
func loadConfig() (fileConfig, error) {
	cfg := defaultFileConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}
	path := filepath.Join(home, userConfigDir, userConfigFile)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = defaultFileConfig().DataDir
	}
	return cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
