package nunu

import (
	"strings"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	normalizeConfig(&cfg)
	if err := validateConfig(cfg); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}

func TestNormalizeConfigFillsZeroValues(t *testing.T) {
	var cfg Config
	normalizeConfig(&cfg)

	def := defaultConfig()
	if cfg.Storage.TokenKey != def.Storage.TokenKey {
		t.Errorf("TokenKey = %q, want %q", cfg.Storage.TokenKey, def.Storage.TokenKey)
	}
	if cfg.Storage.UserKey != def.Storage.UserKey {
		t.Errorf("UserKey = %q, want %q", cfg.Storage.UserKey, def.Storage.UserKey)
	}
	if cfg.Guard.LoginPath != def.Guard.LoginPath {
		t.Errorf("LoginPath = %q, want %q", cfg.Guard.LoginPath, def.Guard.LoginPath)
	}
	if cfg.Audit.BufferSize != def.Audit.BufferSize {
		t.Errorf("BufferSize = %d, want %d", cfg.Audit.BufferSize, def.Audit.BufferSize)
	}
}

func TestNormalizeConfigKeepsOverrides(t *testing.T) {
	cfg := Config{
		Storage: StorageConfig{TokenKey: "acme_token"},
		Guard:   GuardConfig{HomePath: "/dashboard"},
	}
	normalizeConfig(&cfg)

	if cfg.Storage.TokenKey != "acme_token" {
		t.Errorf("TokenKey overridden to %q", cfg.Storage.TokenKey)
	}
	if cfg.Guard.HomePath != "/dashboard" {
		t.Errorf("HomePath overridden to %q", cfg.Guard.HomePath)
	}
}

func TestValidateConfigRejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "identical storage keys",
			mutate:  func(c *Config) { c.Storage.UserKey = c.Storage.TokenKey },
			wantMsg: "storage keys must differ",
		},
		{
			name:    "relative login path",
			mutate:  func(c *Config) { c.Guard.LoginPath = "auth/login" },
			wantMsg: "login path must start with /",
		},
		{
			name:    "relative home path",
			mutate:  func(c *Config) { c.Guard.HomePath = "home" },
			wantMsg: "home path must start with /",
		},
		{
			name:    "multi-segment prefix",
			mutate:  func(c *Config) { c.Guard.UnauthenticatedPrefix = "auth/public" },
			wantMsg: "single path segment",
		},
		{
			name:    "login path outside unauthenticated area",
			mutate:  func(c *Config) { c.Guard.LoginPath = "/home/login" },
			wantMsg: "unauthenticated area",
		},
		{
			name:    "home path inside unauthenticated area",
			mutate:  func(c *Config) { c.Guard.HomePath = "/auth/home" },
			wantMsg: "authenticated area",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(&cfg)
			err := validateConfig(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
