package nunu

import (
	"errors"
	"strings"
)

// Config groups all tunables of the session core. Zero values are filled in
// from defaultConfig by [Builder.Build]; a Config is treated as immutable
// once the Manager is built.
type Config struct {
	Storage StorageConfig
	Guard   GuardConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

/*
====================================
STORAGE CONFIG
====================================
*/

// StorageConfig names the entries the Manager keeps in the credential
// store. The token and user entries are written together on sign-in and
// deleted together on sign-out; no third session entry exists.
type StorageConfig struct {
	TokenKey     string
	UserKey      string
	InstallIDKey string
}

/*
====================================
GUARD CONFIG
====================================
*/

// GuardConfig defines the two canonical destinations of the route guard
// and how paths are classified into areas. A path whose first segment
// equals UnauthenticatedPrefix belongs to the unauthenticated area;
// everything else is the authenticated area.
type GuardConfig struct {
	LoginPath             string
	HomePath              string
	UnauthenticatedPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig controls the in-process counters and the login latency
// histogram.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

func defaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			TokenKey:     "nunu_token",
			UserKey:      "nunu_user",
			InstallIDKey: "nunu_install_id",
		},
		Guard: GuardConfig{
			LoginPath:             "/auth/login",
			HomePath:              "/home",
			UnauthenticatedPrefix: "auth",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 true,
			EnableLatencyHistograms: false,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types today; the explicit clone point survives
	// so reference-typed fields added later cannot alias builder input.
	return cfg
}

func normalizeConfig(cfg *Config) {
	def := defaultConfig()
	if cfg.Storage.TokenKey == "" {
		cfg.Storage.TokenKey = def.Storage.TokenKey
	}
	if cfg.Storage.UserKey == "" {
		cfg.Storage.UserKey = def.Storage.UserKey
	}
	if cfg.Storage.InstallIDKey == "" {
		cfg.Storage.InstallIDKey = def.Storage.InstallIDKey
	}
	if cfg.Guard.LoginPath == "" {
		cfg.Guard.LoginPath = def.Guard.LoginPath
	}
	if cfg.Guard.HomePath == "" {
		cfg.Guard.HomePath = def.Guard.HomePath
	}
	if cfg.Guard.UnauthenticatedPrefix == "" {
		cfg.Guard.UnauthenticatedPrefix = def.Guard.UnauthenticatedPrefix
	}
	if cfg.Audit.BufferSize <= 0 {
		cfg.Audit.BufferSize = def.Audit.BufferSize
	}
}

func validateConfig(cfg Config) error {
	if cfg.Storage.TokenKey == cfg.Storage.UserKey {
		return errors.New("config: token and user storage keys must differ")
	}
	if !strings.HasPrefix(cfg.Guard.LoginPath, "/") {
		return errors.New("config: guard login path must start with /")
	}
	if !strings.HasPrefix(cfg.Guard.HomePath, "/") {
		return errors.New("config: guard home path must start with /")
	}
	if strings.Contains(cfg.Guard.UnauthenticatedPrefix, "/") {
		return errors.New("config: unauthenticated prefix is a single path segment")
	}
	if ClassifyPath(cfg.Guard.LoginPath, cfg.Guard.UnauthenticatedPrefix) != AreaUnauthenticated {
		return errors.New("config: guard login path must live in the unauthenticated area")
	}
	if ClassifyPath(cfg.Guard.HomePath, cfg.Guard.UnauthenticatedPrefix) != AreaAuthenticated {
		return errors.New("config: guard home path must live in the authenticated area")
	}
	return nil
}
