// Package web wires configuration, logging and storage for the storefront
// web command.
package web

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	platformcmd "github.com/louisbranch/seedshift/internal/platform/cmd"
	"github.com/louisbranch/seedshift/internal/platform/timeouts"
	"github.com/louisbranch/seedshift/internal/services/web"
	"github.com/louisbranch/seedshift/internal/services/web/storage/sqlite"
	"github.com/louisbranch/seedshift/internal/variation"
	"github.com/louisbranch/seedshift/internal/variation/catalog"
	"github.com/louisbranch/seedshift/internal/variation/gate"
	"go.uber.org/zap"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr     string        `env:"SEEDSHIFT_WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	DBPath       string        `env:"SEEDSHIFT_WEB_DB_PATH" envDefault:"data/seedshift.db"`
	CatalogPath  string        `env:"SEEDSHIFT_WEB_CATALOG_PATH"`
	EventTTL     time.Duration `env:"SEEDSHIFT_EVENT_TTL" envDefault:"5s"`
	ScopeIdleTTL time.Duration `env:"SEEDSHIFT_SCOPE_IDLE_TTL" envDefault:"10m"`
	// DynamicDefault applies when neither the query nor the environment
	// toggles variation.
	DynamicDefault bool `env:"SEEDSHIFT_DYNAMIC_DEFAULT" envDefault:"true"`
	Debug          bool `env:"SEEDSHIFT_LOG_DEBUG"`
}

// ParseConfig loads environment defaults and then parses flags.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	if fs == nil {
		return Config{}, errors.New("flag parser is required")
	}
	var cfg Config
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite path for stored variant overrides")
	fs.StringVar(&cfg.CatalogPath, "catalog-path", cfg.CatalogPath, "YAML variant catalog (embedded default when empty)")
	fs.DurationVar(&cfg.EventTTL, "event-ttl", cfg.EventTTL, "How long a user-action event overrides variants")
	fs.DurationVar(&cfg.ScopeIdleTTL, "scope-idle-ttl", cfg.ScopeIdleTTL, "How long an idle visitor event scope is kept")
	fs.BoolVar(&cfg.DynamicDefault, "dynamic-default", cfg.DynamicDefault, "Enable variation when not toggled by query or environment")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return errors.New("http address is required")
	}
	if strings.TrimSpace(c.DBPath) == "" {
		return errors.New("db path is required")
	}
	if c.EventTTL <= 0 {
		return fmt.Errorf("event ttl must be positive, got %v", c.EventTTL)
	}
	if c.ScopeIdleTTL <= 0 {
		return fmt.Errorf("scope idle ttl must be positive, got %v", c.ScopeIdleTTL)
	}
	return nil
}

// NewLogger builds the production JSON logger, at debug level when asked.
func NewLogger(debug bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if debug {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("service", platformcmd.ServiceWeb)), nil
}

// Run starts the storefront web server.
func Run(ctx context.Context, cfg Config, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseline := catalog.OrDefault(cfg.CatalogPath, logger)

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create db dir: %w", err)
		}
	}
	store, err := sqlite.Open(cfg.DBPath, logger)
	if err != nil {
		return fmt.Errorf("open variant store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close variant store", zap.Error(err))
		}
	}()

	engine := variation.New(variation.Config{
		Gate:     gate.Gate{Disabled: !cfg.DynamicDefault},
		Catalog:  baseline,
		EventTTL: cfg.EventTTL,
		Logger:   logger,
	})
	// Startup loading finishes even when shutdown is already requested;
	// ListenAndServe then returns at once.
	startCtx, cancelStart := context.WithTimeout(context.WithoutCancel(ctx), timeouts.Startup)
	defer cancelStart()
	server, err := web.NewServer(startCtx, web.Config{
		HTTPAddr:     cfg.HTTPAddr,
		Engine:       engine,
		Baseline:     baseline,
		Store:        store,
		ScopeIdleTTL: cfg.ScopeIdleTTL,
		Logger:       logger,
	})
	if err != nil {
		return fmt.Errorf("init web server: %w", err)
	}
	defer server.Close()

	if err := server.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve web: %w", err)
	}
	return nil
}
