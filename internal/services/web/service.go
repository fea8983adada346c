package web

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/louisbranch/seedshift/internal/services/web/platform/httpx"
	"github.com/louisbranch/seedshift/internal/services/web/routepath"
	webstorage "github.com/louisbranch/seedshift/internal/services/web/storage"
	"github.com/louisbranch/seedshift/internal/services/web/templates"
	"github.com/louisbranch/seedshift/internal/variation"
	"github.com/louisbranch/seedshift/internal/variation/catalog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/louisbranch/seedshift/internal/services/web"

// service is the state shared by every module of one handler.
type service struct {
	engine   *variation.Engine
	baseline catalog.Catalog
	store    webstorage.Store
	scopes   *scopes
	products []templates.Product
	logger   *zap.Logger
	tracer   trace.Tracer

	// catalogMu serializes override writes with the catalog rebuild that
	// follows them.
	catalogMu sync.Mutex
}

func newService(cfg Config) (*service, error) {
	if cfg.Engine == nil {
		return nil, errors.New("variation engine is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	products := cfg.Products
	if len(products) == 0 {
		products = DefaultProducts()
	}
	baseline := cfg.Baseline
	if baseline.Attributes.IDs == nil && baseline.Attributes.Classes == nil && baseline.Attributes.Texts == nil {
		baseline = cfg.Engine.Catalog()
	}
	svc := &service{
		engine:   cfg.Engine,
		baseline: baseline,
		store:    cfg.Store,
		scopes:   newScopes(cfg.Engine.NewScope, cfg.ScopeIdleTTL, cfg.Now, logger),
		products: products,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
	return svc, nil
}

// refreshCatalog rebuilds the engine catalog from the baseline and every
// stored override. Callers hold catalogMu.
func (s *service) refreshCatalog(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	stored, err := s.store.ListVariants(ctx)
	if err != nil {
		return err
	}
	overrides := make([]catalog.Override, 0, len(stored))
	for _, o := range stored {
		overrides = append(overrides, catalog.Override{Kind: o.Kind, Key: o.Key, Candidates: o.Candidates})
	}
	s.engine.SetCatalog(s.baseline.Merge(overrides))
	s.logger.Debug("variant catalog refreshed", zap.Int("overrides", len(overrides)))
	return nil
}

// handler composes every module behind the shared middleware.
func (s *service) handler() (http.Handler, error) {
	modules := []moduleWithHealth{
		newStorefrontModule(s),
		newAPIModule(s),
	}
	mux := http.NewServeMux()
	for _, m := range modules {
		mount, err := m.Mount()
		if err != nil {
			return nil, err
		}
		if mount.Prefix == "" || mount.Handler == nil {
			return nil, errors.New("module " + m.ID() + " returned an empty mount")
		}
		mux.Handle(mount.Prefix, mount.Handler)
	}
	mux.HandleFunc("GET "+routepath.Health, func(w http.ResponseWriter, _ *http.Request) {
		for _, m := range modules {
			if !m.Healthy() {
				_ = httpx.WriteHTML(w, http.StatusServiceUnavailable, "unavailable: "+m.ID())
				return
			}
		}
		_ = httpx.WriteHTML(w, http.StatusOK, "ok")
	})
	return mux, nil
}

func (s *service) storeHealthy() bool {
	if s.store == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.store.Ping(ctx); err != nil {
		s.logger.Warn("variant store unhealthy", zap.Error(err))
		return false
	}
	return true
}
