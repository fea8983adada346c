package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/seedshift/internal/platform/timeouts"
	"github.com/louisbranch/seedshift/internal/services/web/platform/httpx"
	"github.com/louisbranch/seedshift/internal/services/web/platform/observability"
	webstorage "github.com/louisbranch/seedshift/internal/services/web/storage"
	"github.com/louisbranch/seedshift/internal/services/web/templates"
	"github.com/louisbranch/seedshift/internal/variation"
	"github.com/louisbranch/seedshift/internal/variation/catalog"
	"go.uber.org/zap"
)

// Config defines startup inputs for the web service.
type Config struct {
	HTTPAddr string
	Engine   *variation.Engine
	// Baseline is the catalog stored overrides are layered on. It defaults
	// to the engine's catalog at startup.
	Baseline catalog.Catalog
	// Store persists variant overrides. Without it the override API
	// reports unavailable.
	Store        webstorage.Store
	ScopeIdleTTL time.Duration
	Now          func() time.Time
	Products     []templates.Product
	Logger       *zap.Logger
}

// Server hosts the storefront HTTP surface and lifecycle.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	svc        *service
}

// NewHandler builds the root handler with the shared middleware.
func NewHandler(cfg Config) (http.Handler, error) {
	_, h, err := build(context.Background(), cfg)
	return h, err
}

func build(ctx context.Context, cfg Config) (*service, http.Handler, error) {
	svc, err := newService(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := svc.refreshCatalog(ctx); err != nil {
		return nil, nil, fmt.Errorf("load stored variants: %w", err)
	}
	mux, err := svc.handler()
	if err != nil {
		return nil, nil, fmt.Errorf("compose web handler: %w", err)
	}
	return svc, httpx.Chain(mux,
		httpx.RecoverPanic(svc.logger),
		httpx.RequestID(),
		withVisitor(),
		observability.RequestLogger(svc.logger),
	), nil
}

// NewServer validates config and constructs a web server.
func NewServer(ctx context.Context, cfg Config) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	svc, handler, err := build(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Server{
		httpAddr: httpAddr,
		svc:      svc,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or server
// stop. Visitor scopes are swept while serving and closed on return.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	stopSweep := make(chan struct{})
	sweepDone := make(chan struct{})
	go func() {
		defer close(sweepDone)
		s.svc.scopes.run(timeouts.ScopeSweep, stopSweep)
	}()
	defer func() {
		close(stopSweep)
		<-sweepDone
		s.svc.scopes.closeAll()
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()
	s.svc.logger.Info("web server listening", zap.String("addr", s.httpAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown web http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve web http: %w", err)
	}
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
	s.svc.scopes.closeAll()
}
