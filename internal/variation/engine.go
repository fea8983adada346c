// Package variation composes the seed-driven variation components into one
// service object.
//
// An Engine is built once per process from a Config and shared by reference.
// Each page load calls Load to obtain an immutable Page bound to the resolved
// gate state, seed and the visitor's event scope.
package variation

import (
	"net/url"
	"sync/atomic"
	"time"

	"github.com/louisbranch/seedshift/internal/variation/catalog"
	"github.com/louisbranch/seedshift/internal/variation/events"
	"github.com/louisbranch/seedshift/internal/variation/gate"
	"github.com/louisbranch/seedshift/internal/variation/layout"
	"github.com/louisbranch/seedshift/internal/variation/order"
	"github.com/louisbranch/seedshift/internal/variation/seed"
	"go.uber.org/zap"
)

// Config configures an Engine.
type Config struct {
	Gate     gate.Gate
	Layouts  *layout.Registry
	Catalog  catalog.Catalog
	EventTTL time.Duration
	Now      func() time.Time
	Logger   *zap.Logger
}

// Engine holds the shared, read-mostly variation configuration.
type Engine struct {
	gate     gate.Gate
	layouts  *layout.Registry
	catalog  atomic.Pointer[catalog.Catalog]
	eventTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// New builds an Engine. Missing layouts default to layout.DefaultRegistry and
// a zero catalog to catalog.Default.
func New(cfg Config) *Engine {
	layouts := cfg.Layouts
	if layouts == nil {
		layouts = layout.DefaultRegistry()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	c := cfg.Catalog
	if c.Attributes.IDs == nil && c.Attributes.Classes == nil && c.Attributes.Texts == nil && c.Events == nil {
		c = catalog.Default()
	}
	e := &Engine{
		gate:     cfg.Gate,
		layouts:  layouts,
		eventTTL: cfg.EventTTL,
		now:      cfg.Now,
		logger:   logger,
	}
	e.catalog.Store(&c)
	return e
}

// Catalog returns the current variant catalog.
func (e *Engine) Catalog() catalog.Catalog {
	return *e.catalog.Load()
}

// SetCatalog swaps the variant catalog used by subsequent page loads.
// Pages already loaded keep the catalog they started with.
func (e *Engine) SetCatalog(c catalog.Catalog) {
	e.catalog.Store(&c)
}

// NewScope returns an event scope for one visitor using the engine's
// TTL, clock and current event overrides. Callers own the scope and must
// Close it.
func (e *Engine) NewScope() *events.Registry {
	return events.New(events.Config{
		TTL:       e.eventTTL,
		Now:       e.now,
		Overrides: e.Catalog().Events,
		Logger:    e.logger,
	})
}

// IsEnabled reports whether variation is active for query q.
func (e *Engine) IsEnabled(q url.Values) bool {
	return e.gate.Enabled(q)
}

// ResolveSeed resolves the effective seed for query q.
func (e *Engine) ResolveSeed(q url.Values) int {
	return seed.Resolve(q.Get(seed.QueryParam), e.IsEnabled(q))
}

// Layout returns the layout for s.
func (e *Engine) Layout(s int, enabled bool) layout.Variant {
	return e.layouts.Get(s, enabled)
}

// Order returns the sibling order for label. Disabled lookups return the
// identity order.
func (e *Engine) Order(label string, n, s int, enabled bool) []int {
	if !enabled {
		return order.Identity(n)
	}
	return order.Permutation(label, n, s)
}

// Load resolves gate state and seed once for a page load. scope may be nil
// when the visitor has no event scope.
func (e *Engine) Load(q url.Values, scope *events.Registry) Page {
	enabled := e.IsEnabled(q)
	return Page{
		engine:  e,
		catalog: e.catalog.Load(),
		scope:   scope,
		enabled: enabled,
		seed:    seed.Resolve(q.Get(seed.QueryParam), enabled),
	}
}
