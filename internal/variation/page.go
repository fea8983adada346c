package variation

import (
	"github.com/a-h/templ"
	"github.com/louisbranch/seedshift/internal/variation/attr"
	"github.com/louisbranch/seedshift/internal/variation/catalog"
	"github.com/louisbranch/seedshift/internal/variation/decoy"
	"github.com/louisbranch/seedshift/internal/variation/events"
	"github.com/louisbranch/seedshift/internal/variation/layout"
	"golang.org/x/net/html"
)

// Page is the variation view of one page load. Its gate state and seed are
// fixed at Load time; only the event scope changes underneath it.
type Page struct {
	engine  *Engine
	catalog *catalog.Catalog
	scope   *events.Registry
	enabled bool
	seed    int
}

// Enabled reports whether variation is active for this page.
func (p Page) Enabled() bool {
	return p.enabled
}

// Seed returns the resolved seed.
func (p Page) Seed() int {
	return p.seed
}

// Scope returns the visitor event scope, which may be nil.
func (p Page) Scope() *events.Registry {
	return p.scope
}

// Catalog returns the catalog this page selects from.
func (p Page) Catalog() catalog.Catalog {
	if p.catalog == nil {
		return catalog.Catalog{}
	}
	return *p.catalog
}

// Layout returns the page layout.
func (p Page) Layout() layout.Variant {
	return p.engine.Layout(p.seed, p.enabled)
}

// Order returns the order of n siblings labelled label.
func (p Page) Order(label string, n int) []int {
	return p.engine.Order(label, n, p.seed, p.enabled)
}

// Variant resolves key against m. Disabled pages always return fallback;
// otherwise active events win over seed selection.
func (p Page) Variant(key string, m attr.VariantMap, fallback string) string {
	return p.EventVariant("", key, m, fallback)
}

// EventVariant is Variant with an explicit event type tried first.
func (p Page) EventVariant(eventType, key string, m attr.VariantMap, fallback string) string {
	if !p.enabled {
		return fallback
	}
	if value, ok := p.scope.Resolve(eventType, key); ok {
		return value
	}
	return attr.Select(key, m, fallback, p.seed)
}

// Attr resolves key for kind against the catalog. Event overrides target it
// through attr.EventKey(kind, key).
func (p Page) Attr(kind attr.Kind, key, fallback string) string {
	if !p.enabled {
		return fallback
	}
	if value, ok := p.scope.Resolve("", attr.EventKey(kind, key)); ok {
		return value
	}
	var m attr.VariantMap
	if p.catalog != nil {
		m = p.catalog.Attributes.Map(kind)
	}
	return attr.Select(key, m, fallback, p.seed)
}

// ID resolves an element id variant.
func (p Page) ID(key, fallback string) string {
	return p.Attr(attr.KindID, key, fallback)
}

// Class resolves an element class variant.
func (p Page) Class(key, fallback string) string {
	return p.Attr(attr.KindClass, key, fallback)
}

// Text resolves an element text variant.
func (p Page) Text(key, fallback string) string {
	return p.Attr(attr.KindText, key, fallback)
}

// Wrap encloses c in decoy wrappers. Disabled pages return c unchanged.
func (p Page) Wrap(componentKey string, c templ.Component) templ.Component {
	if !p.enabled {
		return c
	}
	return decoy.Wrap(componentKey, p.seed, c)
}

// WrapNode encloses n in decoy wrappers. Disabled pages return n unchanged.
func (p Page) WrapNode(componentKey string, n *html.Node) *html.Node {
	if !p.enabled {
		return n
	}
	return decoy.WrapNode(componentKey, p.seed, n)
}
