// Package routepath stores canonical HTTP paths for the web service.
package routepath

import (
	"net/url"
	"strings"

	"github.com/louisbranch/seedshift/internal/variation/gate"
	"github.com/louisbranch/seedshift/internal/variation/seed"
)

const (
	Root            = "/"
	Health          = "/up"
	Random          = "/random"
	EventsPrefix    = "/events/"
	EventPattern    = EventsPrefix + "{type}"
	APIVariation    = "/api/variation"
	VariantsPrefix  = "/api/variants/"
	VariantPattern  = VariantsPrefix + "{kind}/{key}"
	ScopeCookieName = "seedshift_scope"
)

// Event returns the route registering eventType.
func Event(eventType string) string {
	return EventsPrefix + escapeSegment(eventType)
}

// Variant returns the override route for one element attribute.
func Variant(kind, key string) string {
	return VariantsPrefix + escapeSegment(kind) + "/" + escapeSegment(key)
}

// Storefront returns the storefront route carrying only the variation
// parameters of q.
func Storefront(q url.Values) string {
	kept := url.Values{}
	for _, name := range []string{seed.QueryParam, gate.QueryParam} {
		if value := strings.TrimSpace(q.Get(name)); value != "" {
			kept.Set(name, value)
		}
	}
	if len(kept) == 0 {
		return Root
	}
	return Root + "?" + kept.Encode()
}

func escapeSegment(raw string) string {
	return url.PathEscape(strings.TrimSpace(raw))
}
