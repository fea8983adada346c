// Package gate decides whether seed-driven variation is active for a page load.
//
// Resolution order is fixed: an explicit query override wins, then the first
// recognised environment flag, then the default (enabled).
package gate

import (
	"net/url"
	"os"
	"strings"

	"golang.org/x/text/cases"
)

// QueryParam is the URL parameter that overrides enablement for one request.
const QueryParam = "enable_dynamic"

// DefaultEnvKeys lists the environment flags consulted, in order, when no
// query override is present.
var DefaultEnvKeys = []string{
	"SEEDSHIFT_ENABLE_DYNAMIC",
	"SEEDSHIFT_ENABLE_DYNAMIC_V1",
	"ENABLE_DYNAMIC_V1",
}

// Lookup returns the value for a key when present.
type Lookup func(string) (string, bool)

// Gate resolves variation enablement from ambient configuration.
//
// The zero value reads os.LookupEnv with DefaultEnvKeys and defaults to enabled.
type Gate struct {
	// Lookup reads environment configuration at call time.
	Lookup Lookup
	// EnvKeys overrides DefaultEnvKeys when non-empty.
	EnvKeys []string
	// Disabled flips the final default to off.
	Disabled bool
}

// Enabled reports whether variation is active for a request with query q.
func (g Gate) Enabled(q url.Values) bool {
	if q != nil {
		if on, ok := ParseToken(q.Get(QueryParam)); ok {
			return on
		}
	}
	if on, ok := g.envOverride(); ok {
		return on
	}
	return !g.Disabled
}

func (g Gate) envOverride() (bool, bool) {
	lookup := g.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}
	keys := g.EnvKeys
	if len(keys) == 0 {
		keys = DefaultEnvKeys
	}
	for _, key := range keys {
		value, ok := lookup(key)
		if !ok {
			continue
		}
		if on, ok := ParseToken(value); ok {
			return on, true
		}
	}
	return false, false
}

// ParseToken interprets a toggle token. The second result is false when the
// token is empty or unrecognised so callers can fall through to the next source.
func ParseToken(raw string) (bool, bool) {
	token := cases.Fold().String(strings.TrimSpace(raw))
	switch token {
	case "v1", "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	default:
		return false, false
	}
}
