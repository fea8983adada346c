// Package events tracks short-lived user-action events that override
// seed-based variant selection while they are active.
//
// A Registry is one visitor's event scope. Entries expire lazily on every
// read and are also pruned by a timer that Close cancels.
package events

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTTL is how long a registered event stays active.
const DefaultTTL = 5 * time.Second

// Overrides maps an event type to the element values it forces.
type Overrides map[string]map[string]string

// Lookup returns the value eventType forces for key.
func (o Overrides) Lookup(eventType, key string) (string, bool) {
	values, ok := o[eventType]
	if !ok {
		return "", false
	}
	value, ok := values[key]
	return value, ok
}

// Config configures a Registry.
type Config struct {
	TTL       time.Duration
	Now       func() time.Time
	Overrides Overrides
	Logger    *zap.Logger
}

type entry struct {
	eventType string
	expiresAt time.Time
	timer     *time.Timer
	gen       uint64
}

// Registry is a goroutine-safe set of active events kept in registration order.
// A nil *Registry behaves as an empty scope.
type Registry struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	overrides Overrides
	logger    *zap.Logger
	entries   []*entry
	gen       uint64
	closed    bool
}

// New builds a Registry.
func New(cfg Config) *Registry {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		ttl:       ttl,
		now:       now,
		overrides: cfg.Overrides,
		logger:    logger,
	}
}

// TTL returns the active lifetime of a registration.
func (r *Registry) TTL() time.Duration {
	if r == nil {
		return DefaultTTL
	}
	return r.ttl
}

// Register marks eventType active until now+TTL. Registering an active type
// again refreshes its expiry and keeps its original position.
func (r *Registry) Register(eventType string) {
	eventType = strings.TrimSpace(eventType)
	if r == nil || eventType == "" {
		return
	}
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	now := r.now()
	r.pruneLocked(now)
	e := r.findLocked(eventType)
	refreshed := e != nil
	if e == nil {
		e = &entry{eventType: eventType}
		r.entries = append(r.entries, e)
	} else if e.timer != nil {
		e.timer.Stop()
	}
	r.gen++
	e.gen = r.gen
	e.expiresAt = now.Add(r.ttl)
	gen := e.gen
	e.timer = time.AfterFunc(r.ttl, func() { r.expire(eventType, gen) })
	expiresAt := e.expiresAt
	r.mu.Unlock()

	r.logger.Debug("event registered",
		zap.String("event", eventType),
		zap.Bool("refreshed", refreshed),
		zap.Time("expires_at", expiresAt),
	)
}

// IsActive reports whether eventType was registered and has not expired.
func (r *Registry) IsActive(eventType string) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.now())
	return r.findLocked(strings.TrimSpace(eventType)) != nil
}

// Resolve returns the value an active event forces for key. An explicit
// eventType is tried first; otherwise active events are scanned in
// registration order. ok is false when no active event maps key.
func (r *Registry) Resolve(eventType, key string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.now())
	if eventType = strings.TrimSpace(eventType); eventType != "" && r.findLocked(eventType) != nil {
		if value, ok := r.overrides.Lookup(eventType, key); ok {
			return value, true
		}
	}
	for _, e := range r.entries {
		if value, ok := r.overrides.Lookup(e.eventType, key); ok {
			return value, true
		}
	}
	return "", false
}

// Active returns the active event types in registration order.
func (r *Registry) Active() []string {
	if r == nil {
		return []string{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.now())
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.eventType)
	}
	return out
}

// Close cancels pending expiry timers and drops all entries. Later
// registrations are ignored.
func (r *Registry) Close() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	r.entries = nil
	r.closed = true
}

// expire runs from the entry's timer. It only removes the registration that
// scheduled it, and only once that registration has expired, so stale or
// repeated calls are no-ops.
func (r *Registry) expire(eventType string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.eventType != eventType {
			continue
		}
		if e.gen != gen || r.now().Before(e.expiresAt) {
			return
		}
		r.entries = append(r.entries[:i], r.entries[i+1:]...)
		r.logger.Debug("event expired", zap.String("event", eventType))
		return
	}
}

func (r *Registry) pruneLocked(now time.Time) {
	kept := r.entries[:0]
	for _, e := range r.entries {
		if now.Before(e.expiresAt) {
			kept = append(kept, e)
			continue
		}
		if e.timer != nil {
			e.timer.Stop()
		}
	}
	for i := len(kept); i < len(r.entries); i++ {
		r.entries[i] = nil
	}
	r.entries = kept
}

func (r *Registry) findLocked(eventType string) *entry {
	for _, e := range r.entries {
		if e.eventType == eventType {
			return e
		}
	}
	return nil
}
