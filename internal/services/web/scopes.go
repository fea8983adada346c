package web

import (
	"sync"
	"time"

	"github.com/louisbranch/seedshift/internal/variation/events"
	"go.uber.org/zap"
)

// DefaultScopeIdleTTL is how long an untouched visitor scope is kept.
const DefaultScopeIdleTTL = 10 * time.Minute

type scopeEntry struct {
	registry *events.Registry
	lastSeen time.Time
}

// scopes holds one event registry per visitor id.
type scopes struct {
	mu       sync.Mutex
	newScope func() *events.Registry
	idleTTL  time.Duration
	now      func() time.Time
	logger   *zap.Logger
	entries  map[string]*scopeEntry
	closed   bool
}

func newScopes(newScope func() *events.Registry, idleTTL time.Duration, now func() time.Time, logger *zap.Logger) *scopes {
	if idleTTL <= 0 {
		idleTTL = DefaultScopeIdleTTL
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &scopes{
		newScope: newScope,
		idleTTL:  idleTTL,
		now:      now,
		logger:   logger,
		entries:  map[string]*scopeEntry{},
	}
}

// lookup returns the scope for id, or nil when the visitor has none.
func (s *scopes) lookup(id string) *events.Registry {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil
	}
	entry.lastSeen = s.now()
	return entry.registry
}

// acquire returns the scope for id, creating it when missing. It returns nil
// after closeAll.
func (s *scopes) acquire(id string) *events.Registry {
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	entry, ok := s.entries[id]
	if !ok {
		entry = &scopeEntry{registry: s.newScope()}
		s.entries[id] = entry
	}
	entry.lastSeen = s.now()
	return entry.registry
}

// sweep closes scopes idle for longer than the idle TTL and returns how
// many were closed.
func (s *scopes) sweep() int {
	s.mu.Lock()
	cutoff := s.now().Add(-s.idleTTL)
	var idle []*events.Registry
	for id, entry := range s.entries {
		if entry.lastSeen.Before(cutoff) {
			idle = append(idle, entry.registry)
			delete(s.entries, id)
		}
	}
	s.mu.Unlock()

	for _, registry := range idle {
		registry.Close()
	}
	if len(idle) > 0 {
		s.logger.Debug("closed idle visitor scopes", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// run sweeps every interval until stop is closed.
func (s *scopes) run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

// closeAll closes every scope. Later acquire calls return nil.
func (s *scopes) closeAll() {
	s.mu.Lock()
	entries := s.entries
	s.entries = map[string]*scopeEntry{}
	s.closed = true
	s.mu.Unlock()

	for _, entry := range entries {
		entry.registry.Close()
	}
}

func (s *scopes) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
