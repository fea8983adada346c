package events

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var testOverrides = Overrides{
	"SEARCH":      {"searchButton": "btn-search--event", "searchInput": "input-search--event"},
	"ADD_TO_CART": {"cartButton": "btn-cart--event", "searchButton": "btn-search--cart"},
}

func newTestRegistry(clock *fakeClock) *Registry {
	return New(Config{TTL: 5 * time.Second, Now: clock.Now, Overrides: testOverrides})
}

func TestRegisterActivatesUntilTTL(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := newTestRegistry(clock)
	t.Cleanup(r.Close)

	if r.IsActive("SEARCH") {
		t.Fatal("IsActive before Register = true")
	}
	r.Register("SEARCH")
	if !r.IsActive("SEARCH") {
		t.Fatal("IsActive after Register = false")
	}
	clock.Advance(4999 * time.Millisecond)
	if !r.IsActive("SEARCH") {
		t.Fatal("IsActive just before expiry = false")
	}
	clock.Advance(time.Millisecond)
	if r.IsActive("SEARCH") {
		t.Fatal("IsActive at expiry = true, want false")
	}
}

func TestRegisterRefreshesExpiry(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := newTestRegistry(clock)
	t.Cleanup(r.Close)

	r.Register("SEARCH")
	clock.Advance(3 * time.Second)
	r.Register("SEARCH")
	clock.Advance(3 * time.Second)
	if !r.IsActive("SEARCH") {
		t.Fatal("refreshed event expired early")
	}
	if diff := cmp.Diff([]string{"SEARCH"}, r.Active()); diff != "" {
		t.Fatalf("Active() mismatch, re-register must not duplicate:\n%s", diff)
	}
	clock.Advance(2 * time.Second)
	if r.IsActive("SEARCH") {
		t.Fatal("refreshed event still active after TTL")
	}
}

func TestResolvePrefersExplicitType(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := newTestRegistry(clock)
	t.Cleanup(r.Close)

	r.Register("SEARCH")
	r.Register("ADD_TO_CART")
	got, ok := r.Resolve("ADD_TO_CART", "searchButton")
	if !ok || got != "btn-search--cart" {
		t.Fatalf("Resolve(explicit) = (%q, %t), want btn-search--cart", got, ok)
	}
	got, ok = r.Resolve("", "searchButton")
	if !ok || got != "btn-search--event" {
		t.Fatalf("Resolve(scan) = (%q, %t), want first registered mapping", got, ok)
	}
	got, ok = r.Resolve("SEARCH", "cartButton")
	if !ok || got != "btn-cart--event" {
		t.Fatalf("Resolve(explicit without mapping) = (%q, %t), want scan result", got, ok)
	}
}

func TestResolveIgnoresInactiveAndUnmapped(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := newTestRegistry(clock)
	t.Cleanup(r.Close)

	if _, ok := r.Resolve("SEARCH", "searchButton"); ok {
		t.Fatal("Resolve for unregistered explicit type ok = true")
	}
	r.Register("UNKNOWN")
	if _, ok := r.Resolve("", "searchButton"); ok {
		t.Fatal("Resolve with no mapping ok = true")
	}
	r.Register("SEARCH")
	clock.Advance(6 * time.Second)
	if _, ok := r.Resolve("", "searchButton"); ok {
		t.Fatal("Resolve after expiry ok = true")
	}
}

func TestCloseCancelsTimersAndIgnoresLaterRegistrations(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(Config{TTL: time.Hour, Overrides: testOverrides})
	r.Register("SEARCH")
	r.Register("ADD_TO_CART")
	r.Close()
	if r.IsActive("SEARCH") {
		t.Fatal("IsActive after Close = true")
	}
	r.Register("SEARCH")
	if r.IsActive("SEARCH") {
		t.Fatal("Register after Close took effect")
	}
	r.Close()
}

func TestTimerPrunesExpiredEntry(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := New(Config{TTL: 10 * time.Millisecond})
	t.Cleanup(r.Close)
	r.Register("SEARCH")
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		r.mu.Lock()
		n := len(r.entries)
		r.mu.Unlock()
		if n == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("expiry timer did not remove the entry")
}

func TestExpireIgnoresStaleGeneration(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	r := newTestRegistry(clock)
	t.Cleanup(r.Close)

	r.Register("SEARCH")
	r.mu.Lock()
	staleGen := r.entries[0].gen
	r.mu.Unlock()

	clock.Advance(4 * time.Second)
	r.Register("SEARCH")
	clock.Advance(2 * time.Second)
	r.expire("SEARCH", staleGen)
	if !r.IsActive("SEARCH") {
		t.Fatal("stale timer removed a refreshed registration")
	}
	r.expire("MISSING", 1)
}

func TestNilRegistryIsEmptyScope(t *testing.T) {
	t.Parallel()

	var r *Registry
	r.Register("SEARCH")
	if r.IsActive("SEARCH") {
		t.Fatal("nil IsActive = true")
	}
	if _, ok := r.Resolve("SEARCH", "searchButton"); ok {
		t.Fatal("nil Resolve ok = true")
	}
	if got := r.Active(); len(got) != 0 {
		t.Fatalf("nil Active = %v", got)
	}
	if r.TTL() != DefaultTTL {
		t.Fatalf("nil TTL = %v, want %v", r.TTL(), DefaultTTL)
	}
	r.Close()
}

func TestRegisterIgnoresBlankType(t *testing.T) {
	t.Parallel()

	r := New(Config{})
	t.Cleanup(r.Close)
	r.Register("   ")
	if got := r.Active(); len(got) != 0 {
		t.Fatalf("Active() = %v, want empty", got)
	}
	if r.TTL() != DefaultTTL {
		t.Fatalf("TTL() = %v, want default", r.TTL())
	}
}

func TestRegisterLogsAtDebug(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	r := New(Config{Logger: zap.New(core)})
	t.Cleanup(r.Close)

	r.Register("SEARCH")
	r.Register("SEARCH")
	entries := logs.FilterMessage("event registered").All()
	if len(entries) != 2 {
		t.Fatalf("logged %d registrations, want 2", len(entries))
	}
	if got := entries[1].ContextMap()["refreshed"]; got != true {
		t.Fatalf("second registration refreshed = %v, want true", got)
	}
}

func TestConcurrentRegisterAndResolve(t *testing.T) {
	t.Parallel()

	r := New(Config{Overrides: testOverrides})
	t.Cleanup(r.Close)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if (i+j)%2 == 0 {
					r.Register("SEARCH")
				} else {
					_, _ = r.Resolve("", "searchButton")
				}
			}
		}(i)
	}
	wg.Wait()
	if !r.IsActive("SEARCH") {
		t.Fatal("SEARCH not active after concurrent registrations")
	}
}
