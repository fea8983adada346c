package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	webstorage "github.com/louisbranch/seedshift/internal/services/web/storage"
	"github.com/louisbranch/seedshift/internal/variation/attr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func openTestStore(t *testing.T, logger *zap.Logger) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seedshift.db")
	store, err := Open(path, logger)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  ", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestOpenRunsMigrations(t *testing.T) {
	_, path := openTestStore(t, nil)

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer func() {
		_ = sqlDB.Close()
	}()

	var name string
	err = sqlDB.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = 'variant_overrides'").Scan(&name)
	if err != nil {
		t.Fatalf("variant_overrides table missing: %v", err)
	}
}

func TestVariantsRoundTrip(t *testing.T) {
	store, _ := openTestStore(t, nil)
	ctx := context.Background()
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := store.PutVariants(ctx, webstorage.VariantOverride{
		Kind: attr.KindClass, Key: "searchButton", Candidates: []string{"btn-x", "btn-y"}, UpdatedAt: first,
	}); err != nil {
		t.Fatalf("put class: %v", err)
	}
	if err := store.PutVariants(ctx, webstorage.VariantOverride{
		Kind: attr.KindText, Key: "heroTitle", Candidates: []string{"Hello"}, UpdatedAt: first.Add(time.Minute),
	}); err != nil {
		t.Fatalf("put text: %v", err)
	}
	if err := store.PutVariants(ctx, webstorage.VariantOverride{
		Kind: attr.KindClass, Key: "searchButton", Candidates: []string{"btn-z"}, UpdatedAt: first.Add(2 * time.Minute),
	}); err != nil {
		t.Fatalf("replace class: %v", err)
	}

	got, err := store.ListVariants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	want := []webstorage.VariantOverride{
		{Kind: attr.KindText, Key: "heroTitle", Candidates: []string{"Hello"}, UpdatedAt: first.Add(time.Minute)},
		{Kind: attr.KindClass, Key: "searchButton", Candidates: []string{"btn-z"}, UpdatedAt: first.Add(2 * time.Minute)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("ListVariants mismatch (-want +got):\n%s", diff)
	}

	if err := store.DeleteVariants(ctx, attr.KindClass, "searchButton"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteVariants(ctx, attr.KindClass, "searchButton"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	got, err = store.ListVariants(ctx)
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	if len(got) != 1 || got[0].Key != "heroTitle" {
		t.Fatalf("ListVariants after delete = %+v", got)
	}
}

func TestPutVariantsValidates(t *testing.T) {
	store, _ := openTestStore(t, nil)
	ctx := context.Background()

	tests := []webstorage.VariantOverride{
		{Kind: attr.Kind("style"), Key: "a", Candidates: []string{"x"}},
		{Kind: attr.KindID, Key: " ", Candidates: []string{"x"}},
		{Kind: attr.KindID, Key: "a"},
		{Kind: attr.KindID, Key: "a", Candidates: []string{"x", ""}},
	}
	for _, tt := range tests {
		if err := store.PutVariants(ctx, tt); err == nil {
			t.Fatalf("PutVariants(%+v) error = nil", tt)
		}
	}
	if err := store.DeleteVariants(ctx, attr.Kind("style"), "a"); err == nil {
		t.Fatal("DeleteVariants(unknown kind) error = nil")
	}
}

func TestListVariantsSkipsCorruptRows(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	store, _ := openTestStore(t, zap.New(core))
	ctx := context.Background()

	if err := store.PutVariants(ctx, webstorage.VariantOverride{
		Kind: attr.KindID, Key: "good", Candidates: []string{"ok"},
	}); err != nil {
		t.Fatalf("put: %v", err)
	}
	for _, row := range [][]any{
		{"id", "broken", "{not json", int64(1)},
		{"id", "empty", "[]", int64(2)},
		{"style", "unknown", `["x"]`, int64(3)},
	} {
		if _, err := store.sqlDB.Exec(
			"INSERT INTO variant_overrides (kind, element_key, candidates_json, updated_at) VALUES (?, ?, ?, ?)",
			row...,
		); err != nil {
			t.Fatalf("insert corrupt row: %v", err)
		}
	}

	got, err := store.ListVariants(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Key != "good" {
		t.Fatalf("ListVariants = %+v, want only good row", got)
	}
	if n := logs.FilterMessage("skipping variant override").Len(); n != 3 {
		t.Fatalf("skip warnings = %d, want 3", n)
	}
}

func TestNilStoreRejectsCalls(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Fatalf("Close() on nil store = %v", err)
	}
	if err := store.Ping(context.Background()); err == nil {
		t.Fatal("Ping on nil store error = nil")
	}
	if _, err := store.ListVariants(context.Background()); err == nil {
		t.Fatal("ListVariants on nil store error = nil")
	}
}
