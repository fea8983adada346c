package layout

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/seedshift/internal/variation/seed"
)

func TestCatalogHasFixedSize(t *testing.T) {
	t.Parallel()

	entries := Catalog()
	if len(entries) != CatalogSize {
		t.Fatalf("len(Catalog()) = %d, want %d", len(entries), CatalogSize)
	}
	seen := make(map[string]bool)
	for i, v := range entries {
		if v.Index != i+1 {
			t.Fatalf("entry %d Index = %d, want %d", i, v.Index, i+1)
		}
		if seen[v.ID] {
			t.Fatalf("duplicate layout id %q", v.ID)
		}
		seen[v.ID] = true
		assertConsistent(t, v)
	}
}

func TestGetReturnsCatalogEntryForEverySeed(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	ids := make(map[string]bool)
	for _, v := range r.Catalog() {
		ids[v.ID] = true
	}
	for s := seed.Min; s <= seed.Max; s++ {
		first := r.Get(s, true)
		if !ids[first.ID] {
			t.Fatalf("Get(%d) id = %q, not in catalog", s, first.ID)
		}
		if diff := cmp.Diff(first, r.Get(s, true)); diff != "" {
			t.Fatalf("Get(%d) not idempotent (-first +second):\n%s", s, diff)
		}
		assertConsistent(t, first)
	}
}

func TestGetSeedThreeIsCanonical(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	if got := r.Get(3, true); got.Index != 1 {
		t.Fatalf("Get(3).Index = %d, want 1", got.Index)
	}
}

func TestGetSeedsOneAndThirtyOneMatch(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	a := r.Get(1, true)
	b := r.Get(31, true)
	if a.ID != b.ID {
		t.Fatalf("Get(1).ID = %q, Get(31).ID = %q, want equal", a.ID, b.ID)
	}
}

func TestGetDisabledReturnsCanonical(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	canonical := r.Catalog()[0]
	for _, s := range []int{1, 2, 17, 300, -4, 1000} {
		if diff := cmp.Diff(canonical, r.Get(s, false)); diff != "" {
			t.Fatalf("Get(%d, false) mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestGetOutOfRangeSeedsDoNotPanic(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	for _, s := range []int{0, -1, -301, 301, 1 << 30} {
		v := r.Get(s, true)
		if v.Index < 1 || v.Index > CatalogSize {
			t.Fatalf("Get(%d).Index = %d, out of range", s, v.Index)
		}
	}
}

func TestGetDoesNotShareRegionsWithRegistry(t *testing.T) {
	t.Parallel()

	r := DefaultRegistry()
	v := r.Get(10, true)
	v.Regions[0].Class = "mutated"
	if got := r.Get(10, true).Regions[0].Class; got == "mutated" {
		t.Fatal("mutating a returned variant leaked into the registry")
	}
}

func TestSpecializeRotatesAdjustableSidebar(t *testing.T) {
	t.Parallel()

	var adjustable Variant
	for _, v := range Catalog() {
		if v.Adjustable {
			adjustable = v
			break
		}
	}
	if !adjustable.Adjustable {
		t.Fatal("catalog has no adjustable entry")
	}
	for s := 0; s < len(Placements); s++ {
		got := Specialize(adjustable, s)
		if got.Sidebar() != Placements[s] {
			t.Fatalf("Specialize(seed=%d) sidebar = %q, want %q", s, got.Sidebar(), Placements[s])
		}
		assertConsistent(t, got)
	}
}

func TestSpecializeLeavesFixedPlacementUntouched(t *testing.T) {
	t.Parallel()

	canonical := Catalog()[0]
	if canonical.Adjustable {
		t.Fatal("canonical entry must be fixed-placement")
	}
	for s := 0; s < 10; s++ {
		if diff := cmp.Diff(canonical, Specialize(canonical, s)); diff != "" {
			t.Fatalf("Specialize(seed=%d) changed fixed entry:\n%s", s, diff)
		}
	}
}

func TestSpecializeDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	v := Catalog()[1]
	before := v.clone()
	_ = Specialize(v, 3)
	if diff := cmp.Diff(before, v); diff != "" {
		t.Fatalf("Specialize mutated input:\n%s", diff)
	}
}

func assertConsistent(t *testing.T, v Variant) {
	t.Helper()

	if len(v.Regions) != 5 {
		t.Fatalf("%s has %d regions, want 5", v.ID, len(v.Regions))
	}
	for i, region := range v.Regions {
		if region.Order != i {
			t.Fatalf("%s region %q order = %d, want %d", v.ID, region.Name, region.Order, i)
		}
	}
	sidebar, _ := v.Region(RegionSidebar)
	content, _ := v.Region(RegionContent)
	switch sidebar.Placement {
	case PlacementLeft:
		if sidebar.Order > content.Order || content.Offset != PlacementLeft || v.Direction != "row" {
			t.Fatalf("%s inconsistent left sidebar: %+v", v.ID, v)
		}
	case PlacementRight:
		if sidebar.Order < content.Order || content.Offset != PlacementRight || v.Direction != "row" {
			t.Fatalf("%s inconsistent right sidebar: %+v", v.ID, v)
		}
	case PlacementTop:
		if sidebar.Order > content.Order || content.Offset != PlacementTop || v.Direction != "column" {
			t.Fatalf("%s inconsistent top sidebar: %+v", v.ID, v)
		}
	case PlacementBottom:
		if sidebar.Order < content.Order || content.Offset != PlacementBottom || v.Direction != "column" {
			t.Fatalf("%s inconsistent bottom sidebar: %+v", v.ID, v)
		}
	case PlacementFloating:
		if sidebar.Position != PositionFixed || content.Offset != "" {
			t.Fatalf("%s inconsistent floating sidebar: %+v", v.ID, v)
		}
	default:
		t.Fatalf("%s unknown sidebar placement %q", v.ID, sidebar.Placement)
	}
	if want := "region-sidebar sidebar--" + string(sidebar.Placement); sidebar.Class != want {
		t.Fatalf("%s sidebar class = %q, want %q", v.ID, sidebar.Class, want)
	}
}
