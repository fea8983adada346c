package seed

import "testing"

func TestMapToIndexBounded(t *testing.T) {
	t.Parallel()

	for s := -50; s <= 400; s++ {
		got := MapToIndex(s, 10, DefaultBucket)
		if got < 1 || got > 10 {
			t.Fatalf("MapToIndex(%d, 10, 30) = %d, want [1, 10]", s, got)
		}
	}
}

func TestMapToIndexFormula(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seed int
		want int
	}{
		{seed: 1, want: 2},
		{seed: 8, want: 9},
		{seed: 9, want: 10},
		{seed: 10, want: 1},
		{seed: 29, want: 10},
		{seed: 30, want: 1},
		{seed: 31, want: 2},
	}
	for _, tt := range tests {
		if got := MapToIndex(tt.seed, 10, 30); got != tt.want {
			t.Fatalf("MapToIndex(%d, 10, 30) = %d, want %d", tt.seed, got, tt.want)
		}
	}
}

func TestMapToIndexBucketPeriod(t *testing.T) {
	t.Parallel()

	for s := Min; s <= Max-DefaultBucket; s++ {
		a := MapToIndex(s, 10, DefaultBucket)
		b := MapToIndex(s+DefaultBucket, 10, DefaultBucket)
		if a != b {
			t.Fatalf("MapToIndex(%d) = %d, MapToIndex(%d) = %d, want equal", s, a, s+DefaultBucket, b)
		}
	}
}

func TestMapToIndexDegenerateInputs(t *testing.T) {
	t.Parallel()

	if got := MapToIndex(5, 0, 30); got != 1 {
		t.Fatalf("MapToIndex(catalog=0) = %d, want 1", got)
	}
	if got := MapToIndex(5, -3, 30); got != 1 {
		t.Fatalf("MapToIndex(catalog<0) = %d, want 1", got)
	}
	if got, want := MapToIndex(5, 10, 0), MapToIndex(5, 10, DefaultBucket); got != want {
		t.Fatalf("MapToIndex(bucket=0) = %d, want %d", got, want)
	}
}

func TestMappingOverridesApplyBeforeFormula(t *testing.T) {
	t.Parallel()

	m := Mapping{Bucket: 30, Overrides: map[int]int{3: 1, 4: 99, 5: -2}}
	if got := m.Index(3, 10); got != 1 {
		t.Fatalf("Index(3) = %d, want 1", got)
	}
	if got := m.Index(4, 10); got != 10 {
		t.Fatalf("Index(4) = %d, want clamped 10", got)
	}
	if got := m.Index(5, 10); got != 1 {
		t.Fatalf("Index(5) = %d, want clamped 1", got)
	}
	if got, want := m.Index(6, 10), MapToIndex(6, 10, 30); got != want {
		t.Fatalf("Index(6) = %d, want formula %d", got, want)
	}
}
