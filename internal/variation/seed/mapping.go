package seed

// DefaultBucket is the seed period used by MapToIndex.
const DefaultBucket = 30

// MapToIndex maps seed onto a 1-based catalog position in [1, catalogSize]
// using ((seed % bucket) + 1) % catalogSize, where a zero result selects the
// last entry. Non-positive buckets use DefaultBucket and non-positive catalog
// sizes are treated as a single-entry catalog.
func MapToIndex(seed, catalogSize, bucket int) int {
	if catalogSize <= 0 {
		return 1
	}
	if bucket <= 0 {
		bucket = DefaultBucket
	}
	index := (mod(seed, bucket) + 1) % catalogSize
	if index == 0 {
		return catalogSize
	}
	return index
}

// Mapping is a seed-to-position mapping with explicit per-seed overrides.
//
// Overrides are consulted before the bucket formula.
type Mapping struct {
	Bucket    int
	Overrides map[int]int
}

// Index returns the 1-based catalog position for seed.
func (m Mapping) Index(seed, catalogSize int) int {
	if position, ok := m.Overrides[seed]; ok {
		return clamp(position, 1, max(catalogSize, 1))
	}
	return MapToIndex(seed, catalogSize, m.Bucket)
}

func mod(value, n int) int {
	r := value % n
	if r < 0 {
		r += n
	}
	return r
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
