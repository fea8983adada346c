// Package order generates deterministic permutations for reordering sibling
// elements.
package order

import "github.com/cespare/xxhash/v2"

// LCG constants from Knuth's MMIX.
const (
	lcgMultiplier = 6364136223846793005
	lcgIncrement  = 1442695040888963407
	goldenRatio64 = 0x9e3779b97f4a7c15
)

type lcg struct {
	state uint64
}

func (g *lcg) next() uint64 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// intn returns a value in [0, n). The high bits are used since the low bits
// of a power-of-two LCG have short periods.
func (g *lcg) intn(n int) int {
	return int((g.next() >> 33) % uint64(n))
}

// Source derives the generator state for (label, seed).
func Source(label string, seed int) uint64 {
	return mix(xxhash.Sum64String(label) ^ mix(uint64(int64(seed))+goldenRatio64))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// Permutation returns a permutation of [0, n) determined by label and seed.
// n <= 0 yields an empty slice.
func Permutation(label string, n, seed int) []int {
	perm := Identity(n)
	g := lcg{state: Source(label, seed)}
	for i := len(perm) - 1; i > 0; i-- {
		j := g.intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}
	return perm
}

// Identity returns [0, 1, ..., n-1]. n <= 0 yields an empty slice.
func Identity(n int) []int {
	if n <= 0 {
		return []int{}
	}
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	return perm
}

// IsPermutation reports whether perm holds every index in [0, len(perm)) once.
func IsPermutation(perm []int) bool {
	seen := make([]bool, len(perm))
	for _, idx := range perm {
		if idx < 0 || idx >= len(perm) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Apply returns items reordered so that out[i] = items[perm[i]]. A perm that
// is not a permutation of the items' indexes leaves the order unchanged.
func Apply[T any](items []T, perm []int) []T {
	out := make([]T, len(items))
	if len(perm) != len(items) || !IsPermutation(perm) {
		copy(out, items)
		return out
	}
	for i, idx := range perm {
		out[i] = items[idx]
	}
	return out
}
