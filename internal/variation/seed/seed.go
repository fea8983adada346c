// Package seed resolves the per-page variation seed and maps it onto
// bounded catalog positions.
package seed

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// QueryParam is the URL parameter carrying the raw seed.
const QueryParam = "seed"

const (
	// Min is the smallest accepted seed.
	Min = 1
	// Max is the largest accepted seed.
	Max = 300
	// Default is used when variation is disabled or the raw seed is unusable.
	Default = 1
)

// Resolve derives the effective seed for one page load.
//
// A disabled gate always yields Default. Missing, malformed or out-of-range
// values also yield Default; valid values are returned unchanged.
func Resolve(raw string, enabled bool) int {
	if !enabled {
		return Default
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Default
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return Default
	}
	if !Valid(value) {
		return Default
	}
	return value
}

// Valid reports whether value lies in [Min, Max].
func Valid(value int) bool {
	return value >= Min && value <= Max
}

// Random draws a seed in [Min, Max] from crypto/rand.
func Random() (int, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	span := uint64(Max - Min + 1)
	return Min + int(binary.LittleEndian.Uint64(b[:])%span), nil
}
