package storage

import (
	"context"
	"time"

	"github.com/louisbranch/seedshift/internal/variation/attr"
)

// VariantOverride replaces the candidate list of one element attribute.
type VariantOverride struct {
	Kind       attr.Kind
	Key        string
	Candidates []string
	UpdatedAt  time.Time
}

// Store persists variant overrides.
type Store interface {
	Close() error
	Ping(ctx context.Context) error
	PutVariants(ctx context.Context, override VariantOverride) error
	DeleteVariants(ctx context.Context, kind attr.Kind, key string) error
	ListVariants(ctx context.Context) ([]VariantOverride, error)
}
