package cache

import (
	"context"
	"time"
)

// Category selects the TTL class for a stored entry. TTLs are looked up from
// a table built once at startup, not passed ad hoc by callers.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategorySentiment Category = "sentiment"
	CategorySocial    Category = "social"
	CategoryResolve   Category = "resolve"
)

// TTLTable maps data categories to validity windows.
type TTLTable map[Category]time.Duration

// DefaultTTLTable mirrors the documented per-category windows.
func DefaultTTLTable() TTLTable {
	return TTLTable{
		CategoryAsset:     5 * time.Minute,
		CategorySentiment: 60 * time.Minute,
		CategorySocial:    30 * time.Minute,
		CategoryResolve:   24 * time.Hour,
	}
}

// TTL returns the window for a category, falling back to the asset window for
// unknown categories so nothing is ever cached forever.
func (t TTLTable) TTL(c Category) time.Duration {
	if d, ok := t[c]; ok && d > 0 {
		return d
	}
	return 5 * time.Minute
}

// Store is the shared cache consumed by the cascade resolver. Values are
// opaque payload bytes; an expired entry is a miss regardless of whether it is
// still physically present.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Put(ctx context.Context, key string, value []byte, category Category)
}

// Key builds the request signature for a (category, request) pair.
func Key(category Category, request string) string {
	return string(category) + ":" + request
}
