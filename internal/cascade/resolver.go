// Package cascade resolves data requests through an ordered list of provider
// strategies, caching whatever succeeds. Resolution is total: when every
// strategy fails the caller's fallback is returned, never an error.
package cascade

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"coinsift/internal/cache"
	"coinsift/internal/provider"
)

// Strategy is one step of a cascade: a named fetch attempt against a single
// provider for a value of type T.
type Strategy[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
}

// Resolver holds the pieces shared by every cascade: the cache, the retry
// policy, and the logger. It is safe for concurrent use.
type Resolver struct {
	store       cache.Store
	log         *logrus.Logger
	backoffBase time.Duration
	backoffCap  time.Duration
	maxAttempts int
}

func NewResolver(store cache.Store, log *logrus.Logger, backoffBase, backoffCap time.Duration, maxAttempts int) *Resolver {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Resolver{
		store:       store,
		log:         log,
		backoffBase: backoffBase,
		backoffCap:  backoffCap,
		maxAttempts: maxAttempts,
	}
}

// Cache exposes the underlying store for callers that manage their own keys,
// such as id resolution.
func (r *Resolver) Cache() cache.Store { return r.store }

// Resolve serves (category, requestKey) from cache when fresh, otherwise walks
// the strategies in order. Retryable failures re-attempt the same strategy
// with exponential backoff before moving on; terminal failures move on
// immediately. A successful value is cached under the category's TTL. When
// everything fails, fallback() is returned and nothing is cached so the next
// request tries the providers again.
func Resolve[T any](ctx context.Context, r *Resolver, category cache.Category, requestKey string, strategies []Strategy[T], fallback func() T) T {
	key := cache.Key(category, requestKey)

	if raw, ok := r.store.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached
		}
		r.log.WithField("key", key).Warn("discarding undecodable cache entry")
	}

	for _, strat := range strategies {
		value, err := fetchWithRetry(ctx, r, strat)
		if err != nil {
			fe := provider.AsFetchError(strat.Name, err)
			r.log.WithFields(logrus.Fields{
				"provider": fe.Provider,
				"kind":     fe.Kind,
				"key":      key,
			}).Warn("strategy exhausted, trying next")
			continue
		}

		if raw, err := json.Marshal(value); err == nil {
			r.store.Put(ctx, key, raw, category)
		}
		return value
	}

	r.log.WithField("key", key).Warn("all strategies failed, serving fallback")
	return fallback()
}

// fetchWithRetry runs one strategy under the resolver's backoff policy.
// Non-retryable kinds abort immediately via backoff.Permanent.
func fetchWithRetry[T any](ctx context.Context, r *Resolver, strat Strategy[T]) (T, error) {
	var out T

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = r.backoffBase
	policy.MaxInterval = r.backoffCap
	policy.Multiplier = 2
	policy.RandomizationFactor = 0
	policy.MaxElapsedTime = 0
	policy.Reset()

	op := func() error {
		value, err := strat.Fetch(ctx)
		if err == nil {
			out = value
			return nil
		}
		if fe := provider.AsFetchError(strat.Name, err); !fe.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}

	wrapped := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	if err := backoff.Retry(op, wrapped); err != nil {
		return out, err
	}
	return out, nil
}
