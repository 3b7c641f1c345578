package provider

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

const rateWindowLength = time.Minute

// rateWindow is the per-provider dispatch state: last dispatch time plus the
// count inside the current rolling window.
type rateWindow struct {
	lastDispatch time.Time
	windowStart  time.Time
	count        int
}

// RateLimiter enforces a minimum spacing (plus bounded random jitter) between
// dispatches to the same provider and a per-minute quota per provider. One
// limiter is shared by every adapter; all state is mutex-protected.
type RateLimiter struct {
	mu          sync.Mutex
	minInterval time.Duration
	jitterMax   time.Duration
	maxPerMin   int
	windows     map[string]*rateWindow

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	rng   *rand.Rand
}

func NewRateLimiter(minInterval, jitterMax time.Duration, maxPerMinute int) *RateLimiter {
	if maxPerMinute <= 0 {
		maxPerMinute = 1
	}
	return &RateLimiter{
		minInterval: minInterval,
		jitterMax:   jitterMax,
		maxPerMin:   maxPerMinute,
		windows:     make(map[string]*rateWindow),
		now:         time.Now,
		sleep:       sleepCtx,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Acquire blocks until one more dispatch to providerID is safe, then records
// it. It returns early only when ctx is cancelled; in that case nothing is
// recorded and shared state stays consistent.
func (r *RateLimiter) Acquire(ctx context.Context, providerID string) error {
	// One jitter draw per acquire, so the required spacing stays stable across
	// wakeups instead of chasing a fresh random target after every sleep.
	required := time.Duration(-1)

	for {
		r.mu.Lock()
		w, ok := r.windows[providerID]
		if !ok {
			w = &rateWindow{windowStart: r.now()}
			r.windows[providerID] = w
		}
		if required < 0 {
			required = r.minInterval + r.jitter()
		}

		now := r.now()

		// The window resets exactly once per elapsed 60s boundary.
		if now.Sub(w.windowStart) >= rateWindowLength {
			w.count = 0
			w.windowStart = now
		}

		if w.count >= r.maxPerMin {
			wait := rateWindowLength - now.Sub(w.windowStart)
			r.mu.Unlock()
			if err := r.sleep(ctx, wait); err != nil {
				return err
			}
			continue
		}

		if !w.lastDispatch.IsZero() {
			elapsed := now.Sub(w.lastDispatch)
			if elapsed < required {
				wait := required - elapsed
				r.mu.Unlock()
				if err := r.sleep(ctx, wait); err != nil {
					return err
				}
				continue
			}
		}

		w.lastDispatch = now
		w.count++
		r.mu.Unlock()
		return nil
	}
}

// jitter returns a random offset in [0, jitterMax). Caller holds the mutex.
func (r *RateLimiter) jitter() time.Duration {
	if r.jitterMax <= 0 {
		return 0
	}
	return time.Duration(r.rng.Int63n(int64(r.jitterMax)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
