package dedup

import (
	"context"
	"time"

	pkgcache "TradeRelay/pkg/cache"
)

// Deduper suppresses repeated deliveries of the same alert id.
type Deduper interface {
	// Seen marks id and reports whether it was already marked within the TTL.
	Seen(ctx context.Context, id string) (bool, error)
	// Release drops the mark so a later delivery of id is accepted again.
	// Used when the alert was turned away before an order could be placed.
	Release(ctx context.Context, id string) error
}

// LockDeduper claims a per-alert lock in the cache service. TryLock is
// atomic for every Service implementation (SetNX on Redis, mutex-guarded
// in memory), so concurrent deliveries of the same id resolve to exactly
// one acceptance.
type LockDeduper struct {
	cache pkgcache.Service
	ttl   time.Duration
}

func New(cache pkgcache.Service, ttl time.Duration) *LockDeduper {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &LockDeduper{cache: cache, ttl: ttl}
}

func (d *LockDeduper) Seen(ctx context.Context, id string) (bool, error) {
	ok, err := d.cache.TryLock(ctx, "dedup:alert:"+id, d.ttl)
	if err != nil {
		return false, err
	}
	return !ok, nil
}

func (d *LockDeduper) Release(ctx context.Context, id string) error {
	return d.cache.Unlock(ctx, "dedup:alert:"+id)
}
