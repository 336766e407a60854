package cache

import (
	"context"
	"errors"
	"time"

	pkgcache "TradeRelay/pkg/cache"
)

// ServiceCache adapts a cache service to the BytesCache API. Payloads are
// stored as strings so both the Redis and memory backends handle them.
type ServiceCache struct {
	svc pkgcache.Service
}

func NewServiceCache(svc pkgcache.Service) *ServiceCache {
	return &ServiceCache{svc: svc}
}

func (c *ServiceCache) GetBytes(key string) ([]byte, bool, error) {
	var out string
	err := c.svc.Get(context.Background(), key, &out)
	if err != nil {
		if errors.Is(err, pkgcache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return []byte(out), true, nil
}

func (c *ServiceCache) SetBytes(key string, value []byte, ttl time.Duration) error {
	return c.svc.Set(context.Background(), key, string(value), ttl)
}
