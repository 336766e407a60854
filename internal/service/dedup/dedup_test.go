package dedup

import (
	"context"
	"sync"
	"testing"
	"time"

	pkgcache "TradeRelay/pkg/cache"
)

func newMemoryDeduper(ttl time.Duration) *LockDeduper {
	return New(pkgcache.NewMemoryCache(), ttl)
}

func TestDeduperSeen(t *testing.T) {
	d := newMemoryDeduper(time.Minute)
	ctx := context.Background()

	seen, err := d.Seen(ctx, "alert-1")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if seen {
		t.Fatalf("first delivery must not be seen")
	}

	seen, err = d.Seen(ctx, "alert-1")
	if err != nil {
		t.Fatalf("seen: %v", err)
	}
	if !seen {
		t.Fatalf("second delivery must be seen")
	}

	if seen, _ := d.Seen(ctx, "alert-2"); seen {
		t.Fatalf("different id must not be seen")
	}
}

func TestDeduperRelease(t *testing.T) {
	d := newMemoryDeduper(time.Minute)
	ctx := context.Background()

	if seen, _ := d.Seen(ctx, "alert-1"); seen {
		t.Fatalf("unexpected hit")
	}
	if err := d.Release(ctx, "alert-1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if seen, _ := d.Seen(ctx, "alert-1"); seen {
		t.Fatalf("released id must be accepted again")
	}
}

func TestDeduperExpiry(t *testing.T) {
	d := newMemoryDeduper(20 * time.Millisecond)
	ctx := context.Background()

	if seen, _ := d.Seen(ctx, "alert-1"); seen {
		t.Fatalf("unexpected hit")
	}
	time.Sleep(50 * time.Millisecond)
	if seen, _ := d.Seen(ctx, "alert-1"); seen {
		t.Fatalf("entry should have expired")
	}
}

func TestDeduperConcurrentDeliveries(t *testing.T) {
	d := newMemoryDeduper(time.Minute)
	ctx := context.Background()

	const n = 32
	var wg sync.WaitGroup
	accepted := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen, err := d.Seen(ctx, "alert-1")
			if err != nil {
				t.Errorf("seen: %v", err)
				return
			}
			if !seen {
				accepted <- struct{}{}
			}
		}()
	}
	wg.Wait()
	if len(accepted) != 1 {
		t.Fatalf("expected exactly one acceptance, got %d", len(accepted))
	}
}
