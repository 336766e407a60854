package cache

import (
	"testing"
	"time"

	pkgcache "TradeRelay/pkg/cache"
)

func TestServiceCacheRoundTrip(t *testing.T) {
	c := NewServiceCache(pkgcache.NewMemoryCache())

	if b, ok, err := c.GetBytes("quotes"); err != nil || ok || b != nil {
		t.Fatalf("empty cache: b=%v ok=%v err=%v", b, ok, err)
	}

	payload := []byte(`[{"symbol":"SPY"}]`)
	if err := c.SetBytes("quotes", payload, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	b, ok, err := c.GetBytes("quotes")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if string(b) != string(payload) {
		t.Fatalf("got %s", b)
	}
}

func TestServiceCacheExpiry(t *testing.T) {
	c := NewServiceCache(pkgcache.NewMemoryCache())

	if err := c.SetBytes("quotes", []byte("x"), 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok, err := c.GetBytes("quotes"); err != nil || ok {
		t.Fatalf("expired entry: ok=%v err=%v", ok, err)
	}
}
