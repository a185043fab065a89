package cache

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"
	"testing"
	"time"
)

func TestMemoryCache_SetAndGet(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "missing"); ok {
		t.Fatalf("expected miss for unknown key")
	}
	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := c.Get(ctx, "k")
	if !ok || got != "v" {
		t.Fatalf("Get = %q, %v; want v, true", got, ok)
	}
}

func TestMemoryCache_Expires(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	now = now.Add(59 * time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before TTL")
	}

	now = now.Add(time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Fatalf("expected miss once TTL elapsed")
	}
}

func TestMemoryCache_SetSweepsExpiredEntries(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	ctx := context.Background()

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	for i := 0; i < 5000; i++ {
		if err := c.Set(ctx, fmt.Sprintf("body-%d", i), "v"); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	if len(c.data) != 5000 {
		t.Fatalf("expected 5000 live entries, got %d", len(c.data))
	}

	now = now.Add(30 * time.Second)
	if err := c.Set(ctx, "fresh-1", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(c.data) != 5001 {
		t.Fatalf("nothing has expired yet, got %d entries", len(c.data))
	}

	now = now.Add(time.Hour)
	if err := c.Set(ctx, "fresh-2", "v"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(c.data) != 1 {
		t.Fatalf("expected expired entries to be swept, got %d entries", len(c.data))
	}
	if _, ok := c.Get(ctx, "fresh-2"); !ok {
		t.Fatalf("expected the newest entry to survive the sweep")
	}
}

func TestMemoryCache_BoundsEntries(t *testing.T) {
	c := NewMemoryCache(0)
	c.maxEntries = 3
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := c.Set(ctx, fmt.Sprintf("body-%d", i), "v"); err != nil {
			t.Fatalf("Set: %v", err)
		}
		if len(c.data) > 3 {
			t.Fatalf("cache grew past its bound: %d entries", len(c.data))
		}
	}
	if _, ok := c.Get(ctx, "body-9"); !ok {
		t.Fatalf("expected the latest entry to be stored")
	}

	if err := c.Set(ctx, "body-9", "v2"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(c.data) != 3 {
		t.Fatalf("overwriting a key must not evict, got %d entries", len(c.data))
	}
}

func TestRedisCache_GetLogsFailures(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })

	c := NewRedisCache("127.0.0.1:1", time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, ok := c.Get(ctx, "abc"); ok {
		t.Fatalf("expected a miss when redis is unreachable")
	}
	if !strings.Contains(buf.String(), "cache get abc") {
		t.Fatalf("expected the redis failure to be logged, got %q", buf.String())
	}
}

func TestRedisCache_SatisfiesCache(t *testing.T) {
	var _ Cache = NewRedisCache("localhost:0", time.Minute)
	var _ Cache = NewMemoryCache(time.Minute)
}
