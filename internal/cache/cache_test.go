// Observa - Media Monitoring Portal
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/observa

package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestCache(ttl time.Duration) (*TTL[string], *clock) {
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	c := New[string](ttl)
	c.now = clk.now
	return c, clk
}

func TestCacheBasicOperations(t *testing.T) {
	c, _ := newTestCache(time.Minute)

	c.Set("key1", "value1")
	value, ok := c.Get("key1")
	if !ok || value != "value1" {
		t.Errorf("Get(key1) = %q, %v", value, ok)
	}
	if _, ok := c.Get("key2"); ok {
		t.Error("expected key2 to be missing")
	}

	c.Delete("key1")
	if _, ok := c.Get("key1"); ok {
		t.Error("expected key1 to be deleted")
	}

	s := c.Stats()
	if s.Hits != 1 || s.Misses != 2 || s.Evictions != 1 || s.TotalKeys != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestCacheExpiration(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("key1", "value1")

	clk.t = clk.t.Add(59 * time.Second)
	if _, ok := c.Get("key1"); !ok {
		t.Error("expected key1 before expiry")
	}

	clk.t = clk.t.Add(2 * time.Second)
	if _, ok := c.Get("key1"); ok {
		t.Error("expected key1 to be expired")
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestCachePurge(t *testing.T) {
	c, clk := newTestCache(time.Minute)
	c.Set("old", "a")
	clk.t = clk.t.Add(45 * time.Second)
	c.Set("new", "b")
	clk.t = clk.t.Add(30 * time.Second)

	if n := c.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if _, ok := c.Get("new"); !ok {
		t.Error("unexpired entry was purged")
	}
	if s := c.Stats(); s.TotalKeys != 1 || !s.LastCleanup.Equal(clk.t) {
		t.Errorf("stats = %+v", s)
	}
}

func TestCacheHitRate(t *testing.T) {
	c, _ := newTestCache(time.Minute)
	if c.HitRate() != 0 {
		t.Error("empty cache hit rate should be 0")
	}
	c.Set("k", "v")
	c.Get("k")
	c.Get("k")
	c.Get("k")
	c.Get("missing")
	if got := c.HitRate(); got != 75 {
		t.Errorf("HitRate() = %v, want 75", got)
	}
}

func TestCacheServeStopsOnCancel(t *testing.T) {
	c := New[int](time.Millisecond)
	c.cleanup = time.Millisecond
	c.Set("k", 1)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Serve(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for c.Stats().TotalKeys != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if c.Stats().TotalKeys != 0 {
		t.Error("cleanup loop did not purge expired entry")
	}

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestGenerateKey(t *testing.T) {
	a := GenerateKey("report", map[string]string{"from": "2026-03-01"})
	b := GenerateKey("report", map[string]string{"from": "2026-03-01"})
	c := GenerateKey("report", map[string]string{"from": "2026-03-02"})
	if a != b {
		t.Error("same params should give same key")
	}
	if a == c {
		t.Error("different params should give different keys")
	}
	if !strings.HasPrefix(a, "report:") {
		t.Errorf("key %q lacks method prefix", a)
	}
}
