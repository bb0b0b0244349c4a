// Campanile - Campus Event Management Platform
// Copyright 2026 Campanile Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/campanile-app/campanile

package cache

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestSetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("key", "value")

	got, ok := c.Get("key")
	if !ok {
		t.Fatal("expected hit")
	}
	if got.(string) != "value" {
		t.Errorf("got %v, want value", got)
	}
}

func TestGetMissing(t *testing.T) {
	c := New(time.Minute)
	if _, ok := c.Get("absent"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestExpiration(t *testing.T) {
	c := New(time.Minute)
	c.SetWithTTL("short", 1, -time.Second) // already expired

	if _, ok := c.Get("short"); ok {
		t.Error("expired entry should miss")
	}

	stats := c.GetStats()
	if stats.Evictions == 0 {
		t.Error("expired access should record an eviction")
	}
}

func TestDelete(t *testing.T) {
	c := New(time.Minute)
	c.Set("key", 1)
	c.Delete("key")

	if _, ok := c.Get("key"); ok {
		t.Error("deleted entry should miss")
	}
}

func TestClear(t *testing.T) {
	c := New(time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Clear()

	if _, ok := c.Get("a"); ok {
		t.Error("cleared cache should miss")
	}
	if got := c.GetStats().TotalKeys; got != 0 {
		t.Errorf("TotalKeys = %d after clear, want 0", got)
	}
}

func TestHitRate(t *testing.T) {
	c := New(time.Minute)
	c.Set("key", 1)

	c.Get("key")    // hit
	c.Get("absent") // miss

	if got := c.HitRate(); got != 50.0 {
		t.Errorf("HitRate = %f, want 50.0", got)
	}
}

func TestGenerateKeyStable(t *testing.T) {
	type params struct {
		UserID string
		K      int
	}

	a := GenerateKey("recommend", params{UserID: "u1", K: 10})
	b := GenerateKey("recommend", params{UserID: "u1", K: 10})
	if a != b {
		t.Error("identical parameters should produce identical keys")
	}

	c := GenerateKey("recommend", params{UserID: "u2", K: 10})
	if a == c {
		t.Error("different parameters should produce different keys")
	}

	if !strings.HasPrefix(a, "recommend:") {
		t.Errorf("key %q should carry the method prefix", a)
	}
}

func TestConcurrentAccess(t *testing.T) {
	c := New(time.Minute)
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			c.Set(GenerateKey("k", n), n)
		}(i)
		go func(n int) {
			defer wg.Done()
			c.Get(GenerateKey("k", n))
		}(i)
	}

	wg.Wait()
}
