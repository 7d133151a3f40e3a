package engine

import (
	"context"
	"fmt"
	"testing"
	"time"
)

type cachedTranscript struct {
	VideoID string `json:"video_id"`
	Text    string `json:"text"`
}

func TestCacheKey(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		k1 := CacheKey("transcript", "dQw4w9WgXcQ", "en")
		k2 := CacheKey("transcript", "dQw4w9WgXcQ", "en")
		if k1 != k2 {
			t.Errorf("CacheKey not deterministic: %q != %q", k1, k2)
		}
	})

	t.Run("different inputs differ", func(t *testing.T) {
		k1 := CacheKey("transcript", "abc", "en")
		k2 := CacheKey("transcript", "abc", "de")
		if k1 == k2 {
			t.Errorf("different inputs produced same key: %q", k1)
		}
	})

	t.Run("has prefix", func(t *testing.T) {
		k := CacheKey("test")
		if k[:3] != "st:" {
			t.Errorf("expected st: prefix, got %q", k[:3])
		}
	})
}

func TestCacheGetSet(t *testing.T) {
	// Init minimal cache (no Redis)
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	defer InitCache("", 0, 0, 0)

	ctx := context.Background()
	key := CacheKey("test", "round-trip")

	// Miss
	if _, ok := CacheLoadJSON[cachedTranscript](ctx, key); ok {
		t.Error("expected cache miss on empty cache")
	}

	CacheStoreJSON(ctx, key, cachedTranscript{VideoID: "abc", Text: "hello"})

	got, ok := CacheLoadJSON[cachedTranscript](ctx, key)
	if !ok {
		t.Fatal("expected cache hit after set")
	}
	if got.Text != "hello" {
		t.Errorf("got text %q, want %q", got.Text, "hello")
	}
}

func TestCacheDisabled(t *testing.T) {
	InitCache("", 0, 100, time.Minute)

	ctx := context.Background()
	key := CacheKey("test", "disabled")
	CacheStoreJSON(ctx, key, cachedTranscript{Text: "x"})
	if _, ok := CacheLoadJSON[cachedTranscript](ctx, key); ok {
		t.Error("disabled cache returned a hit")
	}
}

func TestCacheExpiration(t *testing.T) {
	// Init with very short TTL
	InitCache("", 1*time.Millisecond, 100, 5*time.Minute)
	defer InitCache("", 0, 0, 0)

	ctx := context.Background()
	key := CacheKey("test", "expiry")

	CacheSetBytes(ctx, key, []byte(`"temp"`))
	time.Sleep(5 * time.Millisecond)

	if _, ok := CacheGetBytes(ctx, key); ok {
		t.Error("expected cache miss after TTL expiry")
	}
}

func TestCacheEviction(t *testing.T) {
	// maxEntries=3
	InitCache("", 1*time.Minute, 3, 5*time.Minute)
	defer InitCache("", 0, 0, 0)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		key := CacheKey("evict", fmt.Sprintf("item-%d", i))
		CacheSetBytes(ctx, key, []byte(fmt.Sprintf(`"v%d"`, i)))
	}

	// Count L1 entries
	count := 0
	studyCache.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count > 3 {
		t.Errorf("expected at most 3 entries after eviction, got %d", count)
	}
}

func TestCacheStats(t *testing.T) {
	InitCache("", 1*time.Minute, 100, 5*time.Minute)
	defer InitCache("", 0, 0, 0)
	// Reset counters
	cacheHits.Store(0)
	cacheMisses.Store(0)

	ctx := context.Background()
	key := CacheKey("stats", "test")

	// Miss
	CacheGetBytes(ctx, key)
	_, misses := CacheStats()
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}

	// Set and hit
	CacheSetBytes(ctx, key, []byte(`"x"`))
	CacheGetBytes(ctx, key)

	hits, misses := CacheStats()
	if hits != 1 {
		t.Errorf("hits = %d, want 1", hits)
	}
	if misses != 1 {
		t.Errorf("misses = %d, want 1", misses)
	}
}
