package store

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ksi-core/internal/domain/repository"
)

// Through is the read-through path every source client uses: check
// the cache, otherwise fetch and write back. The fetch function runs
// at most once per warm key. A fetch error is returned untouched and
// nothing is written.
func Through[T any](ctx context.Context, cache repository.Cache, key string, ttl time.Duration, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	if raw, ok := cache.Get(ctx, key); ok {
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: fall through to a fresh fetch.
		log.Printf("[CACHE] discarding unreadable entry %s", key)
	}

	val, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(val); err == nil {
		cache.Set(ctx, key, raw, ttl)
	}
	return val, nil
}
