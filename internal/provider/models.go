// Package provider holds the model-catalog cache shared by the client.
// The chat-completion transport itself lives outside this repository; the
// catalog only needs a fetch function and a clock, both injected.
package provider

import (
	"sync"
	"time"
)

// ModelInfo describes one model advertised by a provider API.
type ModelInfo struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	CreatedAt   string `json:"created_at"`
}

// FetchFunc retrieves the model list for a provider key.
type FetchFunc func(key string) ([]ModelInfo, error)

// Catalog caches a fetched model list per provider key with a wall-clock
// TTL. The cached value is explicit state ({data, fetchedAt, key}) and the
// clock is injected, so expiry is testable without real delays.
type Catalog struct {
	fetch FetchFunc
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	key       string
	data      []ModelInfo
	fetchedAt time.Time
}

// NewCatalog builds a catalog over fetch with the given TTL. A nil clock
// defaults to time.Now.
func NewCatalog(fetch FetchFunc, ttl time.Duration, now func() time.Time) *Catalog {
	if now == nil {
		now = time.Now
	}
	return &Catalog{fetch: fetch, ttl: ttl, now: now}
}

// Models returns the model list for key, refetching when the cache is for a
// different key or older than the TTL. A failed refetch falls back to stale
// cached data when any exists.
func (c *Catalog) Models(key string) ([]ModelInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.key == key && len(c.data) > 0 && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.data, nil
	}

	data, err := c.fetch(key)
	if err != nil {
		if c.key == key && len(c.data) > 0 {
			return c.data, nil
		}
		return nil, err
	}
	c.key = key
	c.data = data
	c.fetchedAt = c.now()
	return c.data, nil
}

// Invalidate drops the cached list.
func (c *Catalog) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.key = ""
	c.data = nil
	c.fetchedAt = time.Time{}
}
