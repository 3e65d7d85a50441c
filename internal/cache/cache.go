// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache provides a small TTL memoization map shared by the network
// adapters. Entries expire after a fixed window and are evicted lazily on the
// next lookup; there is no background sweeper. Concurrent writes to the same
// key replace the whole entry, so a race costs at worst a redundant external
// call, never corrupted data.
package cache

import (
	"sync"
	"time"
)

// DefaultTTL is the expiry window used by New.
const DefaultTTL = time.Hour

type entry[V any] struct {
	at    time.Time
	value V
}

// TTL is a process-wide cache of values with a fixed time-to-live.
type TTL[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry[V]
}

// New returns a cache with the given TTL. A non-positive ttl falls back to
// DefaultTTL.
func New[V any](ttl time.Duration) *TTL[V] {
	return NewWithClock[V](ttl, time.Now)
}

// NewWithClock returns a cache that reads time from now. Tests inject a fake
// clock to exercise expiry deterministically.
func NewWithClock[V any](ttl time.Duration, now func() time.Time) *TTL[V] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TTL[V]{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the cached value for key. An entry past its TTL is deleted and
// reported as a miss.
func (c *TTL[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.at) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, replacing any previous entry.
func (c *TTL[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{at: c.now(), value: value}
}

// Len reports the number of entries currently held, including any that have
// expired but not yet been looked up.
func (c *TTL[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
