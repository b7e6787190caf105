// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cache

import (
	"log/slog"
	"sync"
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

type options struct {
	ttl        time.Duration
	sweepAbove int
	clock      clock.PassiveClock
}

// Option configures a Cache.
type Option func(*options)

// WithTTL sets how long an entry stays readable after it is written.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithSweepThreshold sets the entry count above which expired entries are
// removed before the next write.
func WithSweepThreshold(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.sweepAbove = n
		}
	}
}

// WithClock injects the time source. Tests pass a fake clock.
func WithClock(c clock.PassiveClock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// Cache is a TTL memoization map shared by every report builder in the
// process. Concurrent writers to the same key race with last-write-wins;
// values are pure functions of their key so either write is correct.
type Cache[V any] struct {
	mu         sync.RWMutex
	entries    map[string]entry[V]
	ttl        time.Duration
	sweepAbove int
	clock      clock.PassiveClock
}

// New creates an empty cache. Defaults: one hour TTL, sweep above 100 entries,
// real clock.
func New[V any](opts ...Option) *Cache[V] {
	o := &options{
		ttl:        defaults.MetricCacheTTL,
		sweepAbove: defaults.MetricCacheSweepThreshold,
		clock:      clock.RealClock{},
	}
	for _, opt := range opts {
		opt(o)
	}

	return &Cache[V]{
		entries:    make(map[string]entry[V]),
		ttl:        o.ttl,
		sweepAbove: o.sweepAbove,
		clock:      o.clock,
	}
}

// Get returns the value stored under key if it is younger than the TTL.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.expired(e) {
		cacheMisses.Inc()
		var zero V
		return zero, false
	}

	cacheHits.Inc()
	return e.value, true
}

// Set stores value under key with the current time, replacing any prior entry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) > c.sweepAbove {
		c.sweepLocked()
	}
	c.entries[key] = entry[V]{value: value, storedAt: c.clock.Now()}
	cacheEntries.Set(float64(len(c.entries)))
}

// Clear drops every entry so the next lookups go to the backend.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	n := len(c.entries)
	c.entries = make(map[string]entry[V])
	c.mu.Unlock()

	cacheEntries.Set(0)
	slog.Debug("metric cache cleared", "entries", n)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache[V]) expired(e entry[V]) bool {
	return c.clock.Since(e.storedAt) >= c.ttl
}

func (c *Cache[V]) sweepLocked() {
	removed := 0
	for k, e := range c.entries {
		if c.expired(e) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		cacheEvictions.Add(float64(removed))
		slog.Debug("swept expired cache entries", "removed", removed, "remaining", len(c.entries))
	}
}
