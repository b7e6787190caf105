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

// Package cache memoizes metric lookups for a bounded time.
//
// A Cache is constructed once per process and handed to every report
// builder. Entries are readable until TTL has elapsed since they were
// written; after that Get treats them as absent. There is no eviction
// goroutine: once the map grows past the sweep threshold, the next Set
// removes every expired entry first.
//
// Caching is only an optimization. A builder with caching disabled must
// produce the same output, it just queries the backend every time.
//
//	c := cache.New[float64](cache.WithClock(fakeClock))
//	key := cache.Key("mem_", cluster.Identity(), start, end)
//	if v, ok := c.Get(key); ok { ... }
package cache
