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

package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"k8s.io/utils/clock"

	"github.com/NVIDIA/gpu-usage-insights/pkg/cache"
	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
	"github.com/NVIDIA/gpu-usage-insights/pkg/metrics"
	"github.com/NVIDIA/gpu-usage-insights/pkg/resources"
)

// Cache key prefixes per metric family. Utilization has none.
const (
	memoryKeyPrefix = "mem_"
	powerKeyPrefix  = "power_"
)

// Builder turns source records into month-scoped report records.
type Builder struct {
	fetcher     metrics.Fetcher
	cache       *cache.Cache[float64]
	clock       clock.PassiveClock
	concurrency int
	rates       RateTable
}

// Option is a functional option for configuring the Builder.
type Option func(*Builder)

// WithFetcher sets the metrics backend used for enrichment. Without one,
// every record keeps its unknown enrichment values.
func WithFetcher(f metrics.Fetcher) Option {
	return func(b *Builder) {
		b.fetcher = f
	}
}

// WithCache shares c across builds. A nil cache is ignored.
func WithCache(c *cache.Cache[float64]) Option {
	return func(b *Builder) {
		if c != nil {
			b.cache = c
		}
	}
}

// WithClock sets the clock used for open-ended lifetimes.
func WithClock(c clock.PassiveClock) Option {
	return func(b *Builder) {
		if c != nil {
			b.clock = c
		}
	}
}

// WithConcurrency caps how many records are processed at once.
func WithConcurrency(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithRates replaces the GPU rate table.
func WithRates(t RateTable) Option {
	return func(b *Builder) {
		if len(t) > 0 {
			b.rates = t
		}
	}
}

// NewBuilder creates a Builder. Without WithCache it owns a private cache.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		clock:       clock.RealClock{},
		concurrency: defaults.EnrichmentConcurrency,
		rates:       DefaultRates,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.cache == nil {
		b.cache = cache.New[float64](cache.WithClock(b.clock))
	}
	return b
}

// Cache returns the metric cache the builder reads and writes.
func (b *Builder) Cache() *cache.Cache[float64] {
	return b.cache
}

// Request carries the inputs of one build.
type Request struct {
	Clusters    []inventory.Cluster
	ManagedJobs []inventory.ManagedJob
	Month       Month
	// UseCache reads and writes the metric cache. Disabling it changes
	// nothing but the number of backend queries.
	UseCache bool
	// SkipEnrichment leaves utilization, memory and power unknown.
	SkipEnrichment bool
}

// Build processes every cluster independently and returns the records that
// overlap the month, in input order. It never fails: a record whose
// processing panics is logged and dropped.
func (b *Builder) Build(ctx context.Context, req Request) []Record {
	began := time.Now()
	defer func() {
		buildDuration.Observe(time.Since(began).Seconds())
	}()

	now := b.clock.Now()
	jobs := newJobIndex(req.ManagedJobs)
	results := make([]*Record, len(req.Clusters))

	g := new(errgroup.Group)
	g.SetLimit(b.concurrency)
	for i := range req.Clusters {
		g.Go(func() error {
			results[i] = b.buildSafe(ctx, &req.Clusters[i], jobs, req, now)
			return nil
		})
	}
	_ = g.Wait()

	records := make([]Record, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, *r)
		}
	}

	slog.Debug("report built",
		"month", req.Month.String(),
		"input", len(req.Clusters),
		"records", len(records),
		"duration", time.Since(began),
	)
	return records
}

func (b *Builder) buildSafe(ctx context.Context, c *inventory.Cluster, jobs *jobIndex, req Request, now time.Time) (rec *Record) {
	defer func() {
		if r := recover(); r != nil {
			recordsDropped.Inc()
			slog.Error("dropping record after processing failure",
				"cluster", c.Name,
				"month", req.Month.String(),
				"panic", fmt.Sprint(r),
			)
			rec = nil
		}
	}()

	rec = b.buildOne(ctx, c, jobs, req, now)
	if rec != nil {
		recordsBuilt.Inc()
	} else {
		recordsExcluded.Inc()
	}
	return rec
}

func (b *Builder) buildOne(ctx context.Context, c *inventory.Cluster, jobs *jobIndex, req Request, now time.Time) *Record {
	lifetime, ok := LifetimeOf(c, now)
	if !ok {
		slog.Debug("skipping record without launch time", "cluster", c.Name)
		return nil
	}
	if !lifetime.Overlaps(req.Month) {
		return nil
	}

	execSeconds := lifetime.ExecutionSecondsIn(req.Month)
	gpu := resources.ExtractGPUInfo(c.Accelerators, c.ResourcesStr)
	nodes := resources.ExtractNodeCount(c.ResourcesStr, c.NumNodes)

	rec := &Record{
		Month:            req.Month.String(),
		UserID:           c.UserID(),
		UserName:         c.UserName,
		ProjectID:        c.Workspace,
		JobID:            c.Name,
		ClusterName:      c.Name,
		JobType:          JobTypeInteractive,
		GPUType:          gpu.Type,
		GPUsPerNode:      gpu.Count,
		GPUCount:         gpu.Count * float64(nodes),
		NodeCount:        nodes,
		PricingClass:     PricingOnDemand,
		QueueSeconds:     QueueSeconds(c),
		ExecutionSeconds: execSeconds,
		AvgUtilization:   UnknownUtilization,
		Preemptions:      c.RecoveryCount,
		Status:           NormalizeClusterStatus(c.Status),
	}
	if c.UseSpot {
		rec.PricingClass = PricingSpot
	}
	if job := jobs.match(c); job != nil {
		rec.JobType = JobTypeManagedBatch
		rec.JobID = strconv.FormatInt(job.ID, 10)
		rec.Status = NormalizeJobStatus(job.Status)
	}

	if c.TotalCost != nil {
		rec.CostUSD = ProportionalCost(*c.TotalCost, execSeconds, lifetime.Seconds()).InexactFloat64()
	} else {
		rec.CostUSD = b.rates.ComputedCost(gpu.Type, gpu.Count, nodes, execSeconds, c.UseSpot).InexactFloat64()
	}
	rec.GPUHours = GPUHours(rec.GPUCount, execSeconds)

	if !req.SkipEnrichment && b.fetcher != nil && gpu.Count > 0 {
		start, end := lifetime.Window(req.Month)
		b.enrich(ctx, rec, c.Identity(), start, end, req.UseCache)
	}
	rec.IdleSeconds = IdleSeconds(execSeconds, rec.AvgUtilization)

	return rec
}

func (b *Builder) enrich(ctx context.Context, rec *Record, identity string, start, end time.Time, useCache bool) {
	target := metrics.Target{Identity: identity, GPUType: rec.GPUType}

	if v, ok := b.lookup(useCache, cache.Key("", identity, start, end), func() (float64, bool) {
		u := b.fetcher.Utilization(ctx, target, start, end)
		return u, u >= 0
	}); ok {
		rec.AvgUtilization = v
	}

	if v, ok := b.lookup(useCache, cache.Key(memoryKeyPrefix, identity, start, end), func() (float64, bool) {
		return b.fetcher.MemoryGB(ctx, target, start, end)
	}); ok {
		rec.P95MemoryGB = v
	}

	if v, ok := b.lookup(useCache, cache.Key(powerKeyPrefix, identity, start, end), func() (float64, bool) {
		return b.fetcher.PowerWatts(ctx, target, start, end)
	}); ok {
		rec.AvgPowerWatts = v
	}
}

// lookup consults the cache before fetching. Only successful fetches of a
// finite value are stored.
func (b *Builder) lookup(useCache bool, key string, fetch func() (float64, bool)) (float64, bool) {
	if useCache {
		if v, ok := b.cache.Get(key); ok {
			return v, true
		}
	}
	v, ok := fetch()
	if ok && (math.IsNaN(v) || math.IsInf(v, 0)) {
		slog.Warn("discarding non-finite metric value", "key", key, "value", v)
		return 0, false
	}
	if ok && useCache {
		b.cache.Set(key, v)
	}
	return v, ok
}
