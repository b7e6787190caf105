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

package insights

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"k8s.io/utils/clock"

	"github.com/NVIDIA/gpu-usage-insights/pkg/archetype"
	"github.com/NVIDIA/gpu-usage-insights/pkg/guidance"
	"github.com/NVIDIA/gpu-usage-insights/pkg/header"
	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
	"github.com/NVIDIA/gpu-usage-insights/pkg/summary"
)

// Engine runs the report pipeline: builder, then aggregator and classifier,
// then guidance.
type Engine struct {
	builder  *report.Builder
	clock    clock.PassiveClock
	location *time.Location
	version  string
}

// Option is a functional option for configuring the Engine.
type Option func(*Engine)

// WithBuilder sets the report builder.
func WithBuilder(b *report.Builder) Option {
	return func(e *Engine) {
		if b != nil {
			e.builder = b
		}
	}
}

// WithClock sets the clock used for the default month and header timestamps.
func WithClock(c clock.PassiveClock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithLocation sets the location month boundaries are evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithVersion sets the version stamped into output headers.
func WithVersion(version string) Option {
	return func(e *Engine) {
		e.version = version
	}
}

// NewEngine creates an Engine. Without WithBuilder it builds without
// metric enrichment.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		clock:    clock.RealClock{},
		location: time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.builder == nil {
		e.builder = report.NewBuilder(report.WithClock(e.clock))
	}
	return e
}

// Request carries the inputs of one pipeline run.
type Request struct {
	Snapshot *inventory.Snapshot
	// Month is YYYY-MM; empty means the current month.
	Month          string
	UseCache       bool
	SkipEnrichment bool
}

// Generate runs the whole pipeline. It fails only on an invalid month.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	month, err := e.month(req.Month)
	if err != nil {
		return nil, err
	}

	snap := req.Snapshot
	if snap == nil {
		snap = &inventory.Snapshot{}
	}

	records := e.builder.Build(ctx, report.Request{
		Clusters:       snap.Clusters,
		ManagedJobs:    snap.ManagedJobs,
		Month:          month,
		UseCache:       req.UseCache,
		SkipEnrichment: req.SkipEnrichment,
	})

	sum := summary.Aggregate(month.String(), records)
	arch := archetype.Build(month.String(), records)
	platform := guidance.PlatformFrom(arch, sum)

	res := &Result{
		Header:      e.header(header.KindInsightsResult, month.String(), uuid.NewString()),
		Month:       month.String(),
		Records:     records,
		Summary:     sum,
		Archetypes:  arch,
		Users:       guidance.ForUsers(arch),
		Platform:    platform,
		Suggestions: guidance.ForPlatform(platform),
	}

	slog.Info("insights generated",
		"month", res.Month,
		"runId", res.Metadata[header.MetadataRunID],
		"records", len(records),
		"users", len(arch.Users),
		"totalCostUsd", sum.TotalCostUSD,
	)
	return res, nil
}

// ClearCache empties the metric cache so the next run fetches fresh values.
func (e *Engine) ClearCache() {
	n := e.builder.Cache().Len()
	e.builder.Cache().Clear()
	slog.Info("metric cache cleared", "entries", n)
}

func (e *Engine) month(s string) (report.Month, error) {
	if s == "" {
		return report.CurrentMonth(e.clock, e.location), nil
	}
	return report.ParseMonth(s, e.location)
}

func (e *Engine) header(kind header.Kind, month, runID string) header.Header {
	return *header.New(
		header.WithKind(kind),
		header.WithTimestamp(e.clock.Now()),
		header.WithVersion(e.version),
		header.WithMonth(month),
		header.WithRunID(runID),
	)
}
