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

package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	promapi "github.com/prometheus/client_golang/api"
	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"golang.org/x/time/rate"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
)

// UnknownUtilization is returned when utilization could not be fetched.
const UnknownUtilization = -1.0

const bytesPerGB = 1024 * 1024 * 1024

// Target identifies whose GPUs to query.
type Target struct {
	// Identity is the cluster identity; its sanitized form is the workload name prefix.
	Identity string
	// GPUType selects the vendor naming convention.
	GPUType string
}

// Fetcher is what the report builder needs from the metrics backend.
// Implementations never return errors: failures degrade to sentinels.
type Fetcher interface {
	// Utilization returns the average GPU utilization percentage, or
	// UnknownUtilization on failure.
	Utilization(ctx context.Context, t Target, start, end time.Time) float64
	// MemoryGB returns p95 GPU memory in GB; ok is false on failure.
	MemoryGB(ctx context.Context, t Target, start, end time.Time) (float64, bool)
	// PowerWatts returns the average GPU power draw; ok is false on failure.
	PowerWatts(ctx context.Context, t Target, start, end time.Time) (float64, bool)
}

// Client queries a Prometheus-compatible range endpoint.
type Client struct {
	api       promv1.API
	limiter   *rate.Limiter
	timeout   time.Duration
	step      time.Duration
	templates Templates
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithTimeout bounds each query, rate-limit wait included.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithRateLimit throttles queries to the backend. A zero limit disables throttling.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if limit <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

// WithTemplates overrides the series selectors per vendor and family.
func WithTemplates(t Templates) Option {
	return func(c *Client) {
		if len(t) > 0 {
			c.templates = t
		}
	}
}

// New creates a Client for the Prometheus server at address.
func New(address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "metrics backend address is required")
	}
	client, err := promapi.NewClient(promapi.Config{Address: address})
	if err != nil {
		return nil, errors.WrapWithContext(errors.ErrCodeInvalidRequest, "create prometheus client", err,
			map[string]any{"address": address})
	}
	return NewWithAPI(promv1.NewAPI(client), opts...), nil
}

// NewWithAPI creates a Client over an existing API implementation.
func NewWithAPI(api promv1.API, opts ...Option) *Client {
	c := &Client{
		api:       api,
		limiter:   rate.NewLimiter(defaults.MetricQueryRateLimit, defaults.MetricQueryRateBurst),
		timeout:   defaults.MetricQueryTimeout,
		step:      defaults.MetricQueryStep,
		templates: DefaultTemplates(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Utilization implements Fetcher.
func (c *Client) Utilization(ctx context.Context, t Target, start, end time.Time) float64 {
	v, ok := c.FetchAggregated(ctx, t.Identity, c.expression(FamilyUtilization, t), start, end, AggregationAvg)
	if !ok {
		return UnknownUtilization
	}
	return v
}

// MemoryGB implements Fetcher.
func (c *Client) MemoryGB(ctx context.Context, t Target, start, end time.Time) (float64, bool) {
	v, ok := c.FetchAggregated(ctx, t.Identity, c.expression(FamilyMemory, t), start, end, AggregationP95)
	if !ok {
		return 0, false
	}
	return v / bytesPerGB, true
}

// PowerWatts implements Fetcher.
func (c *Client) PowerWatts(ctx context.Context, t Target, start, end time.Time) (float64, bool) {
	return c.FetchAggregated(ctx, t.Identity, c.expression(FamilyPower, t), start, end, AggregationAvg)
}

func (c *Client) expression(family Family, t Target) string {
	return c.templates.Expression(VendorFor(t.GPUType), family, t.Identity)
}

// FetchAggregated wraps query in agg, runs it over [start, end] at the fixed
// step and returns the mean of every sample of every returned series.
// Any failure, timeouts included, is logged and reported as ok == false.
func (c *Client) FetchAggregated(ctx context.Context, cluster, query string, start, end time.Time, agg Aggregation) (float64, bool) {
	expr := agg.Wrap(query)

	began := time.Now()
	v, err := c.queryRange(ctx, expr, start, end)
	queryDuration.WithLabelValues(string(agg)).Observe(time.Since(began).Seconds())

	if err != nil {
		queryTotal.WithLabelValues(string(agg), string(errors.CodeOf(err))).Inc()
		slog.Warn("metric query failed",
			"cluster", cluster,
			"query", expr,
			"start", start.Unix(),
			"end", end.Unix(),
			"error", err,
		)
		return 0, false
	}

	queryTotal.WithLabelValues(string(agg), "OK").Inc()
	return v, true
}

func (c *Client) queryRange(ctx context.Context, expr string, start, end time.Time) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, errors.Wrap(errors.ErrCodeTimeout, "waiting for query slot", err)
		}
	}

	result, warnings, err := c.api.QueryRange(ctx, expr, promv1.Range{
		Start: start,
		End:   end,
		Step:  c.step,
	})
	if err != nil {
		if ctx.Err() != nil {
			return 0, errors.Wrap(errors.ErrCodeTimeout, "range query timed out", err)
		}
		return 0, errors.Wrap(errors.ErrCodeUnavailable, "range query failed", err)
	}
	if len(warnings) > 0 {
		slog.Debug("range query warnings", "query", expr, "warnings", warnings)
	}

	matrix, ok := result.(model.Matrix)
	if !ok {
		return 0, errors.New(errors.ErrCodeInternal, fmt.Sprintf("unexpected result type %T", result))
	}
	return meanOfSamples(matrix)
}

// meanOfSamples averages the finite samples of every series. NaN and Inf
// samples (PromQL yields NaN for 0/0) are skipped.
func meanOfSamples(matrix model.Matrix) (float64, error) {
	var sum float64
	var n int
	for _, stream := range matrix {
		for _, point := range stream.Values {
			v := float64(point.Value)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, errors.New(errors.ErrCodeNotFound, "no finite samples in result set")
	}
	mean := sum / float64(n)
	if math.IsInf(mean, 0) {
		return 0, errors.New(errors.ErrCodeInternal, "sample mean overflows")
	}
	return mean, nil
}
