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
	"fmt"
	"os"
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
	"github.com/NVIDIA/gpu-usage-insights/pkg/metrics"
	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvPrometheusURL = "PROMETHEUS_URL"
	EnvTimezone      = "REPORT_TIMEZONE"
)

// Config describes how to assemble an Engine.
type Config struct {
	// PrometheusURL is the metrics backend. Empty disables enrichment.
	PrometheusURL string
	// Timezone is an IANA name for month boundaries. Empty means local time.
	Timezone string
	// Concurrency caps parallel record processing. Zero uses the default.
	Concurrency int
	// Version is stamped into output headers.
	Version string
	// Clock overrides the real clock.
	Clock clock.PassiveClock
}

// ConfigFromEnv reads PROMETHEUS_URL and REPORT_TIMEZONE.
func ConfigFromEnv(version string) Config {
	return Config{
		PrometheusURL: os.Getenv(EnvPrometheusURL),
		Timezone:      os.Getenv(EnvTimezone),
		Version:       version,
	}
}

// NewEngine builds an Engine with a metrics client, cache and builder from c.
func (c Config) NewEngine() (*Engine, error) {
	loc, err := LoadLocation(c.Timezone)
	if err != nil {
		return nil, err
	}

	clk := c.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaults.EnrichmentConcurrency
	}

	builderOpts := []report.Option{
		report.WithClock(clk),
		report.WithConcurrency(concurrency),
	}
	if c.PrometheusURL != "" {
		client, err := metrics.New(c.PrometheusURL)
		if err != nil {
			return nil, err
		}
		builderOpts = append(builderOpts, report.WithFetcher(client))
	}

	return NewEngine(
		WithBuilder(report.NewBuilder(builderOpts...)),
		WithClock(clk),
		WithLocation(loc),
		WithVersion(c.Version),
	), nil
}

// LoadLocation resolves an IANA timezone name. Empty means local time.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidRequest, fmt.Sprintf("invalid timezone %q", name), err)
	}
	return loc, nil
}
