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

package defaults

import "time"

// Metric backend settings for enrichment lookups.
const (
	// MetricQueryTimeout bounds a single range query against the metrics backend.
	// A timeout is treated like any other fetch failure.
	MetricQueryTimeout = 10 * time.Second

	// MetricQueryStep is the fixed sampling step for range queries.
	MetricQueryStep = 300 * time.Second

	// MetricQueryRateLimit is the sustained query rate (per second) allowed
	// against the metrics backend during fan-out.
	MetricQueryRateLimit = 20

	// MetricQueryRateBurst is the burst size for MetricQueryRateLimit.
	MetricQueryRateBurst = 40
)

// Result cache settings.
const (
	// MetricCacheTTL is how long a fetched metric value stays valid.
	MetricCacheTTL = time.Hour

	// MetricCacheSweepThreshold is the entry count above which expired
	// entries are swept before the next write.
	MetricCacheSweepThreshold = 100
)

// Report builder settings.
const (
	// EnrichmentConcurrency caps how many records are enriched in parallel.
	EnrichmentConcurrency = 16

	// SpotDiscount is the multiplier applied to spot instance cost.
	SpotDiscount = 0.7
)

// Handler timeouts for HTTP request processing.
const (
	// ReportHandlerTimeout is the timeout for report generation requests.
	ReportHandlerTimeout = 2 * time.Minute

	// ReportBuildTimeout is the internal timeout for the pipeline.
	// Should be less than ReportHandlerTimeout to allow error handling.
	ReportBuildTimeout = 110 * time.Second
)

// Server timeouts for HTTP server configuration.
const (
	// ServerReadTimeout is the maximum duration for reading request headers.
	ServerReadTimeout = 10 * time.Second

	// ServerReadHeaderTimeout prevents slow header attacks.
	ServerReadHeaderTimeout = 5 * time.Second

	// ServerWriteTimeout is the maximum duration for writing a response.
	// Report generation fans out metric queries, so this exceeds ReportHandlerTimeout.
	ServerWriteTimeout = 150 * time.Second

	// ServerIdleTimeout is the maximum duration to wait for the next request.
	ServerIdleTimeout = 120 * time.Second

	// ServerShutdownTimeout is the maximum duration for graceful shutdown.
	ServerShutdownTimeout = 30 * time.Second
)

// Kubernetes timeouts for K8s API operations.
const (
	// K8sConfigMapReadTimeout is the timeout for reading an inventory ConfigMap.
	K8sConfigMapReadTimeout = 30 * time.Second
)

// HTTP client timeouts for outbound requests.
const (
	// HTTPClientTimeout is the default total timeout for HTTP requests.
	HTTPClientTimeout = 30 * time.Second

	// HTTPConnectTimeout is the timeout for establishing connections.
	HTTPConnectTimeout = 5 * time.Second

	// HTTPTLSHandshakeTimeout is the timeout for TLS handshake.
	HTTPTLSHandshakeTimeout = 5 * time.Second

	// HTTPResponseHeaderTimeout is the timeout for reading response headers.
	HTTPResponseHeaderTimeout = 10 * time.Second

	// HTTPIdleConnTimeout is the timeout for idle connections in the pool.
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPKeepAlive is the keep-alive duration for connections.
	HTTPKeepAlive = 30 * time.Second
)

// CLI timeouts for command-line operations.
const (
	// CLIReportTimeout is the default timeout for a full pipeline run from the CLI.
	CLIReportTimeout = 5 * time.Minute
)
