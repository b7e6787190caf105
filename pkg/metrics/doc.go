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

// Package metrics fetches aggregated GPU telemetry from a Prometheus-compatible
// range query endpoint.
//
// Each lookup wraps a vendor-specific series selector in an aggregation
// (avg, p95, max or min), queries it over a window at a fixed 300s step and
// averages every returned sample. Lookups never fail loudly: errors,
// timeouts and empty results are logged and surface as a sentinel so the
// caller can keep building the report.
//
// Series selectors key on the workload name prefix, which is the cluster
// identity lowercased with runs of non-alphanumeric characters collapsed
// to '-':
//
//	c, err := metrics.New("http://prometheus:9090")
//	util := c.Utilization(ctx, metrics.Target{Identity: "train-1a2b", GPUType: "H100"}, start, end)
package metrics
