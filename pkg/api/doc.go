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

// Package api wires the insights engine into the HTTP server.
//
// # Usage
//
//	import (
//	    "log"
//	    "github.com/NVIDIA/gpu-usage-insights/pkg/api"
//	)
//
//	func main() {
//	    if err := api.Serve(); err != nil {
//	        log.Fatalf("server error: %v", err)
//	    }
//	}
//
// # Configuration
//
// Serve reads its configuration from the environment:
//
//	INVENTORY_SOURCE  inventory file, http(s) URL or cm://namespace/name (required)
//	PROMETHEUS_URL    metrics backend; enrichment is disabled when empty
//	REPORT_TIMEZONE   IANA zone for month boundaries (default local)
//	KUBECONFIG        kubeconfig for cm:// sources (default in-cluster)
//	PORT              listen port (default 8080)
//	LOG_LEVEL         debug, info, warn or error
//
// # Endpoints
//
// Application endpoints (with rate limiting):
//   - GET /v1/report      - per-cluster usage records for the month
//   - GET /v1/summary     - platform totals and ratios
//   - GET /v1/archetypes  - per-user archetype classification
//   - GET /v1/guidance    - per-user advice and platform suggestions
//   - GET /v1/insights    - all of the above in one document
//   - POST /v1/cache/clear - drop cached metric values
//
// System endpoints (no rate limiting):
//   - GET /health
//   - GET /ready
//   - GET /metrics
//
// # Query Parameters
//
//   - month: YYYY-MM, defaults to the current month
//   - useCache: read and write the metric cache (default true)
//   - skipEnrichment: skip metric queries entirely (default false)
//
// The inventory is re-read on every request so new clusters show up without
// a restart.
//
// Example:
//
//	curl -s "http://localhost:8080/v1/archetypes?month=2024-02" | jq .report.distribution
package api
