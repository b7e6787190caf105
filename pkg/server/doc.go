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

// Package server provides the HTTP server that hosts the usage insights API.
//
// # Architecture
//
// API handlers are registered by path and wrapped in a middleware chain:
//
//   - Prometheus RED metrics (rate, errors, duration)
//   - API version negotiation via the Accept header
//   - Request ID tracking (X-Request-Id)
//   - Panic recovery
//   - Token bucket rate limiting (golang.org/x/time/rate)
//   - Request logging
//
// System endpoints /health, /ready and /metrics bypass the chain.
//
// # Usage
//
//	s := server.New(
//	    server.WithName("usaged"),
//	    server.WithVersion(version),
//	    server.WithHandler(map[string]http.HandlerFunc{
//	        "/v1/report": h.HandleReport,
//	    }),
//	)
//	if err := s.Run(ctx); err != nil {
//	    return err
//	}
//
// # Configuration
//
// NewConfig reads:
//
//	PORT                      listen port (default 8080)
//	SHUTDOWN_TIMEOUT_SECONDS  graceful shutdown timeout (default 30)
//
// # Errors
//
// Handlers report failures with WriteError or WriteErrorFromErr. The latter
// maps structured error codes from pkg/errors onto HTTP statuses:
//
//	INVALID_REQUEST      400
//	NOT_FOUND            404
//	TIMEOUT              504
//	SERVICE_UNAVAILABLE  503
//	anything else        500
//
// Error bodies share one shape:
//
//	{
//	  "code": "INVALID_REQUEST",
//	  "message": "Invalid month",
//	  "details": {"error": "..."},
//	  "requestId": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	  "timestamp": "2024-03-01T12:00:00Z",
//	  "retryable": false
//	}
//
// # Versioning
//
// Clients may request a version with
// "Accept: application/vnd.nvidia.gpuinsights.v1+json". The negotiated
// version is echoed in X-API-Version.
package server
