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

// Package header provides the common header stamped on every output document.
//
// The Header follows Kubernetes-style resource conventions:
//
//	kind: UsageReport
//	apiVersion: gpuinsights.nvidia.com/v1
//	metadata:
//	  timestamp: "2025-03-01T00:00:00Z"
//	  version: v0.4.0
//	  month: 2025-02
//	  runId: 5f0c...
//
// Usage:
//
//	h := header.New(
//	    header.WithKind(header.KindUsageReport),
//	    header.WithVersion(version),
//	    header.WithMonth("2025-02"),
//	)
package header
