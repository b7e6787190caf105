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

// Package report builds month-scoped GPU usage records from cluster and
// managed-job inventory.
//
// For every cluster the builder intersects its absolute lifetime with the
// calendar boundaries of the target month (00:00:00.000 on the first day to
// 23:59:59.999 on the last, in the month's location) and emits nothing when
// they do not overlap. For overlapping clusters it derives:
//
//   - execution seconds inside the month, never negative
//   - queue seconds from submission and launch times
//   - job type (Managed Batch when a managed job is bound to the cluster)
//   - GPU type, count and node count from the resource descriptor
//   - cost, either scaled from a recorded lifetime cost or priced from the
//     rate table with a spot discount
//   - utilization, p95 memory and power from the metrics backend through
//     a TTL cache, and idle seconds estimated from utilization
//
// Records are processed concurrently and returned in input order. A failure
// while processing one record drops that record and nothing else.
//
// Usage:
//
//	m, err := report.ParseMonth("2024-02", time.UTC)
//	b := report.NewBuilder(report.WithFetcher(client))
//	records := b.Build(ctx, report.Request{Clusters: snap.Clusters, ManagedJobs: snap.ManagedJobs, Month: m, UseCache: true})
package report
