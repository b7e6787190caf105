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

// Package insights runs the monthly GPU usage pipeline end to end.
//
// Generate builds month-scoped records from an inventory snapshot, reduces
// them into a platform summary, classifies each user into an archetype and
// derives per-user advice and platform suggestions. The Result carries a
// header with a run id and can be projected onto any single document kind
// (UsageReport, UsageSummary, ArchetypeReport, Guidance) for output.
//
//	e := insights.NewEngine(insights.WithBuilder(builder), insights.WithVersion(version))
//	res, err := e.Generate(ctx, insights.Request{Snapshot: snap, Month: "2025-02", UseCache: true})
package insights
