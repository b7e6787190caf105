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

// Package archetype classifies users into one of five behavioral archetypes
// from their month-scoped usage.
//
// Records are first aggregated per user. The user's stats are then checked
// against an ordered rule table; the first rule whose predicate holds assigns
// the archetype and computes a confidence clamped to [0,1]:
//
//	Interactive Developer  mostly interactive, low utilization, mostly idle
//	Batch Trainer          mostly managed batch with high utilization
//	Cost Optimizer         mostly spot capacity
//	Resource Hog           high-end GPUs with low utilization and high cost
//	Waiting User           queue time above half of execution time
//
// A user matching no rule is an Interactive Developer at confidence 0.3.
// Every ratio is 0 when its denominator is 0.
package archetype
