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

package archetype

import (
	"math"
)

// Archetype is one of five behavioral classifications.
type Archetype string

const (
	InteractiveDeveloper Archetype = "Interactive Developer"
	BatchTrainer         Archetype = "Batch Trainer"
	CostOptimizer        Archetype = "Cost Optimizer"
	ResourceHog          Archetype = "Resource Hog"
	WaitingUser          Archetype = "Waiting User"
)

// All lists every archetype in rule order.
var All = []Archetype{InteractiveDeveloper, BatchTrainer, CostOptimizer, ResourceHog, WaitingUser}

// FallbackConfidence is assigned when no rule matches.
const FallbackConfidence = 0.3

// Rule pairs a predicate with the confidence it reports when it matches.
type Rule struct {
	Archetype  Archetype
	Matches    func(s *UserStats) bool
	Confidence func(s *UserStats) float64
}

// Rules are evaluated in order; the first match wins.
var Rules = []Rule{
	{
		Archetype: InteractiveDeveloper,
		Matches: func(s *UserStats) bool {
			return s.InteractiveRatio() > 0.6 &&
				s.AvgUtilization() < 20 &&
				s.IdleRatio() > 0.3 &&
				s.TotalExecSeconds > 3600
		},
		Confidence: func(s *UserStats) float64 {
			return 0.5 + (s.InteractiveRatio()-0.6)*0.5 + ((20-s.AvgUtilization())/20)*0.2
		},
	},
	{
		Archetype: BatchTrainer,
		Matches: func(s *UserStats) bool {
			return s.BatchRatio() > 0.7 &&
				s.AvgUtilization() >= 80 &&
				s.TotalJobs >= 5
		},
		Confidence: func(s *UserStats) float64 {
			return 0.6 + (s.BatchRatio()-0.7)*0.3 + ((s.AvgUtilization()-80)/20)*0.2
		},
	},
	{
		Archetype: CostOptimizer,
		Matches: func(s *UserStats) bool {
			return s.SpotRatio() > 0.8 && s.TotalJobs >= 3
		},
		Confidence: func(s *UserStats) float64 {
			return 0.5 + (s.SpotRatio()-0.8)*2
		},
	},
	{
		Archetype: ResourceHog,
		Matches: func(s *UserStats) bool {
			return s.HighEndGPURequests > 0 &&
				s.AvgUtilization() < 15 &&
				s.TotalCostUSD > 100
		},
		Confidence: func(s *UserStats) float64 {
			return 0.4 + ((15-s.AvgUtilization())/15)*0.3 + math.Min(s.TotalCostUSD/500, 0.3)
		},
	},
	{
		Archetype: WaitingUser,
		Matches: func(s *UserStats) bool {
			return float64(s.TotalQueueSeconds) > float64(s.TotalExecSeconds)*0.5 &&
				s.TotalJobs >= 2
		},
		Confidence: func(s *UserStats) float64 {
			return 0.4 + ((queueToExec(s)-0.5)*2)*0.4
		},
	},
}

// Classify returns the first matching archetype and its confidence in [0,1],
// or InteractiveDeveloper at FallbackConfidence when no rule matches.
func Classify(s *UserStats) (Archetype, float64) {
	return classifyWith(Rules, s)
}

func classifyWith(rules []Rule, s *UserStats) (Archetype, float64) {
	for _, r := range rules {
		if r.Matches(s) {
			return r.Archetype, clamp01(r.Confidence(s))
		}
	}
	return InteractiveDeveloper, FallbackConfidence
}

// queueToExec is +Inf when there is queue time but no execution time.
func queueToExec(s *UserStats) float64 {
	if s.TotalExecSeconds <= 0 {
		if s.TotalQueueSeconds > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(s.TotalQueueSeconds) / float64(s.TotalExecSeconds)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Min(math.Max(v, 0), 1)
}
