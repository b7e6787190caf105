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

package guidance

import (
	"fmt"
	"sort"

	"github.com/NVIDIA/gpu-usage-insights/pkg/archetype"
	"github.com/NVIDIA/gpu-usage-insights/pkg/summary"
)

// Severity ranks advisory items.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Platform thresholds that trigger suggestions.
const (
	InteractiveRatioThreshold = 0.4
	WaitingRatioThreshold     = 0.2
	UtilizationThreshold      = 50.0
)

// Advice is one recommendation for a user.
type Advice struct {
	Severity Severity `json:"severity" yaml:"severity"`
	Title    string   `json:"title" yaml:"title"`
	Message  string   `json:"message" yaml:"message"`
	// Command is an optional command the user can run to act on the advice.
	Command string `json:"command,omitempty" yaml:"command,omitempty"`
}

// UserGuidance groups the advice for one classified user.
type UserGuidance struct {
	UserID     string              `json:"userId" yaml:"userId"`
	Archetype  archetype.Archetype `json:"archetype" yaml:"archetype"`
	Confidence float64             `json:"confidence" yaml:"confidence"`
	Advice     []Advice            `json:"advice" yaml:"advice"`
}

// ForUser maps a classified user to advice. The result is never nil.
func ForUser(r archetype.Result) []Advice {
	ratios := r.Derived
	advice := []Advice{}

	switch r.Archetype {
	case archetype.InteractiveDeveloper:
		if r.Confidence <= archetype.FallbackConfidence {
			advice = append(advice, Advice{
				Severity: SeverityInfo,
				Title:    "No dominant usage pattern",
				Message:  "Usage this month does not match a specific pattern. Keep clusters stopped when not in use.",
			})
			break
		}
		advice = append(advice,
			Advice{
				Severity: SeverityWarning,
				Title:    "Idle interactive clusters",
				Message: fmt.Sprintf("GPUs were idle %.0f%% of execution time at %.1f%% average utilization. Enable autostop to release idle clusters.",
					ratios.Idle*100, ratios.AvgUtilization),
				Command: "sky autostop --all -i 30",
			},
			Advice{
				Severity: SeverityInfo,
				Title:    "Move long experiments to managed jobs",
				Message:  "Managed jobs release GPUs when the job finishes and recover from preemption automatically.",
				Command:  "sky jobs launch task.yaml",
			},
		)

	case archetype.BatchTrainer:
		advice = append(advice, Advice{
			Severity: SeverityInfo,
			Title:    "Efficient batch usage",
			Message:  fmt.Sprintf("Managed jobs keep GPUs %.1f%% busy on average.", ratios.AvgUtilization),
		})
		if ratios.Spot < 0.5 {
			advice = append(advice, Advice{
				Severity: SeverityInfo,
				Title:    "Consider spot capacity",
				Message:  fmt.Sprintf("Only %.0f%% of jobs used spot instances. Checkpointed training jobs can run on spot at a discount.", ratios.Spot*100),
				Command:  "sky jobs launch --use-spot task.yaml",
			})
		}

	case archetype.CostOptimizer:
		advice = append(advice, Advice{
			Severity: SeverityInfo,
			Title:    "Spot-first usage",
			Message:  fmt.Sprintf("%.0f%% of jobs ran on spot instances.", ratios.Spot*100),
		})
		if r.Preemptions > r.TotalJobs {
			advice = append(advice, Advice{
				Severity: SeverityWarning,
				Title:    "Frequent preemptions",
				Message:  fmt.Sprintf("%d preemptions across %d jobs. Checkpoint often so recovered jobs resume quickly.", r.Preemptions, r.TotalJobs),
			})
		}

	case archetype.ResourceHog:
		advice = append(advice,
			Advice{
				Severity: SeverityCritical,
				Title:    "High-end GPUs underutilized",
				Message: fmt.Sprintf("%d high-end GPU requests averaged %.1f%% utilization at a cost of $%.2f. Right-size to a smaller accelerator.",
					r.HighEndGPURequests, ratios.AvgUtilization, r.TotalCostUSD),
				Command: "sky show-gpus",
			},
			Advice{
				Severity: SeverityWarning,
				Title:    "Stop idle clusters",
				Message:  "Stopped clusters do not accrue GPU cost.",
				Command:  "sky stop --all",
			},
		)

	case archetype.WaitingUser:
		advice = append(advice, Advice{
			Severity: SeverityWarning,
			Title:    "Long queue times",
			Message: fmt.Sprintf("Jobs waited %s in queue against %s of execution. Allow more regions or accelerator types to schedule sooner.",
				hours(r.TotalQueueSeconds), hours(r.TotalExecSeconds)),
			Command: "sky jobs launch --gpus H100:1,A100:1 task.yaml",
		})
	}

	return advice
}

// ForUsers builds guidance for every classified user, ordered by user id.
func ForUsers(rep archetype.Report) []UserGuidance {
	out := make([]UserGuidance, 0, len(rep.Users))
	for _, id := range rep.SortedUserIDs() {
		r := rep.Users[id]
		out = append(out, UserGuidance{
			UserID:     id,
			Archetype:  r.Archetype,
			Confidence: r.Confidence,
			Advice:     ForUser(r),
		})
	}
	return out
}

// PlatformStats are the platform-wide inputs to suggestions.
type PlatformStats struct {
	// InteractiveRatio is the share of users classified Interactive Developer,
	// fallback classifications included.
	InteractiveRatio float64 `json:"interactiveRatio" yaml:"interactiveRatio"`
	// IdleInteractiveCount counts Interactive Developer users that matched the
	// idle-heavy rule rather than the fallback.
	IdleInteractiveCount int `json:"idleInteractiveCount" yaml:"idleInteractiveCount"`
	// WaitingRatio is the share of users classified Waiting User.
	WaitingRatio   float64 `json:"waitingRatio" yaml:"waitingRatio"`
	HogCount       int     `json:"hogCount" yaml:"hogCount"`
	AvgUtilization float64 `json:"avgUtilization" yaml:"avgUtilization"`
}

// PlatformFrom derives platform stats from the archetype distribution and
// the monthly summary.
func PlatformFrom(rep archetype.Report, sum summary.Summary) PlatformStats {
	users := float64(len(rep.Users))
	idle := 0
	for _, r := range rep.Users {
		if r.Archetype == archetype.InteractiveDeveloper && r.Confidence > archetype.FallbackConfidence {
			idle++
		}
	}
	return PlatformStats{
		InteractiveRatio:     summary.Ratio(float64(rep.Distribution[archetype.InteractiveDeveloper]), users),
		IdleInteractiveCount: idle,
		WaitingRatio:         summary.Ratio(float64(rep.Distribution[archetype.WaitingUser]), users),
		HogCount:             rep.Distribution[archetype.ResourceHog],
		AvgUtilization:       sum.AvgUtilization,
	}
}

// Suggestion is a platform improvement; lower Priority comes first.
type Suggestion struct {
	Priority int      `json:"priority" yaml:"priority"`
	Severity Severity `json:"severity" yaml:"severity"`
	Title    string   `json:"title" yaml:"title"`
	Message  string   `json:"message" yaml:"message"`
}

// ForPlatform returns prioritized suggestions. The result is never nil.
func ForPlatform(p PlatformStats) []Suggestion {
	out := []Suggestion{}

	if p.HogCount > 0 {
		out = append(out, Suggestion{
			Priority: 1,
			Severity: SeverityCritical,
			Title:    "Introduce GPU quotas",
			Message:  fmt.Sprintf("%d users hold high-end GPUs at low utilization. Per-user quotas on premium accelerators limit the waste.", p.HogCount),
		})
	}
	if p.InteractiveRatio > InteractiveRatioThreshold {
		out = append(out, Suggestion{
			Priority: 2,
			Severity: SeverityWarning,
			Title:    "Reclaim idle interactive clusters",
			Message: fmt.Sprintf("%.0f%% of users are classified Interactive Developer, %d of them with idle-heavy clusters. Enforce a default autostop on interactive clusters.",
				p.InteractiveRatio*100, p.IdleInteractiveCount),
		})
	}
	if p.WaitingRatio > WaitingRatioThreshold {
		out = append(out, Suggestion{
			Priority: 3,
			Severity: SeverityWarning,
			Title:    "Integrate a queueing scheduler",
			Message:  fmt.Sprintf("%.0f%% of users spend more time queued than half their execution time. Gang scheduling with fair-share queues would shorten waits.", p.WaitingRatio*100),
		})
	}
	if p.AvgUtilization < UtilizationThreshold {
		out = append(out, Suggestion{
			Priority: 4,
			Severity: SeverityInfo,
			Title:    "Improve GPU observability",
			Message:  fmt.Sprintf("Average GPU utilization is %.1f%%. Surface per-job utilization dashboards so users can see waste.", p.AvgUtilization),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

func hours(seconds int64) string {
	return fmt.Sprintf("%.1fh", float64(seconds)/3600)
}
