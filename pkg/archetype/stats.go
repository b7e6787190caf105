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
	"strings"

	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
)

// UnknownUser keys records that carry no user identity.
const UnknownUser = "unknown"

// highEndGPUs are matched case-sensitively as substrings of the GPU type.
var highEndGPUs = []string{"H100", "A100"}

// UserStats accumulates one user's month-scoped records.
type UserStats struct {
	UserID   string `json:"userId" yaml:"userId"`
	UserName string `json:"userName,omitempty" yaml:"userName,omitempty"`

	TotalJobs       int `json:"totalJobs" yaml:"totalJobs"`
	InteractiveJobs int `json:"interactiveJobs" yaml:"interactiveJobs"`
	BatchJobs       int `json:"batchJobs" yaml:"batchJobs"`

	TotalCostUSD      float64 `json:"totalCostUsd" yaml:"totalCostUsd"`
	TotalExecSeconds  int64   `json:"totalExecSeconds" yaml:"totalExecSeconds"`
	TotalIdleSeconds  int64   `json:"totalIdleSeconds" yaml:"totalIdleSeconds"`
	TotalQueueSeconds int64   `json:"totalQueueSeconds" yaml:"totalQueueSeconds"`
	// UtilizationSum adds utilization with unknown values counted as 0.
	UtilizationSum float64 `json:"utilizationSum" yaml:"utilizationSum"`

	SpotRequests       int `json:"spotRequests" yaml:"spotRequests"`
	HighEndGPURequests int `json:"highEndGpuRequests" yaml:"highEndGpuRequests"`
	Preemptions        int `json:"preemptions" yaml:"preemptions"`
}

// Add folds one record into the stats.
func (s *UserStats) Add(r *report.Record) {
	s.TotalJobs++
	if r.IsBatch() {
		s.BatchJobs++
	} else {
		s.InteractiveJobs++
	}
	s.TotalCostUSD += r.CostUSD
	s.TotalExecSeconds += r.ExecutionSeconds
	s.TotalIdleSeconds += r.IdleSeconds
	s.TotalQueueSeconds += r.QueueSeconds
	if r.AvgUtilization > 0 {
		s.UtilizationSum += r.AvgUtilization
	}
	if r.IsSpot() {
		s.SpotRequests++
	}
	if isHighEnd(r.GPUType) {
		s.HighEndGPURequests++
	}
	s.Preemptions += r.Preemptions
	if s.UserName == "" {
		s.UserName = r.UserName
	}
}

// InteractiveRatio is interactive jobs over total jobs.
func (s *UserStats) InteractiveRatio() float64 {
	return ratio(float64(s.InteractiveJobs), float64(s.TotalJobs))
}

// BatchRatio is managed batch jobs over total jobs.
func (s *UserStats) BatchRatio() float64 {
	return ratio(float64(s.BatchJobs), float64(s.TotalJobs))
}

// SpotRatio is spot requests over total jobs.
func (s *UserStats) SpotRatio() float64 {
	return ratio(float64(s.SpotRequests), float64(s.TotalJobs))
}

// IdleRatio is idle seconds over execution seconds.
func (s *UserStats) IdleRatio() float64 {
	return ratio(float64(s.TotalIdleSeconds), float64(s.TotalExecSeconds))
}

// AvgUtilization is the utilization sum over total jobs.
func (s *UserStats) AvgUtilization() float64 {
	return ratio(s.UtilizationSum, float64(s.TotalJobs))
}

// Ratios are the derived ratios the rules read.
type Ratios struct {
	Interactive    float64 `json:"interactive" yaml:"interactive"`
	Batch          float64 `json:"batch" yaml:"batch"`
	Spot           float64 `json:"spot" yaml:"spot"`
	Idle           float64 `json:"idle" yaml:"idle"`
	AvgUtilization float64 `json:"avgUtilization" yaml:"avgUtilization"`
}

// Ratios snapshots the derived ratios.
func (s *UserStats) Ratios() Ratios {
	return Ratios{
		Interactive:    s.InteractiveRatio(),
		Batch:          s.BatchRatio(),
		Spot:           s.SpotRatio(),
		Idle:           s.IdleRatio(),
		AvgUtilization: s.AvgUtilization(),
	}
}

// AggregateByUser groups records by user id.
func AggregateByUser(records []report.Record) map[string]*UserStats {
	users := make(map[string]*UserStats)
	for i := range records {
		r := &records[i]
		id := r.UserID
		if id == "" {
			id = UnknownUser
		}
		s, ok := users[id]
		if !ok {
			s = &UserStats{UserID: id}
			users[id] = s
		}
		s.Add(r)
	}
	return users
}

func isHighEnd(gpuType string) bool {
	for _, g := range highEndGPUs {
		if strings.Contains(gpuType, g) {
			return true
		}
	}
	return false
}

func ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
