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

package summary

import (
	"github.com/shopspring/decimal"

	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
)

// Summary holds platform-wide totals and ratios for one month.
type Summary struct {
	Month         string `json:"month" yaml:"month"`
	TotalRecords  int    `json:"totalRecords" yaml:"totalRecords"`
	DistinctUsers int    `json:"distinctUsers" yaml:"distinctUsers"`

	TotalCostUSD          float64 `json:"totalCostUsd" yaml:"totalCostUsd"`
	TotalGPUHours         float64 `json:"totalGpuHours" yaml:"totalGpuHours"`
	TotalExecutionSeconds int64   `json:"totalExecutionSeconds" yaml:"totalExecutionSeconds"`
	TotalIdleSeconds      int64   `json:"totalIdleSeconds" yaml:"totalIdleSeconds"`
	TotalQueueSeconds     int64   `json:"totalQueueSeconds" yaml:"totalQueueSeconds"`

	InteractiveJobs int `json:"interactiveJobs" yaml:"interactiveJobs"`
	BatchJobs       int `json:"batchJobs" yaml:"batchJobs"`
	SpotJobs        int `json:"spotJobs" yaml:"spotJobs"`
	OnDemandJobs    int `json:"onDemandJobs" yaml:"onDemandJobs"`
	SucceededJobs   int `json:"succeededJobs" yaml:"succeededJobs"`
	FailedJobs      int `json:"failedJobs" yaml:"failedJobs"`
	CancelledJobs   int `json:"cancelledJobs" yaml:"cancelledJobs"`

	// AvgUtilization averages utilization over all records, counting
	// unknown values as 0.
	AvgUtilization float64 `json:"avgUtilization" yaml:"avgUtilization"`

	InteractiveRatio float64 `json:"interactiveRatio" yaml:"interactiveRatio"`
	BatchRatio       float64 `json:"batchRatio" yaml:"batchRatio"`
	SpotRatio        float64 `json:"spotRatio" yaml:"spotRatio"`
	IdleRatio        float64 `json:"idleRatio" yaml:"idleRatio"`
	// SuccessRate is succeeded over all terminal records.
	SuccessRate float64 `json:"successRate" yaml:"successRate"`
}

// Aggregate reduces records into a Summary. It is a pure function; every
// ratio with a zero denominator is 0.
func Aggregate(month string, records []report.Record) Summary {
	s := Summary{Month: month, TotalRecords: len(records)}

	users := make(map[string]struct{})
	cost := decimal.Zero
	gpuHours := decimal.Zero
	var utilSum float64

	for i := range records {
		r := &records[i]
		users[r.UserID] = struct{}{}

		cost = cost.Add(decimal.NewFromFloat(r.CostUSD))
		gpuHours = gpuHours.Add(decimal.NewFromFloat(r.GPUHours))
		s.TotalExecutionSeconds += r.ExecutionSeconds
		s.TotalIdleSeconds += r.IdleSeconds
		s.TotalQueueSeconds += r.QueueSeconds

		if r.IsBatch() {
			s.BatchJobs++
		} else {
			s.InteractiveJobs++
		}
		if r.IsSpot() {
			s.SpotJobs++
		} else {
			s.OnDemandJobs++
		}

		switch r.Status {
		case report.StatusSucceeded:
			s.SucceededJobs++
		case report.StatusFailed:
			s.FailedJobs++
		case report.StatusCancelled:
			s.CancelledJobs++
		}

		if r.AvgUtilization > 0 {
			utilSum += r.AvgUtilization
		}
	}

	s.DistinctUsers = len(users)
	s.TotalCostUSD = cost.Round(2).InexactFloat64()
	s.TotalGPUHours = gpuHours.Round(2).InexactFloat64()

	n := float64(len(records))
	s.AvgUtilization = Ratio(utilSum, n)
	s.InteractiveRatio = Ratio(float64(s.InteractiveJobs), n)
	s.BatchRatio = Ratio(float64(s.BatchJobs), n)
	s.SpotRatio = Ratio(float64(s.SpotJobs), n)
	s.IdleRatio = Ratio(float64(s.TotalIdleSeconds), float64(s.TotalExecutionSeconds))
	s.SuccessRate = Ratio(float64(s.SucceededJobs), float64(s.SucceededJobs+s.FailedJobs+s.CancelledJobs))

	return s
}

// Ratio divides num by den, returning 0 when den is not positive.
func Ratio(num, den float64) float64 {
	if den <= 0 {
		return 0
	}
	return num / den
}
