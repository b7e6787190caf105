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
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
)

func TestAggregate(t *testing.T) {
	records := []report.Record{
		{
			UserID: "u1", JobType: report.JobTypeInteractive, PricingClass: report.PricingOnDemand,
			CostUSD: 10.10, GPUHours: 2, ExecutionSeconds: 1000, IdleSeconds: 500, QueueSeconds: 10,
			AvgUtilization: 50, Status: report.StatusSucceeded,
		},
		{
			UserID: "u1", JobType: report.JobTypeManagedBatch, PricingClass: report.PricingSpot,
			CostUSD: 0.20, GPUHours: 1.5, ExecutionSeconds: 3000, IdleSeconds: 0, QueueSeconds: 20,
			AvgUtilization: report.UnknownUtilization, Status: report.StatusFailed,
		},
		{
			UserID: "u2", JobType: report.JobTypeManagedBatch, PricingClass: report.PricingSpot,
			CostUSD: 5, GPUHours: 0.5, ExecutionSeconds: 0, QueueSeconds: 0,
			AvgUtilization: 100, Status: report.StatusRunning,
		},
		{
			UserID: "u3", JobType: report.JobTypeInteractive, PricingClass: report.PricingOnDemand,
			Status: report.StatusCancelled,
		},
	}

	s := Aggregate("2024-02", records)

	assert.Equal(t, "2024-02", s.Month)
	assert.Equal(t, 4, s.TotalRecords)
	assert.Equal(t, 3, s.DistinctUsers)
	assert.InDelta(t, 15.30, s.TotalCostUSD, 1e-9)
	assert.InDelta(t, 4.0, s.TotalGPUHours, 1e-9)
	assert.Equal(t, int64(4000), s.TotalExecutionSeconds)
	assert.Equal(t, int64(500), s.TotalIdleSeconds)
	assert.Equal(t, int64(30), s.TotalQueueSeconds)

	assert.Equal(t, 2, s.InteractiveJobs)
	assert.Equal(t, 2, s.BatchJobs)
	assert.Equal(t, 2, s.SpotJobs)
	assert.Equal(t, 2, s.OnDemandJobs)
	assert.Equal(t, 1, s.SucceededJobs)
	assert.Equal(t, 1, s.FailedJobs)
	assert.Equal(t, 1, s.CancelledJobs)

	// unknown utilization counts as 0: (50 + 0 + 100 + 0) / 4
	assert.InDelta(t, 37.5, s.AvgUtilization, 1e-9)
	assert.InDelta(t, 0.5, s.InteractiveRatio, 1e-9)
	assert.InDelta(t, 0.5, s.BatchRatio, 1e-9)
	assert.InDelta(t, 0.5, s.SpotRatio, 1e-9)
	assert.InDelta(t, 0.125, s.IdleRatio, 1e-9)
	assert.InDelta(t, 1.0/3.0, s.SuccessRate, 1e-9)
}

func TestAggregateEmpty(t *testing.T) {
	s := Aggregate("2024-02", nil)

	assert.Zero(t, s.TotalRecords)
	assert.Zero(t, s.DistinctUsers)
	for name, v := range map[string]float64{
		"avgUtilization":   s.AvgUtilization,
		"interactiveRatio": s.InteractiveRatio,
		"batchRatio":       s.BatchRatio,
		"spotRatio":        s.SpotRatio,
		"idleRatio":        s.IdleRatio,
		"successRate":      s.SuccessRate,
	} {
		assert.False(t, math.IsNaN(v), name)
		assert.Zero(t, v, name)
	}
}

func TestRatio(t *testing.T) {
	assert.Equal(t, 0.5, Ratio(1, 2))
	assert.Zero(t, Ratio(1, 0))
	assert.Zero(t, Ratio(0, 0))
	assert.Zero(t, Ratio(5, -1))
}
