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

package report

// JobType distinguishes interactive sessions from managed batch jobs.
type JobType string

const (
	JobTypeInteractive  JobType = "Interactive"
	JobTypeManagedBatch JobType = "Managed Batch"
)

// PricingClass is the instance pricing class.
type PricingClass string

const (
	PricingSpot     PricingClass = "Spot"
	PricingOnDemand PricingClass = "On-Demand"
)

// UnknownUtilization marks a record whose utilization could not be fetched.
const UnknownUtilization = -1.0

// Record is the month-scoped usage of one cluster. Records are immutable
// once built.
type Record struct {
	Month       string `json:"month" yaml:"month"`
	UserID      string `json:"userId" yaml:"userId"`
	UserName    string `json:"userName,omitempty" yaml:"userName,omitempty"`
	ProjectID   string `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	JobID       string `json:"jobId" yaml:"jobId"`
	ClusterName string `json:"clusterName" yaml:"clusterName"`

	JobType      JobType      `json:"jobType" yaml:"jobType"`
	GPUType      string       `json:"gpuType,omitempty" yaml:"gpuType,omitempty"`
	GPUsPerNode  float64      `json:"gpusPerNode" yaml:"gpusPerNode"`
	GPUCount     float64      `json:"gpuCount" yaml:"gpuCount"`
	NodeCount    int          `json:"nodeCount" yaml:"nodeCount"`
	PricingClass PricingClass `json:"pricingClass" yaml:"pricingClass"`

	// CostUSD is the cost of the month's portion, rounded to cents.
	CostUSD float64 `json:"costUsd" yaml:"costUsd"`

	QueueSeconds     int64   `json:"queueSeconds" yaml:"queueSeconds"`
	ExecutionSeconds int64   `json:"executionSeconds" yaml:"executionSeconds"`
	IdleSeconds      int64   `json:"idleSeconds" yaml:"idleSeconds"`
	GPUHours         float64 `json:"gpuHours" yaml:"gpuHours"`

	// AvgUtilization is a percentage, or UnknownUtilization.
	AvgUtilization float64 `json:"avgUtilization" yaml:"avgUtilization"`
	P95MemoryGB    float64 `json:"p95MemoryGb" yaml:"p95MemoryGb"`
	AvgPowerWatts  float64 `json:"avgPowerWatts" yaml:"avgPowerWatts"`

	Preemptions int    `json:"preemptions" yaml:"preemptions"`
	Status      string `json:"status" yaml:"status"`
}

// IsSpot reports whether the record ran on spot capacity.
func (r *Record) IsSpot() bool {
	return r.PricingClass == PricingSpot
}

// IsBatch reports whether the record is a managed batch job.
func (r *Record) IsBatch() bool {
	return r.JobType == JobTypeManagedBatch
}
