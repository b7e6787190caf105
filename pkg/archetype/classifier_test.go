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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
)

func TestAggregateByUser(t *testing.T) {
	records := []report.Record{
		rec("u1", false, true, "H100", 40, 1000, 600, 10, 5),
		rec("u1", true, false, "NVIDIA-A100-80GB", report.UnknownUtilization, 2000, 0, 20, 7),
		rec("u2", false, false, "h100", 10, 500, 450, 0, 1),
		rec("", false, false, "L4", 10, 500, 450, 0, 1),
	}
	records[0].UserName = "alice"
	records[0].Preemptions = 2

	users := AggregateByUser(records)
	require.Len(t, users, 3)

	u1 := users["u1"]
	assert.Equal(t, "alice", u1.UserName)
	assert.Equal(t, 2, u1.TotalJobs)
	assert.Equal(t, 1, u1.InteractiveJobs)
	assert.Equal(t, 1, u1.BatchJobs)
	assert.Equal(t, 1, u1.SpotRequests)
	assert.Equal(t, 2, u1.HighEndGPURequests)
	assert.Equal(t, 2, u1.Preemptions)
	assert.InDelta(t, 12.0, u1.TotalCostUSD, 1e-9)
	assert.Equal(t, int64(3000), u1.TotalExecSeconds)
	assert.Equal(t, int64(600), u1.TotalIdleSeconds)
	assert.Equal(t, int64(30), u1.TotalQueueSeconds)
	// unknown utilization counts as 0
	assert.InDelta(t, 20.0, u1.AvgUtilization(), 1e-9)

	// the high-end match is case-sensitive
	assert.Equal(t, 0, users["u2"].HighEndGPURequests)

	assert.Contains(t, users, UnknownUser)
}

func TestBuild(t *testing.T) {
	var records []report.Record
	for i := 0; i < 4; i++ {
		records = append(records, rec("saver", false, true, "L4", 50, 3600, 1800, 0, 1))
	}
	records = append(records, rec("idle", false, false, "L4", 5, 7200, 6840, 0, 3))

	r := Build("2024-02", records)

	assert.Equal(t, "2024-02", r.Month)
	require.Len(t, r.Users, 2)
	assert.Equal(t, CostOptimizer, r.Users["saver"].Archetype)
	assert.Equal(t, InteractiveDeveloper, r.Users["idle"].Archetype)

	assert.Len(t, r.Distribution, len(All))
	assert.Equal(t, 1, r.Distribution[CostOptimizer])
	assert.Equal(t, 1, r.Distribution[InteractiveDeveloper])
	assert.Equal(t, 0, r.Distribution[ResourceHog])

	assert.Equal(t, []string{"idle", "saver"}, r.SortedUserIDs())
}

func TestBuildEmpty(t *testing.T) {
	r := Build("2024-02", nil)
	assert.Empty(t, r.Users)
	for _, a := range All {
		assert.Equal(t, 0, r.Distribution[a])
	}
}
