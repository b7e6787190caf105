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

package inventory

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestTimestampJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"unix int", `1706140800`, time.Unix(1706140800, 0)},
		{"unix float", `1706140800.5`, time.Unix(1706140800, int64(500*time.Millisecond))},
		{"unix string", `"1706140800"`, time.Unix(1706140800, 0)},
		{"rfc3339", `"2024-01-25T00:00:00Z"`, time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)},
		{"rfc3339 nano", `"2024-01-25T00:00:00.25+01:00"`, time.Date(2024, 1, 24, 23, 0, 0, int(250*time.Millisecond), time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ts Timestamp
			require.NoError(t, json.Unmarshal([]byte(tt.in), &ts))
			assert.True(t, tt.want.Equal(ts.Time), "got %s", ts.Time)
		})
	}
}

func TestTimestampJSONInvalid(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}

func TestTimestampJSONNull(t *testing.T) {
	var c Cluster
	require.NoError(t, json.Unmarshal([]byte(`{"name":"a","launched_at":1706140800,"ended_at":null}`), &c))
	require.NotNil(t, c.LaunchedAt)
	assert.Nil(t, c.EndedAt)
}

func TestTimestampRoundTrip(t *testing.T) {
	in := NewTimestamp(time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC))

	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Equal(t, `"2024-02-05T12:00:00Z"`, string(b))

	y, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(y), "2024-02-05T12:00:00Z")
}

func TestSnapshotYAML(t *testing.T) {
	doc := `
clusters:
  - name: train
    user_hash: abcd
    user_name: alice
    workspace: research
    launched_at: 1706140800
    ended_at: "2024-02-05T12:00:00Z"
    status: TERMINATED
    accelerators: "{'H100': 8}"
    resources_str: 2x(gpus=H100:8)
    num_nodes: 2
    use_spot: true
    total_cost: 120.5
    recovery_count: 1
  - name: dev
    launched_at: 1706140800
    accelerators:
      A100: 1
managed_jobs:
  - job_id: 3
    job_name: train
    cluster_name: train
    status: SUCCEEDED
`
	var s Snapshot
	require.NoError(t, yaml.Unmarshal([]byte(doc), &s))

	require.Len(t, s.Clusters, 2)
	c := s.Clusters[0]
	assert.Equal(t, "train", c.Name)
	assert.Equal(t, "train-abcd", c.Identity())
	assert.Equal(t, "abcd", c.UserID())
	assert.Equal(t, time.Unix(1706140800, 0).UTC(), c.LaunchedAt.UTC())
	assert.Equal(t, time.Date(2024, 2, 5, 12, 0, 0, 0, time.UTC), c.EndedAt.UTC())
	assert.Equal(t, "{'H100': 8}", c.Accelerators)
	require.NotNil(t, c.NumNodes)
	assert.Equal(t, 2, *c.NumNodes)
	assert.True(t, c.UseSpot)
	require.NotNil(t, c.TotalCost)
	assert.Equal(t, 120.5, *c.TotalCost)

	assert.Equal(t, map[string]any{"A100": 1}, s.Clusters[1].Accelerators)

	require.Len(t, s.ManagedJobs, 1)
	assert.Equal(t, int64(3), s.ManagedJobs[0].ID)
}

func TestClusterIdentity(t *testing.T) {
	tests := []struct {
		name string
		c    Cluster
		want string
	}{
		{"cloud name", Cluster{Name: "a", UserHash: "u", ClusterNameOnCloud: "a-u-1234"}, "a-u-1234"},
		{"name and hash", Cluster{Name: "a", UserHash: "u"}, "a-u"},
		{"name", Cluster{Name: "a"}, "a"},
		{"nothing", Cluster{}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.Identity())
		})
	}
}

func TestClusterUserID(t *testing.T) {
	assert.Equal(t, "h", (&Cluster{UserHash: "h", UserName: "n"}).UserID())
	assert.Equal(t, "n", (&Cluster{UserName: "n"}).UserID())
}
