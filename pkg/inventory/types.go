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
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Snapshot is the inbound data set: cluster/job records plus the optional
// managed-job records used to tell batch jobs from interactive sessions.
type Snapshot struct {
	Clusters    []Cluster    `json:"clusters" yaml:"clusters"`
	ManagedJobs []ManagedJob `json:"managed_jobs,omitempty" yaml:"managed_jobs,omitempty"`
}

// Cluster is a single cluster or job execution record as reported by the
// inventory source. Records are read-only; the report builder never mutates them.
type Cluster struct {
	Name               string `json:"name" yaml:"name"`
	ClusterHash        string `json:"cluster_hash,omitempty" yaml:"cluster_hash,omitempty"`
	ClusterNameOnCloud string `json:"cluster_name_on_cloud,omitempty" yaml:"cluster_name_on_cloud,omitempty"`

	UserHash  string `json:"user_hash,omitempty" yaml:"user_hash,omitempty"`
	UserName  string `json:"user_name,omitempty" yaml:"user_name,omitempty"`
	Workspace string `json:"workspace,omitempty" yaml:"workspace,omitempty"`

	LaunchedAt  *Timestamp `json:"launched_at,omitempty" yaml:"launched_at,omitempty"`
	EndedAt     *Timestamp `json:"ended_at,omitempty" yaml:"ended_at,omitempty"`
	SubmittedAt *Timestamp `json:"submitted_at,omitempty" yaml:"submitted_at,omitempty"`

	// Duration is the total lifetime in seconds when no explicit end is known.
	Duration *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	// QueueTime is an explicit queue wait in seconds, used when no
	// submission timestamp exists.
	QueueTime *float64 `json:"queue_time,omitempty" yaml:"queue_time,omitempty"`

	Status string `json:"status,omitempty" yaml:"status,omitempty"`

	// Accelerators is either a mapping of GPU type to count or a string
	// encoding one, e.g. "{'H100': 8}".
	Accelerators any    `json:"accelerators,omitempty" yaml:"accelerators,omitempty"`
	ResourcesStr string `json:"resources_str,omitempty" yaml:"resources_str,omitempty"`
	NumNodes     *int   `json:"num_nodes,omitempty" yaml:"num_nodes,omitempty"`

	UseSpot       bool     `json:"use_spot,omitempty" yaml:"use_spot,omitempty"`
	TotalCost     *float64 `json:"total_cost,omitempty" yaml:"total_cost,omitempty"`
	RecoveryCount int      `json:"recovery_count,omitempty" yaml:"recovery_count,omitempty"`
}

// Identity returns the most specific stable name for the cluster: the
// cloud-assigned name, then name-userHash, then the bare name, then "unknown".
func (c *Cluster) Identity() string {
	switch {
	case c.ClusterNameOnCloud != "":
		return c.ClusterNameOnCloud
	case c.Name != "" && c.UserHash != "":
		return c.Name + "-" + c.UserHash
	case c.Name != "":
		return c.Name
	default:
		return "unknown"
	}
}

// UserID returns the owning user identity, falling back to the display name.
func (c *Cluster) UserID() string {
	if c.UserHash != "" {
		return c.UserHash
	}
	return c.UserName
}

// ManagedJob is a job submitted through the batch execution mode.
type ManagedJob struct {
	ID   int64  `json:"job_id" yaml:"job_id"`
	Name string `json:"job_name,omitempty" yaml:"job_name,omitempty"`
	// ClusterName is the explicit binding to the cluster running the job.
	ClusterName string `json:"cluster_name,omitempty" yaml:"cluster_name,omitempty"`
	Status      string `json:"status,omitempty" yaml:"status,omitempty"`
}

// Timestamp is a point in time decoded from either Unix seconds (integer or
// fractional) or an RFC3339 string.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t}
}

// UnixTimestamp builds a Timestamp from Unix seconds.
func UnixTimestamp(sec float64) *Timestamp {
	return &Timestamp{Time: fromUnixSeconds(sec)}
}

// MarshalJSON encodes the timestamp as RFC3339 with nanoseconds.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(t.UTC().Format(time.RFC3339Nano))), nil
}

// UnmarshalJSON accepts a JSON number of Unix seconds or an RFC3339 string.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = unquoted
	}
	parsed, err := parseTimestamp(raw)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalYAML encodes the timestamp as RFC3339 with nanoseconds.
func (t Timestamp) MarshalYAML() (any, error) {
	return t.UTC().Format(time.RFC3339Nano), nil
}

// UnmarshalYAML accepts a scalar of Unix seconds or an RFC3339 string.
func (t *Timestamp) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("timestamp must be a scalar, got kind %d", node.Kind)
	}
	if node.Tag == "!!null" || node.Value == "" {
		return nil
	}
	parsed, err := parseTimestamp(node.Value)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if sec, err := strconv.ParseFloat(raw, 64); err == nil {
		return fromUnixSeconds(sec), nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q: want unix seconds or RFC3339", raw)
}

func fromUnixSeconds(sec float64) time.Time {
	whole := int64(sec)
	frac := sec - float64(whole)
	return time.Unix(whole, int64(frac*float64(time.Second)))
}
