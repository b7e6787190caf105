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

import (
	"strconv"

	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
)

// jobIndex resolves the managed job, if any, that ran on a cluster.
type jobIndex struct {
	byBinding map[string]*inventory.ManagedJob
	byNameID  map[string]*inventory.ManagedJob
}

// newJobIndex indexes jobs. When several jobs share a key the earliest wins.
func newJobIndex(jobs []inventory.ManagedJob) *jobIndex {
	ix := &jobIndex{
		byBinding: make(map[string]*inventory.ManagedJob, len(jobs)),
		byNameID:  make(map[string]*inventory.ManagedJob, len(jobs)),
	}
	for i := range jobs {
		j := &jobs[i]
		if j.ClusterName != "" {
			if _, ok := ix.byBinding[j.ClusterName]; !ok {
				ix.byBinding[j.ClusterName] = j
			}
		}
		if j.Name != "" {
			key := j.Name + "-" + strconv.FormatInt(j.ID, 10)
			if _, ok := ix.byNameID[key]; !ok {
				ix.byNameID[key] = j
			}
		}
	}
	return ix
}

// match finds the job bound to the cluster by name, cloud name or hash, then
// falls back to "<jobName>-<jobId>" equal to the cluster name.
func (ix *jobIndex) match(c *inventory.Cluster) *inventory.ManagedJob {
	for _, candidate := range []string{c.Name, c.ClusterNameOnCloud, c.ClusterHash} {
		if candidate == "" {
			continue
		}
		if j, ok := ix.byBinding[candidate]; ok {
			return j
		}
	}
	if c.Name != "" {
		if j, ok := ix.byNameID[c.Name]; ok {
			return j
		}
	}
	return nil
}
