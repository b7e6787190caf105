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
	"sort"

	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
)

// Result is a user's stats with the assigned archetype.
type Result struct {
	UserStats  `json:",inline" yaml:",inline"`
	Derived    Ratios    `json:"ratios" yaml:"ratios"`
	Archetype  Archetype `json:"archetype" yaml:"archetype"`
	Confidence float64   `json:"confidence" yaml:"confidence"`
}

// Report is the archetype view for one month.
type Report struct {
	Month string            `json:"month" yaml:"month"`
	Users map[string]Result `json:"users" yaml:"users"`
	// Distribution counts users per archetype; every archetype is present.
	Distribution map[Archetype]int `json:"distribution" yaml:"distribution"`
}

// ClassifyAll aggregates records per user and classifies each user.
func ClassifyAll(records []report.Record) map[string]Result {
	users := AggregateByUser(records)
	out := make(map[string]Result, len(users))
	for id, s := range users {
		a, c := Classify(s)
		out[id] = Result{UserStats: *s, Derived: s.Ratios(), Archetype: a, Confidence: c}
	}
	return out
}

// Distribution counts results per archetype.
func Distribution(results map[string]Result) map[Archetype]int {
	d := make(map[Archetype]int, len(All))
	for _, a := range All {
		d[a] = 0
	}
	for _, r := range results {
		d[r.Archetype]++
	}
	return d
}

// Build classifies every user in records.
func Build(month string, records []report.Record) Report {
	users := ClassifyAll(records)
	return Report{
		Month:        month,
		Users:        users,
		Distribution: Distribution(users),
	}
}

// SortedUserIDs returns user ids in lexical order.
func (r *Report) SortedUserIDs() []string {
	ids := make([]string, 0, len(r.Users))
	for id := range r.Users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
