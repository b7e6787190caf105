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

package insights

import (
	"fmt"

	"github.com/NVIDIA/gpu-usage-insights/pkg/archetype"
	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
	"github.com/NVIDIA/gpu-usage-insights/pkg/guidance"
	"github.com/NVIDIA/gpu-usage-insights/pkg/header"
	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
	"github.com/NVIDIA/gpu-usage-insights/pkg/summary"
)

// Result is the complete output of one pipeline run.
type Result struct {
	header.Header `json:",inline" yaml:",inline"`

	Month       string                  `json:"month" yaml:"month"`
	Records     []report.Record         `json:"records" yaml:"records"`
	Summary     summary.Summary         `json:"summary" yaml:"summary"`
	Archetypes  archetype.Report        `json:"archetypes" yaml:"archetypes"`
	Users       []guidance.UserGuidance `json:"users" yaml:"users"`
	Platform    guidance.PlatformStats  `json:"platform" yaml:"platform"`
	Suggestions []guidance.Suggestion   `json:"suggestions" yaml:"suggestions"`
}

// UsageReport is the monthly report document.
type UsageReport struct {
	header.Header `json:",inline" yaml:",inline"`
	Records       []report.Record `json:"records" yaml:"records"`
}

// UsageSummary is the platform summary document.
type UsageSummary struct {
	header.Header `json:",inline" yaml:",inline"`
	Summary       summary.Summary `json:"summary" yaml:"summary"`
}

// ArchetypeReport is the per-user classification document.
type ArchetypeReport struct {
	header.Header `json:",inline" yaml:",inline"`
	Report        archetype.Report `json:"report" yaml:"report"`
}

// Guidance is the advisory document.
type Guidance struct {
	header.Header `json:",inline" yaml:",inline"`
	Users         []guidance.UserGuidance `json:"users" yaml:"users"`
	Platform      guidance.PlatformStats  `json:"platform" yaml:"platform"`
	Suggestions   []guidance.Suggestion   `json:"suggestions" yaml:"suggestions"`
}

// Kinds lists the document kinds a Result can project to.
var Kinds = []header.Kind{
	header.KindUsageReport,
	header.KindUsageSummary,
	header.KindArchetypeReport,
	header.KindGuidance,
	header.KindInsightsResult,
}

// Document projects the result onto a single document kind. The projection
// shares the run id and timestamp of the result.
func (r *Result) Document(kind header.Kind) (any, error) {
	h := r.Header
	h.Kind = kind
	h.Metadata = make(map[string]string, len(r.Metadata))
	for k, v := range r.Metadata {
		h.Metadata[k] = v
	}

	switch kind {
	case header.KindUsageReport:
		return &UsageReport{Header: h, Records: r.Records}, nil
	case header.KindUsageSummary:
		return &UsageSummary{Header: h, Summary: r.Summary}, nil
	case header.KindArchetypeReport:
		return &ArchetypeReport{Header: h, Report: r.Archetypes}, nil
	case header.KindGuidance:
		return &Guidance{Header: h, Users: r.Users, Platform: r.Platform, Suggestions: r.Suggestions}, nil
	case header.KindInsightsResult:
		return r, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidRequest, fmt.Sprintf("unknown document kind %q", kind))
	}
}

// Table returns the row-oriented view of a document kind for table output.
func (r *Result) Table(kind header.Kind) (any, error) {
	switch kind {
	case header.KindUsageReport:
		return r.Records, nil
	case header.KindUsageSummary:
		return r.Summary, nil
	case header.KindArchetypeReport:
		rows := make([]ArchetypeRow, 0, len(r.Archetypes.Users))
		for _, id := range r.Archetypes.SortedUserIDs() {
			u := r.Archetypes.Users[id]
			rows = append(rows, ArchetypeRow{
				User:           id,
				Archetype:      string(u.Archetype),
				Confidence:     fmt.Sprintf("%.2f", u.Confidence),
				Jobs:           u.TotalJobs,
				CostUSD:        fmt.Sprintf("%.2f", u.TotalCostUSD),
				AvgUtilization: fmt.Sprintf("%.1f", u.Derived.AvgUtilization),
			})
		}
		return rows, nil
	case header.KindGuidance:
		var rows []AdviceRow
		for _, u := range r.Users {
			for _, a := range u.Advice {
				rows = append(rows, AdviceRow{User: u.UserID, Severity: string(a.Severity), Title: a.Title, Command: a.Command})
			}
		}
		for _, s := range r.Suggestions {
			rows = append(rows, AdviceRow{User: "*", Severity: string(s.Severity), Title: s.Title})
		}
		if rows == nil {
			rows = []AdviceRow{}
		}
		return rows, nil
	default:
		return r.Document(kind)
	}
}

// ArchetypeRow is one user in table output.
type ArchetypeRow struct {
	User           string
	Archetype      string
	Confidence     string
	Jobs           int
	CostUSD        string
	AvgUtilization string
}

// AdviceRow is one advisory item in table output; platform suggestions use
// user "*".
type AdviceRow struct {
	User     string
	Severity string
	Title    string
	Command  string
}
