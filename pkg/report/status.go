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
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Normalized status vocabulary.
const (
	StatusPending    = "Pending"
	StatusRunning    = "Running"
	StatusCancelling = "Cancelling"
	StatusSucceeded  = "Succeeded"
	StatusCancelled  = "Cancelled"
	StatusFailed     = "Failed"
	StatusStopped    = "Stopped"
	StatusUnknown    = "Unknown"
)

var titleCaser = cases.Title(language.English)

// NormalizeJobStatus maps a managed-job status onto the normalized vocabulary.
// Unrecognized statuses are title-cased with underscores as spaces.
func NormalizeJobStatus(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	switch {
	case s == "":
		return StatusUnknown
	case s == "PENDING", s == "SUBMITTED", s == "STARTING":
		return StatusPending
	case s == "RUNNING", s == "RECOVERING":
		return StatusRunning
	case s == "CANCELLING":
		return StatusCancelling
	case s == "SUCCEEDED":
		return StatusSucceeded
	case s == "CANCELLED":
		return StatusCancelled
	case strings.HasPrefix(s, "FAILED"):
		return StatusFailed
	default:
		return titleCaser.String(strings.ReplaceAll(strings.ToLower(s), "_", " "))
	}
}

// NormalizeClusterStatus maps a bare cluster status onto the normalized
// vocabulary.
func NormalizeClusterStatus(status string) string {
	switch strings.ToUpper(strings.TrimSpace(status)) {
	case "RUNNING":
		return StatusRunning
	case "STOPPED":
		return StatusStopped
	case "TERMINATED":
		return StatusSucceeded
	case "LAUNCHING":
		return StatusPending
	default:
		return StatusUnknown
	}
}

// IsTerminal reports whether a normalized status is final.
func IsTerminal(status string) bool {
	switch status {
	case StatusSucceeded, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}
