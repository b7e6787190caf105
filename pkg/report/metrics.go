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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	recordsBuilt = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gpuinsights_report_records_built_total",
			Help: "Total number of month-scoped report records built",
		},
	)

	recordsExcluded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gpuinsights_report_records_excluded_total",
			Help: "Total number of source records outside the target month or without a launch time",
		},
	)

	recordsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gpuinsights_report_records_dropped_total",
			Help: "Total number of source records dropped after a processing failure",
		},
	)

	buildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gpuinsights_report_build_duration_seconds",
			Help:    "Duration of a full report build in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)
)
