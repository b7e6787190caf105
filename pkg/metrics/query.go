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

package metrics

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/NVIDIA/gpu-usage-insights/pkg/resources"
)

// Aggregation selects how a raw series expression is reduced across GPUs.
type Aggregation string

const (
	AggregationAvg Aggregation = "avg"
	AggregationP95 Aggregation = "p95"
	AggregationMax Aggregation = "max"
	AggregationMin Aggregation = "min"
)

// Wrap applies the aggregation to a PromQL expression.
func (a Aggregation) Wrap(query string) string {
	switch a {
	case AggregationP95:
		return fmt.Sprintf("quantile(0.95, %s)", query)
	case AggregationMax:
		return fmt.Sprintf("max(%s)", query)
	case AggregationMin:
		return fmt.Sprintf("min(%s)", query)
	default:
		return fmt.Sprintf("avg(%s)", query)
	}
}

// Family is a fetchable metric family.
type Family string

const (
	// FamilyUtilization is GPU busy percentage.
	FamilyUtilization Family = "utilization"
	// FamilyMemory is framebuffer memory in use, in bytes.
	FamilyMemory Family = "memory"
	// FamilyPower is board power draw in watts.
	FamilyPower Family = "power"
)

// Vendor selects the exporter naming convention for a GPU type.
type Vendor string

const (
	VendorNVIDIA Vendor = "nvidia"
	VendorAMD    Vendor = "amd"
)

// VendorFor classifies gpuType; only MI-prefixed parts are AMD.
func VendorFor(gpuType string) Vendor {
	if resources.IsAMD(gpuType) {
		return VendorAMD
	}
	return VendorNVIDIA
}

// Templates maps vendor and family to a PromQL series selector. Each
// template carries one %s verb that receives the sanitized workload prefix.
type Templates map[Vendor]map[Family]string

// DefaultTemplates targets the DCGM exporter for NVIDIA and the AMD device
// metrics exporter for AMD. Memory expressions are normalized to bytes.
func DefaultTemplates() Templates {
	return Templates{
		VendorNVIDIA: {
			FamilyUtilization: `DCGM_FI_DEV_GPU_UTIL{exported_pod=~"%s.*"}`,
			FamilyMemory:      `DCGM_FI_DEV_FB_USED{exported_pod=~"%s.*"} * 1048576`,
			FamilyPower:       `DCGM_FI_DEV_POWER_USAGE{exported_pod=~"%s.*"}`,
		},
		VendorAMD: {
			FamilyUtilization: `gpu_gfx_activity{pod=~"%s.*"}`,
			FamilyMemory:      `gpu_used_vram{pod=~"%s.*"} * 1048576`,
			FamilyPower:       `gpu_power_usage{pod=~"%s.*"}`,
		},
	}
}

// Expression renders the series expression for family on the given target.
func (t Templates) Expression(vendor Vendor, family Family, identity string) string {
	byFamily, ok := t[vendor]
	if !ok {
		byFamily = DefaultTemplates()[vendor]
	}
	tmpl, ok := byFamily[family]
	if !ok {
		tmpl = DefaultTemplates()[vendor][family]
	}
	return fmt.Sprintf(tmpl, SanitizeIdentity(identity))
}

var separatorRun = regexp.MustCompile(`[^a-z0-9]+`)

// SanitizeIdentity case-folds identity and collapses every run of
// non-alphanumeric characters into a single '-', matching how workload
// (pod) names are derived from cluster names.
func SanitizeIdentity(identity string) string {
	s := separatorRun.ReplaceAllString(strings.ToLower(identity), "-")
	return strings.Trim(s, "-")
}
