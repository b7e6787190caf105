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

	"github.com/shopspring/decimal"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
)

// Rate is an hourly on-demand price for one GPU whose type contains Match.
type Rate struct {
	Match   string
	PerHour decimal.Decimal
}

// RateTable is matched in order by case-insensitive substring; first match wins.
type RateTable []Rate

// DefaultRates lists more specific names before their prefixes.
var DefaultRates = RateTable{
	{Match: "GB200", PerHour: decimal.RequireFromString("6.00")},
	{Match: "B200", PerHour: decimal.RequireFromString("5.50")},
	{Match: "H200", PerHour: decimal.RequireFromString("4.50")},
	{Match: "H100", PerHour: decimal.RequireFromString("4.00")},
	{Match: "MI300X", PerHour: decimal.RequireFromString("3.50")},
	{Match: "A100-80GB", PerHour: decimal.RequireFromString("2.50")},
	{Match: "A100", PerHour: decimal.RequireFromString("2.00")},
	{Match: "MI250", PerHour: decimal.RequireFromString("2.00")},
	{Match: "L40S", PerHour: decimal.RequireFromString("1.50")},
	{Match: "V100", PerHour: decimal.RequireFromString("1.50")},
	{Match: "L40", PerHour: decimal.RequireFromString("1.20")},
	{Match: "A10G", PerHour: decimal.RequireFromString("1.00")},
	{Match: "A10", PerHour: decimal.RequireFromString("0.90")},
	{Match: "L4", PerHour: decimal.RequireFromString("0.70")},
	{Match: "T4", PerHour: decimal.RequireFromString("0.50")},
	{Match: "K80", PerHour: decimal.RequireFromString("0.20")},
}

// HourlyRate returns the per-GPU hourly rate for gpuType, zero when unknown.
func (t RateTable) HourlyRate(gpuType string) decimal.Decimal {
	if gpuType == "" {
		return decimal.Zero
	}
	upper := strings.ToUpper(gpuType)
	for _, r := range t {
		if strings.Contains(upper, strings.ToUpper(r.Match)) {
			return r.PerHour
		}
	}
	return decimal.Zero
}

var (
	secondsPerHour = decimal.NewFromInt(3600)
	spotMultiplier = decimal.NewFromFloat(defaults.SpotDiscount)
)

// ProportionalCost scales a recorded lifetime cost to the month's share of
// the lifetime. A non-positive lifetime attributes the whole cost.
func ProportionalCost(total float64, monthSeconds, lifetimeSeconds int64) decimal.Decimal {
	c := decimal.NewFromFloat(total)
	if lifetimeSeconds <= 0 {
		return c.Round(2)
	}
	return c.Mul(decimal.NewFromInt(monthSeconds)).
		Div(decimal.NewFromInt(lifetimeSeconds)).
		Round(2)
}

// ComputedCost prices GPU time from the rate table.
func (t RateTable) ComputedCost(gpuType string, gpusPerNode float64, nodes int, monthSeconds int64, spot bool) decimal.Decimal {
	cost := t.HourlyRate(gpuType).
		Mul(decimal.NewFromFloat(gpusPerNode)).
		Mul(decimal.NewFromInt(int64(nodes))).
		Mul(decimal.NewFromInt(monthSeconds).Div(secondsPerHour))
	if spot {
		cost = cost.Mul(spotMultiplier)
	}
	return cost.Round(2)
}

// GPUHours is gpus × seconds / 3600, rounded to 2 decimals.
func GPUHours(gpus float64, seconds int64) float64 {
	return decimal.NewFromFloat(gpus).
		Mul(decimal.NewFromInt(seconds)).
		Div(secondsPerHour).
		Round(2).
		InexactFloat64()
}
