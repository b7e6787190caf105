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

package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/gpu-usage-insights/pkg/header"
)

const testInventory = `{
  "clusters": [
    {
      "name": "train",
      "user_hash": "alice",
      "launched_at": "2024-02-01T00:00:00Z",
      "ended_at": "2024-02-05T12:00:00Z",
      "status": "TERMINATED",
      "accelerators": {"H100": 1}
    },
    {
      "name": "dev",
      "user_hash": "bob",
      "launched_at": 1706745600,
      "duration": 3600,
      "status": "UP",
      "use_spot": true,
      "accelerators": "{'L4': 1}"
    }
  ]
}`

func writeTestInventory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.json")
	require.NoError(t, os.WriteFile(path, []byte(testInventory), 0o600))
	return path
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	return newRootCmd().Run(context.Background(), append([]string{name}, args...))
}

func TestDocumentCommands(t *testing.T) {
	inv := writeTestInventory(t)

	tests := []struct {
		command string
		kind    header.Kind
		field   string
	}{
		{"report", header.KindUsageReport, "records"},
		{"summary", header.KindUsageSummary, "summary"},
		{"archetypes", header.KindArchetypeReport, "report"},
		{"guidance", header.KindGuidance, "suggestions"},
		{"insights", header.KindInsightsResult, "archetypes"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), tt.command+".json")

			err := runCLI(t, tt.command,
				"--inventory", inv,
				"--month", "2024-02",
				"--timezone", "UTC",
				"--format", "json",
				"--output", out,
			)
			require.NoError(t, err)

			b, err := os.ReadFile(out)
			require.NoError(t, err)

			var doc map[string]any
			require.NoError(t, json.Unmarshal(b, &doc))
			assert.Equal(t, string(tt.kind), doc["kind"])
			assert.Equal(t, header.APIVersion, doc["apiVersion"])
			assert.Contains(t, doc, tt.field)

			meta, ok := doc["metadata"].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, "2024-02", meta[header.MetadataMonth])
		})
	}
}

func TestReportCommandValues(t *testing.T) {
	inv := writeTestInventory(t)
	out := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, runCLI(t, "report",
		"--inventory", inv,
		"--month", "2024-02",
		"--timezone", "UTC",
		"--format", "json",
		"--output", out,
	))

	b, err := os.ReadFile(out)
	require.NoError(t, err)

	var doc struct {
		Records []struct {
			UserID           string  `json:"userId"`
			CostUSD          float64 `json:"costUsd"`
			ExecutionSeconds int64   `json:"executionSeconds"`
			PricingClass     string  `json:"pricingClass"`
		} `json:"records"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Len(t, doc.Records, 2)

	assert.Equal(t, "alice", doc.Records[0].UserID)
	assert.Equal(t, int64(388800), doc.Records[0].ExecutionSeconds)
	assert.InDelta(t, 432.00, doc.Records[0].CostUSD, 0.001)

	assert.Equal(t, "bob", doc.Records[1].UserID)
	assert.Equal(t, "Spot", doc.Records[1].PricingClass)
}

func TestTableOutput(t *testing.T) {
	inv := writeTestInventory(t)
	out := filepath.Join(t.TempDir(), "archetypes.txt")

	require.NoError(t, runCLI(t, "archetypes",
		"--inventory", inv,
		"--month", "2024-02",
		"--timezone", "UTC",
		"--format", "table",
		"--output", out,
	))

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "alice")
	assert.Contains(t, string(b), "bob")
}

func TestDocumentCommandErrors(t *testing.T) {
	inv := writeTestInventory(t)

	tests := []struct {
		name string
		args []string
	}{
		{"missing inventory flag", []string{"report", "--month", "2024-02"}},
		{"unknown format", []string{"report", "--inventory", inv, "--format", "xml"}},
		{"invalid month", []string{"report", "--inventory", inv, "--month", "2024-13"}},
		{"invalid timezone", []string{"report", "--inventory", inv, "--timezone", "Nowhere/City"}},
		{"missing inventory file", []string{"report", "--inventory", filepath.Join(t.TempDir(), "missing.json")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("INVENTORY_SOURCE", "")
			assert.Error(t, runCLI(t, tt.args...))
		})
	}
}
