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

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	clocktesting "k8s.io/utils/clock/testing"

	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
	"github.com/NVIDIA/gpu-usage-insights/pkg/header"
	"github.com/NVIDIA/gpu-usage-insights/pkg/insights"
	"github.com/NVIDIA/gpu-usage-insights/pkg/metrics"
	"github.com/NVIDIA/gpu-usage-insights/pkg/report"
	"github.com/NVIDIA/gpu-usage-insights/pkg/server"
)

const inventoryYAML = `clusters:
  - name: train
    user_hash: alice
    user_name: Alice
    launched_at: "2024-02-01T00:00:00Z"
    ended_at: "2024-02-05T12:00:00Z"
    status: TERMINATED
    accelerators:
      H100: 1
  - name: notebook
    user_hash: bob
    launched_at: 1706745600
    duration: 7200
    status: UP
    accelerators: "{'L4': 1}"
`

// countingFetcher reports a fixed utilization and counts backend calls.
type countingFetcher struct {
	calls atomic.Int64
}

func (f *countingFetcher) Utilization(context.Context, metrics.Target, time.Time, time.Time) float64 {
	f.calls.Add(1)
	return 80
}

func (f *countingFetcher) MemoryGB(context.Context, metrics.Target, time.Time, time.Time) (float64, bool) {
	f.calls.Add(1)
	return 40, true
}

func (f *countingFetcher) PowerWatts(context.Context, metrics.Target, time.Time, time.Time) (float64, bool) {
	f.calls.Add(1)
	return 350, true
}

func writeInventory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "inventory.yaml")
	require.NoError(t, os.WriteFile(path, []byte(inventoryYAML), 0o600))
	return path
}

func newTestHandler(t *testing.T, f metrics.Fetcher) *Handler {
	t.Helper()
	clk := clocktesting.NewFakeClock(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
	engine := insights.NewEngine(
		insights.WithClock(clk),
		insights.WithLocation(time.UTC),
		insights.WithVersion("test"),
		insights.WithBuilder(report.NewBuilder(report.WithFetcher(f), report.WithClock(clk))),
	)
	return NewHandler(engine, writeInventory(t))
}

func get(t *testing.T, h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleReport(t *testing.T) {
	h := newTestHandler(t, &countingFetcher{})

	rec := get(t, h.HandleReport, "/v1/report?month=2024-02")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

	var doc struct {
		Kind     header.Kind       `json:"kind"`
		Metadata map[string]string `json:"metadata"`
		Records  []report.Record   `json:"records"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))

	assert.Equal(t, header.KindUsageReport, doc.Kind)
	assert.Equal(t, "2024-02", doc.Metadata[header.MetadataMonth])
	require.Len(t, doc.Records, 2)

	train := doc.Records[0]
	assert.Equal(t, "alice", train.UserID)
	assert.Equal(t, int64(388800), train.ExecutionSeconds)
	assert.InDelta(t, 432.00, train.CostUSD, 0.001)
	assert.InDelta(t, 80.0, train.AvgUtilization, 0.001)
}

func TestHandleDocumentKinds(t *testing.T) {
	h := newTestHandler(t, &countingFetcher{})

	tests := []struct {
		name    string
		handler http.HandlerFunc
		kind    header.Kind
		field   string
	}{
		{"summary", h.HandleSummary, header.KindUsageSummary, "summary"},
		{"archetypes", h.HandleArchetypes, header.KindArchetypeReport, "report"},
		{"guidance", h.HandleGuidance, header.KindGuidance, "suggestions"},
		{"insights", h.HandleInsights, header.KindInsightsResult, "records"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, tt.handler, "/v1/"+tt.name+"?month=2024-02")
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var doc map[string]any
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
			assert.Equal(t, string(tt.kind), doc["kind"])
			assert.Equal(t, header.APIVersion, doc["apiVersion"])
			assert.Contains(t, doc, tt.field)
		})
	}
}

func TestHandleReportDefaultsToCurrentMonth(t *testing.T) {
	h := newTestHandler(t, &countingFetcher{})

	rec := get(t, h.HandleSummary, "/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	assert.Equal(t, "2024-03", doc["metadata"].(map[string]any)[header.MetadataMonth])
}

func TestHandleReportErrors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		source     string
		wantStatus int
		wantCode   errors.ErrorCode
	}{
		{
			name:       "invalid month",
			method:     http.MethodGet,
			target:     "/v1/report?month=2024-13",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidRequest,
		},
		{
			name:       "malformed month",
			method:     http.MethodGet,
			target:     "/v1/report?month=Feb",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidRequest,
		},
		{
			name:       "invalid useCache",
			method:     http.MethodGet,
			target:     "/v1/report?useCache=maybe",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidRequest,
		},
		{
			name:       "invalid skipEnrichment",
			method:     http.MethodGet,
			target:     "/v1/report?skipEnrichment=2",
			wantStatus: http.StatusBadRequest,
			wantCode:   errors.ErrCodeInvalidRequest,
		},
		{
			name:       "missing inventory",
			method:     http.MethodGet,
			target:     "/v1/report?month=2024-02",
			source:     "/does/not/exist.yaml",
			wantStatus: http.StatusNotFound,
			wantCode:   errors.ErrCodeNotFound,
		},
		{
			name:       "wrong method",
			method:     http.MethodPost,
			target:     "/v1/report",
			wantStatus: http.StatusMethodNotAllowed,
			wantCode:   errors.ErrCodeMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, &countingFetcher{})
			if tt.source != "" {
				h.source = tt.source
			}

			rec := httptest.NewRecorder()
			h.HandleReport(rec, httptest.NewRequest(tt.method, tt.target, nil))

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())

			var resp server.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestHandleReportSkipEnrichment(t *testing.T) {
	f := &countingFetcher{}
	h := newTestHandler(t, f)

	rec := get(t, h.HandleReport, "/v1/report?month=2024-02&skipEnrichment=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Records []report.Record `json:"records"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&doc))
	require.NotEmpty(t, doc.Records)
	assert.Equal(t, report.UnknownUtilization, doc.Records[0].AvgUtilization)
	assert.Zero(t, f.calls.Load())
}

func TestHandleCacheClear(t *testing.T) {
	f := &countingFetcher{}
	h := newTestHandler(t, f)

	require.Equal(t, http.StatusOK, get(t, h.HandleReport, "/v1/report?month=2024-02").Code)
	first := f.calls.Load()
	require.Positive(t, first)

	require.Equal(t, http.StatusOK, get(t, h.HandleReport, "/v1/report?month=2024-02").Code)
	assert.Equal(t, first, f.calls.Load(), "second run should be served from cache")

	require.Equal(t, http.StatusOK, get(t, h.HandleReport, "/v1/report?month=2024-02&useCache=false").Code)
	assert.Equal(t, 2*first, f.calls.Load(), "useCache=false should bypass the cache")

	rec := httptest.NewRecorder()
	h.HandleCacheClear(rec, httptest.NewRequest(http.MethodPost, "/v1/cache/clear", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, get(t, h.HandleReport, "/v1/report?month=2024-02").Code)
	assert.Equal(t, 3*first, f.calls.Load(), "cleared cache should refetch")
}

func TestHandleCacheClearRejectsGet(t *testing.T) {
	h := newTestHandler(t, &countingFetcher{})

	rec := get(t, h.HandleCacheClear, "/v1/cache/clear")

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestRoutesServedByServer(t *testing.T) {
	h := newTestHandler(t, &countingFetcher{})
	s := server.New(server.WithHandler(h.Routes()))

	for path := range h.Routes() {
		t.Run(path, func(t *testing.T) {
			method := http.MethodGet
			if path == "/v1/cache/clear" {
				method = http.MethodPost
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, httptest.NewRequest(method, path+"?month=2024-02", nil))
			assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, "usaged", name)
	assert.Equal(t, "dev", versionDefault)
	assert.NotEmpty(t, version)
	assert.NotEmpty(t, commit)
	assert.NotEmpty(t, date)
}
