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
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
	"github.com/NVIDIA/gpu-usage-insights/pkg/header"
	"github.com/NVIDIA/gpu-usage-insights/pkg/insights"
	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
	"github.com/NVIDIA/gpu-usage-insights/pkg/serializer"
	"github.com/NVIDIA/gpu-usage-insights/pkg/server"
)

// Query parameters accepted by the report endpoints.
const (
	paramMonth          = "month"
	paramUseCache       = "useCache"
	paramSkipEnrichment = "skipEnrichment"
)

// Handler serves insights documents. Inventory is re-read on every request.
type Handler struct {
	engine   *insights.Engine
	source   string
	loadOpts []inventory.LoadOption
}

// NewHandler creates a Handler that loads inventory from source.
func NewHandler(engine *insights.Engine, source string, opts ...inventory.LoadOption) *Handler {
	return &Handler{
		engine:   engine,
		source:   source,
		loadOpts: opts,
	}
}

// Routes returns the API routes keyed by path.
func (h *Handler) Routes() map[string]http.HandlerFunc {
	return map[string]http.HandlerFunc{
		"/v1/report":      h.HandleReport,
		"/v1/summary":     h.HandleSummary,
		"/v1/archetypes":  h.HandleArchetypes,
		"/v1/guidance":    h.HandleGuidance,
		"/v1/insights":    h.HandleInsights,
		"/v1/cache/clear": h.HandleCacheClear,
	}
}

// HandleReport handles GET /v1/report.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, header.KindUsageReport)
}

// HandleSummary handles GET /v1/summary.
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, header.KindUsageSummary)
}

// HandleArchetypes handles GET /v1/archetypes.
func (h *Handler) HandleArchetypes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, header.KindArchetypeReport)
}

// HandleGuidance handles GET /v1/guidance.
func (h *Handler) HandleGuidance(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, header.KindGuidance)
}

// HandleInsights handles GET /v1/insights.
func (h *Handler) HandleInsights(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, header.KindInsightsResult)
}

// HandleCacheClear handles POST /v1/cache/clear.
func (h *Handler) HandleCacheClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodPost},
			})
		return
	}

	h.engine.ClearCache()

	serializer.RespondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (h *Handler) serve(w http.ResponseWriter, r *http.Request, kind header.Kind) {
	ctx, cancel := context.WithTimeout(r.Context(), defaults.ReportHandlerTimeout)
	defer cancel()

	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		server.WriteError(w, r, http.StatusMethodNotAllowed, errors.ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]any{
				"method":  r.Method,
				"allowed": []string{http.MethodGet},
			})
		return
	}

	req, err := parseRequest(r)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Invalid report query", nil)
		return
	}

	slog.Debug("report request",
		"kind", kind,
		"month", req.Month,
		"useCache", req.UseCache,
		"skipEnrichment", req.SkipEnrichment,
	)

	snap, err := inventory.Load(ctx, h.source, h.loadOpts...)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to load inventory", map[string]any{
			"source": h.source,
		})
		return
	}
	req.Snapshot = snap

	buildCtx, buildCancel := context.WithTimeout(ctx, defaults.ReportBuildTimeout)
	defer buildCancel()

	res, err := h.engine.Generate(buildCtx, req)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to generate report", nil)
		return
	}

	doc, err := res.Document(kind)
	if err != nil {
		server.WriteErrorFromErr(w, r, err, "Failed to render report", nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	serializer.RespondJSON(w, http.StatusOK, doc)
}

// parseRequest reads month, useCache (default true) and skipEnrichment
// (default false) from the query string.
func parseRequest(r *http.Request) (insights.Request, error) {
	q := r.URL.Query()
	req := insights.Request{
		Month:    q.Get(paramMonth),
		UseCache: true,
	}

	var err error
	if req.UseCache, err = boolParam(q.Get(paramUseCache), true, paramUseCache); err != nil {
		return req, err
	}
	if req.SkipEnrichment, err = boolParam(q.Get(paramSkipEnrichment), false, paramSkipEnrichment); err != nil {
		return req, err
	}
	return req, nil
}

func boolParam(v string, def bool, name string) (bool, error) {
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errors.Wrap(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid %s value %q", name, v), err)
	}
	return b, nil
}
