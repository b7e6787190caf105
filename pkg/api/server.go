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
	"log/slog"
	"os"

	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
	"github.com/NVIDIA/gpu-usage-insights/pkg/insights"
	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
	"github.com/NVIDIA/gpu-usage-insights/pkg/k8s/client"
	"github.com/NVIDIA/gpu-usage-insights/pkg/logging"
	"github.com/NVIDIA/gpu-usage-insights/pkg/server"
)

const (
	name           = "usaged"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags to reflect actual version info
	// e.g., -X "github.com/NVIDIA/gpu-usage-insights/pkg/api.version=1.0.0"
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Serve starts the API server and blocks until shutdown.
func Serve() error {
	ctx := context.Background()

	logging.SetDefaultStructuredLogger(name, version)
	slog.Info("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
	)

	source := os.Getenv(inventory.EnvInventorySource)
	if source == "" {
		err := errors.New(errors.ErrCodeInvalidRequest, inventory.EnvInventorySource+" is required")
		slog.Error("invalid configuration", "error", err)
		return err
	}

	cfg := insights.ConfigFromEnv(version)
	engine, err := cfg.NewEngine()
	if err != nil {
		slog.Error("failed to create engine", "error", err)
		return err
	}

	slog.Info("engine configured",
		"inventory", source,
		"prometheus", cfg.PrometheusURL,
		"timezone", cfg.Timezone,
	)

	h := NewHandler(engine, source, inventory.WithKubeconfig(os.Getenv(client.EnvKubeconfig)))

	s := server.New(
		server.WithName(name),
		server.WithVersion(version),
		server.WithHandler(h.Routes()),
	)

	if err := s.Run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		return err
	}

	return nil
}
