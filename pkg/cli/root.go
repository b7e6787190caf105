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
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gpu-usage-insights/pkg/logging"
	"github.com/NVIDIA/gpu-usage-insights/pkg/serializer"
)

const (
	name           = "usagectl"
	versionDefault = "dev"
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitError    = 1
	exitCanceled = 2
)

// Execute runs the CLI and exits on error. It is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			os.Exit(exitCanceled)
		}
		os.Exit(exitError)
	}
}

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		EnableShellCompletion: true,
		Usage:                 "GPU usage report and user archetype classifier",
		Description: `Builds a month-scoped GPU usage report from a cluster inventory,
optionally enriched with utilization, memory and power from Prometheus,
then classifies each user into a usage archetype with guidance.

report     - one record per cluster or job overlapping the month
summary    - platform totals and ratios
archetypes - per-user archetype with confidence
guidance   - per-user advice and platform suggestions
insights   - everything above in one document`,
		Commands: []*cli.Command{
			reportCmd(),
			summaryCmd(),
			archetypesCmd(),
			guidanceCmd(),
			insightsCmd(),
		},
	}
}

// initLogger configures slog once flags are parsed so --log-level applies.
func initLogger(cmd *cli.Command) {
	level := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, level)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", level)
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	outFormat := serializer.Format(cmd.String("format"))
	if outFormat.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q, supported values: %v",
			outFormat, serializer.SupportedFormats())
	}
	return outFormat, nil
}
