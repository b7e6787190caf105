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
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
	"github.com/NVIDIA/gpu-usage-insights/pkg/header"
	"github.com/NVIDIA/gpu-usage-insights/pkg/insights"
	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
	"github.com/NVIDIA/gpu-usage-insights/pkg/k8s/client"
	"github.com/NVIDIA/gpu-usage-insights/pkg/serializer"
)

// reportFlags returns the flags shared by every document command.
func reportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "inventory",
			Aliases: []string{"i"},
			Sources: cli.EnvVars(inventory.EnvInventorySource),
			Usage: `Path/URI to the cluster inventory.
	Supports: file paths, HTTP/HTTPS URLs, or ConfigMap URIs (cm://namespace/name).`,
		},
		&cli.StringFlag{
			Name:    "month",
			Aliases: []string{"m"},
			Usage:   "Report month as YYYY-MM (default: current month)",
		},
		&cli.StringFlag{
			Name:    "prometheus-url",
			Sources: cli.EnvVars(insights.EnvPrometheusURL),
			Usage:   "Prometheus base URL for utilization, memory and power (enrichment is skipped when empty)",
		},
		&cli.StringFlag{
			Name:    "kubeconfig",
			Sources: cli.EnvVars(client.EnvKubeconfig),
			Usage:   "Path to kubeconfig for ConfigMap inventory sources",
		},
		&cli.StringFlag{
			Name:    "timezone",
			Sources: cli.EnvVars(insights.EnvTimezone),
			Usage:   "IANA timezone for month boundaries (default: local)",
		},
		&cli.BoolFlag{
			Name:  "no-cache",
			Usage: "Do not read or write the metric cache",
		},
		&cli.BoolFlag{
			Name:  "skip-enrichment",
			Usage: "Skip metric queries; utilization is reported as unknown",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: defaults.EnrichmentConcurrency,
			Usage: "Maximum records processed in parallel",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"t"},
			Value:   string(serializer.FormatYAML),
			Usage:   fmt.Sprintf("Output format (supported values: %v)", serializer.SupportedFormats()),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Sources: cli.EnvVars("LOG_LEVEL"),
			Usage:   "Log level (debug, info, warn, error)",
		},
	}
}

func reportCmd() *cli.Command {
	return documentCmd("report", header.KindUsageReport,
		"Generate the monthly usage report",
		`Builds one record per cluster or managed job whose lifetime overlaps the month.
Cost is the month's proportional share of the recorded cost, or rate x GPUs x hours
when none is recorded. Records are enriched with utilization, p95 memory and power.

Example:
  usagectl report --inventory clusters.yaml --month 2024-02 --format table`)
}

func summaryCmd() *cli.Command {
	return documentCmd("summary", header.KindUsageSummary,
		"Summarize the monthly usage report",
		`Aggregates the month's records into totals and ratios: cost, GPU hours,
execution, idle and queue time, job mix and success rate.

Example:
  usagectl summary --inventory cm://gpu-insights/inventory --month 2024-02`)
}

func archetypesCmd() *cli.Command {
	return documentCmd("archetypes", header.KindArchetypeReport,
		"Classify users into usage archetypes",
		`Aggregates records per user and assigns one archetype with a confidence:
Interactive Developer, Batch Trainer, Cost Optimizer, Resource Hog
or Waiting User.

Example:
  usagectl archetypes --inventory clusters.yaml --prometheus-url http://prometheus:9090`)
}

func guidanceCmd() *cli.Command {
	return documentCmd("guidance", header.KindGuidance,
		"Generate per-user advice and platform suggestions",
		`Produces advice for each classified user and prioritized suggestions for
the platform as a whole.

Example:
  usagectl guidance --inventory clusters.yaml --month 2024-02 --format json`)
}

func insightsCmd() *cli.Command {
	return documentCmd("insights", header.KindInsightsResult,
		"Generate every document in one run",
		`Runs the whole pipeline once and writes the report, summary, archetypes
and guidance together.

Example:
  usagectl insights --inventory clusters.yaml --output insights.yaml`)
}

func documentCmd(cmdName string, kind header.Kind, usage, description string) *cli.Command {
	return &cli.Command{
		Name:                  cmdName,
		EnableShellCompletion: true,
		Usage:                 usage,
		Description:           description,
		Flags:                 reportFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			initLogger(cmd)
			return runDocument(ctx, cmd, kind)
		},
	}
}

func runDocument(ctx context.Context, cmd *cli.Command, kind header.Kind) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	source := cmd.String("inventory")
	if source == "" {
		return fmt.Errorf("--inventory is required (or set %s)", inventory.EnvInventorySource)
	}

	ctx, cancel := context.WithTimeout(ctx, defaults.CLIReportTimeout)
	defer cancel()

	snap, err := inventory.Load(ctx, source, inventory.WithKubeconfig(cmd.String("kubeconfig")))
	if err != nil {
		return fmt.Errorf("failed to load inventory from %q: %w", source, err)
	}

	engine, err := insights.Config{
		PrometheusURL: cmd.String("prometheus-url"),
		Timezone:      cmd.String("timezone"),
		Concurrency:   int(cmd.Int("concurrency")),
		Version:       version,
	}.NewEngine()
	if err != nil {
		return fmt.Errorf("failed to configure report engine: %w", err)
	}

	res, err := engine.Generate(ctx, insights.Request{
		Snapshot:       snap,
		Month:          cmd.String("month"),
		UseCache:       !cmd.Bool("no-cache"),
		SkipEnrichment: cmd.Bool("skip-enrichment"),
	})
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", kind, err)
	}

	var doc any
	if outFormat == serializer.FormatTable {
		doc, err = res.Table(kind)
	} else {
		doc, err = res.Document(kind)
	}
	if err != nil {
		return err
	}

	ser := serializer.NewFileWriterOrStdout(outFormat, cmd.String("output"))
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, doc)
}
