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

// Package cli implements the usagectl command-line interface.
//
// # Commands
//
// Every command runs the same pipeline and writes one document kind:
//
//	usagectl report     --inventory clusters.yaml --month 2024-02
//	usagectl summary    --inventory clusters.yaml --month 2024-02
//	usagectl archetypes --inventory clusters.yaml --prometheus-url http://prometheus:9090
//	usagectl guidance   --inventory cm://gpu-insights/inventory
//	usagectl insights   --inventory https://inventory.example.com/clusters.json
//
// # Flags
//
//	--inventory, -i     Inventory file, http(s) URL or cm://namespace/name (env INVENTORY_SOURCE)
//	--month, -m         Report month as YYYY-MM (default: current month)
//	--prometheus-url    Metrics backend (env PROMETHEUS_URL); enrichment is skipped when empty
//	--kubeconfig        Kubeconfig for ConfigMap sources (env KUBECONFIG)
//	--timezone          IANA zone for month boundaries (env REPORT_TIMEZONE)
//	--no-cache          Do not read or write the metric cache
//	--skip-enrichment   Skip metric queries entirely
//	--concurrency       Records processed in parallel (default 16)
//	--output, -o        Output file path (default: stdout)
//	--format, -t        Output format: yaml, json, table (default: yaml)
//	--log-level         debug, info, warn, error (env LOG_LEVEL)
//
// Table output renders one row per record for the report, one row per
// user for archetypes and one row per advice item for guidance.
//
// # Exit Codes
//
//	0  Success
//	1  General error (invalid arguments, execution failure)
//	2  Context canceled or timeout
//
// Version information is embedded at build time using ldflags:
//
//	go build -ldflags="-X 'github.com/NVIDIA/gpu-usage-insights/pkg/cli.version=1.0.0'"
package cli
