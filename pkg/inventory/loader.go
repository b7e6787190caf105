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

package inventory

import (
	"context"
	"log/slog"

	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
	"github.com/NVIDIA/gpu-usage-insights/pkg/k8s/client"
	"github.com/NVIDIA/gpu-usage-insights/pkg/serializer"
)

// ConfigMapKey is the data key base name of inventory ConfigMaps
// (inventory.yaml or inventory.json).
const ConfigMapKey = "inventory"

// EnvInventorySource names the default inventory location.
const EnvInventorySource = "INVENTORY_SOURCE"

type loadOptions struct {
	kubeconfig string
	kubeClient client.Interface
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithKubeconfig selects the kubeconfig for cm:// sources.
func WithKubeconfig(path string) LoadOption {
	return func(o *loadOptions) {
		o.kubeconfig = path
	}
}

// WithKubeClient supplies the clientset for cm:// sources.
func WithKubeClient(c client.Interface) LoadOption {
	return func(o *loadOptions) {
		o.kubeClient = c
	}
}

// Load reads a Snapshot from a file, an http(s) URL or a ConfigMap
// (cm://namespace/name).
func Load(ctx context.Context, source string, opts ...LoadOption) (*Snapshot, error) {
	if source == "" {
		return nil, errors.New(errors.ErrCodeInvalidRequest, "inventory source is required")
	}

	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}

	readOpts := []serializer.ReadOption{
		serializer.WithConfigMapKey(ConfigMapKey),
		serializer.WithKubeconfig(o.kubeconfig),
	}
	if o.kubeClient != nil {
		readOpts = append(readOpts, serializer.WithKubeClient(o.kubeClient))
	}

	snap, err := serializer.FromSource[Snapshot](ctx, source, readOpts...)
	if err != nil {
		code := errors.CodeOf(err)
		if code == errors.ErrCodeInternal {
			code = errors.ErrCodeNotFound
		}
		return nil, errors.WrapWithContext(code, "failed to load inventory", err,
			map[string]any{"source": source})
	}

	slog.Debug("inventory loaded",
		"source", source,
		"clusters", len(snap.Clusters),
		"managedJobs", len(snap.ManagedJobs),
	)
	return snap, nil
}
