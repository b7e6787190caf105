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

package serializer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/NVIDIA/gpu-usage-insights/pkg/defaults"
	"github.com/NVIDIA/gpu-usage-insights/pkg/k8s/client"
)

// readConfigMap returns the first data entry matching the configured key and
// the format implied by its extension.
func readConfigMap(ctx context.Context, uri string, o *readOptions) ([]byte, Format, error) {
	namespace, name, err := parseConfigMapURI(uri)
	if err != nil {
		return nil, "", err
	}

	k8sClient := o.kubeClient
	if k8sClient == nil {
		if o.kubeconfig != "" {
			k8sClient, _, err = client.GetKubeClientWithConfig(o.kubeconfig)
		} else {
			k8sClient, _, err = client.GetKubeClient()
		}
		if err != nil {
			return nil, "", fmt.Errorf("failed to get kubernetes client: %w", err)
		}
	}

	readCtx, cancel := context.WithTimeout(ctx, defaults.K8sConfigMapReadTimeout)
	defer cancel()

	cm, err := k8sClient.CoreV1().ConfigMaps(namespace).Get(readCtx, name, metav1.GetOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to get ConfigMap %s/%s: %w", namespace, name, err)
	}

	for _, candidate := range []struct {
		ext    string
		format Format
	}{
		{"yaml", FormatYAML},
		{"yml", FormatYAML},
		{"json", FormatJSON},
	} {
		key := o.dataKey + "." + candidate.ext
		if data, ok := cm.Data[key]; ok {
			slog.Debug("reading from ConfigMap",
				"namespace", namespace,
				"name", name,
				"key", key,
				"size", len(data))
			return []byte(data), candidate.format, nil
		}
	}

	return nil, "", fmt.Errorf("ConfigMap %s/%s has no %s.yaml or %s.json data", namespace, name, o.dataKey, o.dataKey)
}

// parseConfigMapURI parses a ConfigMap URI into namespace and name components.
// Expected format: cm://namespace/name
func parseConfigMapURI(uri string) (namespace, name string, err error) {
	if !strings.HasPrefix(uri, ConfigMapURIScheme) {
		return "", "", fmt.Errorf("invalid ConfigMap URI: must start with %s", ConfigMapURIScheme)
	}

	path := strings.TrimPrefix(uri, ConfigMapURIScheme)

	parts := strings.SplitN(path, "/", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid ConfigMap URI format: expected %snamespace/name, got %s", ConfigMapURIScheme, uri)
	}

	namespace = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])

	if namespace == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: namespace cannot be empty")
	}
	if name == "" {
		return "", "", fmt.Errorf("invalid ConfigMap URI: name cannot be empty")
	}

	return namespace, name, nil
}
