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

package resources

import (
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	nodeCountPattern = regexp.MustCompile(`^\s*(\d+)\s*x\s*\(`)
	gpuTokenPattern  = regexp.MustCompile(`gpus=([^:,\s()]+):(\d+(?:\.\d+)?)`)
	pythonTokens     = strings.NewReplacer("None", "null", "True", "true", "False", "false")
)

// GPUInfo is the canonical accelerator tuple for one node.
// An empty Type means no accelerator could be identified.
type GPUInfo struct {
	Type  string  `json:"type,omitempty" yaml:"type,omitempty"`
	Count float64 `json:"count" yaml:"count"`
}

// IsZero reports whether no accelerator was found.
func (g GPUInfo) IsZero() bool {
	return g.Type == "" && g.Count == 0
}

// ExtractNodeCount returns explicit when set, otherwise the N of a leading
// "<N>x(" in descriptor, otherwise 1.
func ExtractNodeCount(descriptor string, explicit *int) int {
	if explicit != nil {
		return *explicit
	}
	m := nodeCountPattern.FindStringSubmatch(descriptor)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n
}

// ExtractGPUInfo returns the first (type, count) pair from accelerators, or
// from a gpus=<type>:<count> token in descriptor, or the zero GPUInfo.
func ExtractGPUInfo(accelerators any, descriptor string) GPUInfo {
	if info, ok := fromStructured(accelerators); ok {
		return info
	}
	if info, ok := fromDescriptor(descriptor); ok {
		return info
	}
	return GPUInfo{}
}

// IsAMD reports whether gpuType names an AMD Instinct part (MI250, MI300X, ...).
// Everything else is treated as NVIDIA-class.
func IsAMD(gpuType string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(gpuType)), "MI")
}

func fromStructured(accelerators any) (GPUInfo, bool) {
	switch v := accelerators.(type) {
	case nil:
		return GPUInfo{}, false
	case map[string]any:
		return firstSorted(v)
	case map[string]float64:
		m := make(map[string]any, len(v))
		for k, c := range v {
			m[k] = c
		}
		return firstSorted(m)
	case map[string]int:
		m := make(map[string]any, len(v))
		for k, c := range v {
			m[k] = c
		}
		return firstSorted(m)
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, c := range v {
			if ks, ok := k.(string); ok {
				m[ks] = c
			}
		}
		return firstSorted(m)
	case string:
		return fromEncodedMapping(v)
	default:
		return GPUInfo{}, false
	}
}

// firstSorted picks the lexically first key; decoded maps carry no order.
func firstSorted(m map[string]any) (GPUInfo, bool) {
	if len(m) == 0 {
		return GPUInfo{}, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return GPUInfo{Type: keys[0], Count: toNumber(m[keys[0]])}, true
}

// fromEncodedMapping parses strings like {'H100': 8} or {"A100": None}.
// Flow-style YAML accepts both quote styles, so only the Python literals
// need rewriting. Insertion order is preserved through the yaml.Node.
func fromEncodedMapping(s string) (GPUInfo, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return GPUInfo{}, false
	}

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(pythonTokens.Replace(trimmed)), &doc); err != nil {
		return GPUInfo{}, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return GPUInfo{}, false
	}
	mapping := doc.Content[0]
	if mapping.Kind != yaml.MappingNode || len(mapping.Content) < 2 {
		return GPUInfo{}, false
	}

	key, val := mapping.Content[0], mapping.Content[1]
	if key.Value == "" {
		return GPUInfo{}, false
	}
	count := 0.0
	if val.Kind == yaml.ScalarNode && val.Tag != "!!null" {
		count = toNumber(val.Value)
	}
	return GPUInfo{Type: key.Value, Count: count}, true
}

func fromDescriptor(descriptor string) (GPUInfo, bool) {
	m := gpuTokenPattern.FindStringSubmatch(descriptor)
	if m == nil {
		return GPUInfo{}, false
	}
	return GPUInfo{Type: m[1], Count: toNumber(m[2])}, true
}

// toNumber coerces v to a float64, yielding 0 when it cannot.
func toNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	case uint64:
		return float64(n)
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
