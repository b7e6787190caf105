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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/NVIDIA/gpu-usage-insights/pkg/k8s/client"
)

// FormatFromPath determines the serialization format based on file extension.
// Unknown extensions default to JSON.
func FormatFromPath(filePath string) Format {
	lowerPath := strings.ToLower(filePath)
	if i := strings.IndexAny(lowerPath, "?#"); i >= 0 && isRemote(lowerPath) {
		lowerPath = lowerPath[:i]
	}
	switch {
	case strings.HasSuffix(lowerPath, ".json"):
		return FormatJSON
	case strings.HasSuffix(lowerPath, ".yaml"), strings.HasSuffix(lowerPath, ".yml"):
		return FormatYAML
	default:
		slog.Warn("unknown file extension, defaulting to JSON", "filePath", filePath)
		return FormatJSON
	}
}

// Reader decodes JSON or YAML from an io.Reader.
type Reader struct {
	format Format
	input  io.Reader
	closer io.Closer
}

// NewReader creates a Reader. Table format cannot be decoded.
func NewReader(format Format, input io.Reader) (*Reader, error) {
	if format.IsUnknown() {
		return nil, fmt.Errorf("unknown format: %s", format)
	}
	if format == FormatTable {
		return nil, fmt.Errorf("table format does not support deserialization")
	}

	r := &Reader{
		format: format,
		input:  input,
	}
	if closer, ok := input.(io.Closer); ok {
		r.closer = closer
	}
	return r, nil
}

// Deserialize decodes the input into v.
func (r *Reader) Deserialize(v any) error {
	if r == nil {
		return fmt.Errorf("reader is nil")
	}
	if r.input == nil {
		return fmt.Errorf("input source is nil")
	}

	switch r.format {
	case FormatJSON:
		if err := json.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	case FormatYAML:
		if err := yaml.NewDecoder(r.input).Decode(v); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported format for deserialization: %s", r.format)
	}
}

// Close releases the input if the Reader owns it.
func (r *Reader) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

type readOptions struct {
	kubeconfig string
	kubeClient client.Interface
	dataKey    string
	httpReader *HttpReader
}

// ReadOption configures FromSource.
type ReadOption func(*readOptions)

// WithKubeconfig selects the kubeconfig used for cm:// sources.
func WithKubeconfig(path string) ReadOption {
	return func(o *readOptions) {
		o.kubeconfig = path
	}
}

// WithKubeClient supplies the clientset used for cm:// sources.
func WithKubeClient(c client.Interface) ReadOption {
	return func(o *readOptions) {
		o.kubeClient = c
	}
}

// WithConfigMapKey sets the data key base name read from ConfigMaps; the
// reader looks for "<key>.yaml", "<key>.yml" and "<key>.json".
func WithConfigMapKey(key string) ReadOption {
	return func(o *readOptions) {
		if key != "" {
			o.dataKey = key
		}
	}
}

// WithHTTPReader overrides the client used for http(s) sources.
func WithHTTPReader(r *HttpReader) ReadOption {
	return func(o *readOptions) {
		if r != nil {
			o.httpReader = r
		}
	}
}

// FromSource loads a T from a local file, an http(s) URL or a ConfigMap
// (cm://namespace/name). The format follows the extension of the path or
// ConfigMap data key.
func FromSource[T any](ctx context.Context, source string, opts ...ReadOption) (*T, error) {
	o := &readOptions{dataKey: "data"}
	for _, opt := range opts {
		opt(o)
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return nil, fmt.Errorf("source is empty")
	}

	var content []byte
	var format Format
	var err error

	switch {
	case strings.HasPrefix(source, ConfigMapURIScheme):
		content, format, err = readConfigMap(ctx, source, o)
	case isRemote(source):
		hr := o.httpReader
		if hr == nil {
			hr = NewHttpReader()
		}
		content, err = hr.ReadWithContext(ctx, source)
		format = FormatFromPath(source)
	default:
		content, err = os.ReadFile(source)
		format = FormatFromPath(source)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", source, err)
	}

	reader, err := NewReader(format, bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	var v T
	if err := reader.Deserialize(&v); err != nil {
		return nil, fmt.Errorf("failed to deserialize object from %q: %w", source, err)
	}

	slog.Debug("loaded object",
		slog.String("source", source),
		slog.String("format", string(format)),
		slog.Int("bytes", len(content)),
	)
	return &v, nil
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
