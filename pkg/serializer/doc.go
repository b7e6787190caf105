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

// Package serializer reads and writes JSON, YAML and table documents.
//
// Writers render any value as indented JSON, YAML, or a table. Slices of
// structs become one row per element; everything else is flattened into
// sorted FIELD/VALUE pairs:
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatTable, "")
//	defer w.Close()
//	err := w.Serialize(ctx, records)
//
// FromSource loads a typed document from a local path, an http(s) URL or a
// Kubernetes ConfigMap (cm://namespace/name). The format follows the file
// extension, or the extension of the ConfigMap data key:
//
//	snap, err := serializer.FromSource[inventory.Snapshot](ctx, "cm://gpu/inventory",
//	    serializer.WithConfigMapKey("inventory"))
//
// RespondJSON is the shared JSON response helper for HTTP handlers.
package serializer
