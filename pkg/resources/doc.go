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

// Package resources extracts a canonical accelerator description from the
// heterogeneous resource descriptors found on cluster records.
//
// Two inputs are consulted. The structured accelerators field, which may be
// a decoded mapping ({"H100": 8}) or a string that encodes one with loose
// quoting and Python-style tokens ("{'A100-80GB': None}"), is tried first.
// When that yields nothing, the free-form descriptor string is scanned for a
// "gpus=<type>:<count>" token. Anything unparsable degrades to the zero
// value; extraction never fails.
//
//	gpu := resources.ExtractGPUInfo(c.Accelerators, c.ResourcesStr)
//	nodes := resources.ExtractNodeCount(c.ResourcesStr, c.NumNodes)
package resources
