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

package cache

import (
	"strconv"
	"strings"
	"time"
)

// Key builds the lookup key for a metric value: an optional family prefix
// (empty for utilization), the cluster identity, and the exact window bounds.
func Key(prefix, identity string, start, end time.Time) string {
	if identity == "" {
		identity = "unknown"
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(identity)
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(start.UnixMilli(), 10))
	b.WriteByte('_')
	b.WriteString(strconv.FormatInt(end.UnixMilli(), 10))
	return b.String()
}
