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

package report

import (
	"math"
	"time"

	"github.com/NVIDIA/gpu-usage-insights/pkg/inventory"
)

// Lifetime is the absolute execution interval of a cluster.
type Lifetime struct {
	Start time.Time
	End   time.Time
}

// LifetimeOf derives the execution interval of c. The end is the explicit end
// timestamp, else launch plus duration, else now (open-ended records count as
// still active). ok is false when the record has no launch time.
func LifetimeOf(c *inventory.Cluster, now time.Time) (Lifetime, bool) {
	if c.LaunchedAt == nil || c.LaunchedAt.IsZero() {
		return Lifetime{}, false
	}
	l := Lifetime{Start: c.LaunchedAt.Time}
	switch {
	case c.EndedAt != nil && !c.EndedAt.IsZero():
		l.End = c.EndedAt.Time
	case c.Duration != nil:
		l.End = l.Start.Add(time.Duration(*c.Duration * float64(time.Second)))
	default:
		l.End = now
	}
	return l, true
}

// Overlaps reports whether the lifetime intersects the month's calendar window.
func (l Lifetime) Overlaps(m Month) bool {
	return !l.Start.After(m.End()) && !l.End.Before(m.Start())
}

// Window returns the part of the lifetime inside the month.
func (l Lifetime) Window(m Month) (time.Time, time.Time) {
	start, end := l.Start, l.End
	if ms := m.Start(); start.Before(ms) {
		start = ms
	}
	if me := m.End(); end.After(me) {
		end = me
	}
	return start, end
}

// ExecutionSecondsIn is the whole seconds of the lifetime inside the month,
// never negative.
func (l Lifetime) ExecutionSecondsIn(m Month) int64 {
	start, end := l.Window(m)
	return floorSeconds(end.Sub(start))
}

// Seconds is the whole-second length of the full lifetime, never negative.
func (l Lifetime) Seconds() int64 {
	return floorSeconds(l.End.Sub(l.Start))
}

// QueueSeconds is launch minus submission when both exist and the difference
// is non-negative, else the explicit queue time, else 0.
func QueueSeconds(c *inventory.Cluster) int64 {
	if c.LaunchedAt != nil && c.SubmittedAt != nil && !c.LaunchedAt.IsZero() && !c.SubmittedAt.IsZero() {
		if d := c.LaunchedAt.Sub(c.SubmittedAt.Time); d >= 0 {
			return floorSeconds(d)
		}
	}
	if c.QueueTime != nil && *c.QueueTime > 0 {
		return int64(math.Floor(*c.QueueTime))
	}
	return 0
}

// IdleSeconds estimates idle time from utilization. Unknown utilization
// yields 0.
func IdleSeconds(execSeconds int64, utilization float64) int64 {
	if utilization < 0 || execSeconds <= 0 {
		return 0
	}
	busy := math.Min(math.Max(utilization/100, 0), 1)
	return int64(math.Floor(float64(execSeconds) * (1 - busy)))
}

func floorSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	return int64(d / time.Second)
}
