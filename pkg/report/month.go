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
	"fmt"
	"regexp"
	"time"

	"k8s.io/utils/clock"

	"github.com/NVIDIA/gpu-usage-insights/pkg/errors"
)

const monthLayout = "2006-01"

var monthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)

// Month is a calendar month evaluated in a fixed location.
type Month struct {
	Year  int
	Month time.Month
	loc   *time.Location
}

// ParseMonth parses a strict YYYY-MM string. A nil loc means time.Local.
func ParseMonth(s string, loc *time.Location) (Month, error) {
	if loc == nil {
		loc = time.Local
	}
	if !monthPattern.MatchString(s) {
		return Month{}, errors.NewWithContext(errors.ErrCodeInvalidRequest,
			"month must be in YYYY-MM form", map[string]any{"month": s})
	}
	t, err := time.ParseInLocation(monthLayout, s, loc)
	if err != nil {
		return Month{}, errors.WrapWithContext(errors.ErrCodeInvalidRequest,
			"invalid month", err, map[string]any{"month": s})
	}
	return Month{Year: t.Year(), Month: t.Month(), loc: loc}, nil
}

// CurrentMonth returns the month containing the clock's current time in loc.
func CurrentMonth(c clock.PassiveClock, loc *time.Location) Month {
	if loc == nil {
		loc = time.Local
	}
	now := c.Now().In(loc)
	return Month{Year: now.Year(), Month: now.Month(), loc: loc}
}

// Location returns the location the month boundaries are evaluated in.
func (m Month) Location() *time.Location {
	if m.loc == nil {
		return time.Local
	}
	return m.loc
}

// Start is 00:00:00.000 on the first day of the month.
func (m Month) Start() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, m.Location())
}

// End is 23:59:59.999 on the last day of the month.
func (m Month) End() time.Time {
	return m.Start().AddDate(0, 1, 0).Add(-time.Millisecond)
}

// Seconds is the whole-second length of the month's calendar window.
func (m Month) Seconds() int64 {
	return int64(m.End().Sub(m.Start()) / time.Second)
}

// IsZero reports whether the month was never set.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText renders the month as YYYY-MM.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
