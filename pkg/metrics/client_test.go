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

package metrics

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	promv1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockAPI embeds the interface so only QueryRange needs an implementation.
type mockAPI struct {
	promv1.API

	mu      sync.Mutex
	queries []string
	ranges  []promv1.Range
	result  model.Value
	err     error
	block   bool
}

func (m *mockAPI) QueryRange(ctx context.Context, query string, r promv1.Range, _ ...promv1.Option) (model.Value, promv1.Warnings, error) {
	m.mu.Lock()
	m.queries = append(m.queries, query)
	m.ranges = append(m.ranges, r)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return m.result, nil, m.err
}

func series(values ...float64) *model.SampleStream {
	s := &model.SampleStream{Metric: model.Metric{"__name__": "x"}}
	for i, v := range values {
		s.Values = append(s.Values, model.SamplePair{
			Timestamp: model.Time(int64(i) * 300_000),
			Value:     model.SampleValue(v),
		})
	}
	return s
}

var (
	testStart = time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	testEnd   = time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
)

func TestFetchAggregatedAveragesAllPoints(t *testing.T) {
	api := &mockAPI{result: model.Matrix{series(10, 20), series(60)}}
	c := NewWithAPI(api, WithRateLimit(0, 0))

	v, ok := c.FetchAggregated(context.Background(), "c1", "up", testStart, testEnd, AggregationAvg)
	require.True(t, ok)
	assert.InDelta(t, 30.0, v, 1e-9)

	require.Len(t, api.queries, 1)
	assert.Equal(t, "avg(up)", api.queries[0])
	assert.Equal(t, 300*time.Second, api.ranges[0].Step)
	assert.True(t, api.ranges[0].Start.Equal(testStart))
	assert.True(t, api.ranges[0].End.Equal(testEnd))
}

func TestFetchAggregatedFailures(t *testing.T) {
	tests := []struct {
		name string
		api  *mockAPI
	}{
		{"backend error", &mockAPI{err: fmt.Errorf("connection refused")}},
		{"empty matrix", &mockAPI{result: model.Matrix{}}},
		{"series without points", &mockAPI{result: model.Matrix{series()}}},
		{"wrong result type", &mockAPI{result: model.Vector{}}},
		{"nan only", &mockAPI{result: model.Matrix{series(math.NaN())}}},
		{"nan and inf across series", &mockAPI{result: model.Matrix{series(math.NaN(), math.Inf(1)), series(math.Inf(-1))}}},
		{"finite sum overflows", &mockAPI{result: model.Matrix{series(math.MaxFloat64, math.MaxFloat64)}}},
		{"timeout", &mockAPI{block: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewWithAPI(tt.api, WithRateLimit(0, 0), WithTimeout(20*time.Millisecond))
			v, ok := c.FetchAggregated(context.Background(), "c1", "up", testStart, testEnd, AggregationMax)
			assert.False(t, ok)
			assert.Zero(t, v)
		})
	}
}

func TestFetchAggregatedSkipsNonFiniteSamples(t *testing.T) {
	api := &mockAPI{result: model.Matrix{series(10, math.NaN()), series(math.Inf(1), 30)}}
	c := NewWithAPI(api, WithRateLimit(0, 0))

	v, ok := c.FetchAggregated(context.Background(), "c1", "up", testStart, testEnd, AggregationP95)
	require.True(t, ok)
	assert.InDelta(t, 20.0, v, 1e-9)
}

func TestAggregationWrap(t *testing.T) {
	tests := []struct {
		agg  Aggregation
		want string
	}{
		{AggregationAvg, "avg(q)"},
		{AggregationP95, "quantile(0.95, q)"},
		{AggregationMax, "max(q)"},
		{AggregationMin, "min(q)"},
		{Aggregation(""), "avg(q)"},
	}
	for _, tt := range tests {
		t.Run(string(tt.agg), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.agg.Wrap("q"))
		})
	}
}

func TestFamilies(t *testing.T) {
	t.Run("utilization uses avg and nvidia selector", func(t *testing.T) {
		api := &mockAPI{result: model.Matrix{series(40, 60)}}
		c := NewWithAPI(api, WithRateLimit(0, 0))

		v := c.Utilization(context.Background(), Target{Identity: "My_Cluster-abc", GPUType: "H100"}, testStart, testEnd)
		assert.InDelta(t, 50.0, v, 1e-9)
		assert.Equal(t, `avg(DCGM_FI_DEV_GPU_UTIL{exported_pod=~"my-cluster-abc.*"})`, api.queries[0])
	})

	t.Run("utilization failure is sentinel", func(t *testing.T) {
		c := NewWithAPI(&mockAPI{err: fmt.Errorf("boom")}, WithRateLimit(0, 0))
		v := c.Utilization(context.Background(), Target{Identity: "x", GPUType: "A100"}, testStart, testEnd)
		assert.Equal(t, UnknownUtilization, v)
	})

	t.Run("memory uses p95 and converts to GB", func(t *testing.T) {
		api := &mockAPI{result: model.Matrix{series(2 * bytesPerGB)}}
		c := NewWithAPI(api, WithRateLimit(0, 0))

		v, ok := c.MemoryGB(context.Background(), Target{Identity: "x", GPUType: "MI300X"}, testStart, testEnd)
		require.True(t, ok)
		assert.InDelta(t, 2.0, v, 1e-9)
		assert.Equal(t, `quantile(0.95, gpu_used_vram{pod=~"x.*"} * 1048576)`, api.queries[0])
	})

	t.Run("power", func(t *testing.T) {
		api := &mockAPI{result: model.Matrix{series(300, 350)}}
		c := NewWithAPI(api, WithRateLimit(0, 0))

		v, ok := c.PowerWatts(context.Background(), Target{Identity: "x", GPUType: "L4"}, testStart, testEnd)
		require.True(t, ok)
		assert.InDelta(t, 325.0, v, 1e-9)
	})
}

func TestWithTemplates(t *testing.T) {
	api := &mockAPI{result: model.Matrix{series(1)}}
	c := NewWithAPI(api, WithRateLimit(0, 0), WithTemplates(Templates{
		VendorNVIDIA: {FamilyPower: `custom_power{job="%s"}`},
	}))

	_, ok := c.PowerWatts(context.Background(), Target{Identity: "abc"}, testStart, testEnd)
	require.True(t, ok)
	assert.Equal(t, `avg(custom_power{job="abc"})`, api.queries[0])

	// families missing from an override fall back to the defaults
	c.Utilization(context.Background(), Target{Identity: "abc"}, testStart, testEnd)
	assert.Equal(t, `avg(DCGM_FI_DEV_GPU_UTIL{exported_pod=~"abc.*"})`, api.queries[1])
}

func TestSanitizeIdentity(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"train-job", "train-job"},
		{"Train_Job", "train-job"},
		{"a..b__c", "a-b-c"},
		{"--edge--", "edge"},
		{"sky-1a2b-user", "sky-1a2b-user"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeIdentity(tt.in))
		})
	}
}

func TestVendorFor(t *testing.T) {
	assert.Equal(t, VendorAMD, VendorFor("MI300X"))
	assert.Equal(t, VendorAMD, VendorFor("mi250"))
	assert.Equal(t, VendorNVIDIA, VendorFor("H100"))
	assert.Equal(t, VendorNVIDIA, VendorFor(""))
}

func TestNewRequiresAddress(t *testing.T) {
	_, err := New("")
	require.Error(t, err)

	c, err := New("http://prometheus:9090", WithTimeout(time.Second))
	require.NoError(t, err)
	assert.Equal(t, time.Second, c.timeout)
}
