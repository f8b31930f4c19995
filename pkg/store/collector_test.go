package store

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obskit/pkg/telemetry"
)

// gather registers the collector in a fresh registry and returns the metric
// families it produces, keyed by name.
func gather(t *testing.T, s *Store) map[string]*dto.MetricFamily {
	t.Helper()

	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(NewCollector(s)))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := make(map[string]*dto.MetricFamily, len(families))
	for _, mf := range families {
		byName[mf.GetName()] = mf
	}
	return byName
}

func TestCollector_ExposesLatestSamplePerSeries(t *testing.T) {
	s := newTestStore(t, Config{Capacity: 10, LowWater: 5})

	require.True(t, s.RecordMetric(telemetry.Metric{ID: "1", Name: "queue_depth", Value: 3, Type: telemetry.MetricTypeGauge}).IsOK())
	require.True(t, s.RecordMetric(telemetry.Metric{ID: "2", Name: "queue_depth", Value: 7, Type: telemetry.MetricTypeGauge}).IsOK())

	families := gather(t, s)

	mf, ok := families["queue_depth"]
	require.True(t, ok)
	require.Len(t, mf.GetMetric(), 1, "one series, latest value only")
	assert.Equal(t, 7.0, mf.GetMetric()[0].GetGauge().GetValue())
}

func TestCollector_DistinctTagSetsAreDistinctSeries(t *testing.T) {
	s := newTestStore(t, Config{Capacity: 10, LowWater: 5})

	require.True(t, s.RecordMetric(telemetry.Metric{
		ID: "1", Name: "requests_total", Value: 1, Type: telemetry.MetricTypeCounter,
		Tags: map[string]string{"status": "200"},
	}).IsOK())
	require.True(t, s.RecordMetric(telemetry.Metric{
		ID: "2", Name: "requests_total", Value: 4, Type: telemetry.MetricTypeCounter,
		Tags: map[string]string{"status": "500"},
	}).IsOK())

	families := gather(t, s)

	mf, ok := families["requests_total"]
	require.True(t, ok)
	assert.Len(t, mf.GetMetric(), 2)
	assert.Equal(t, dto.MetricType_COUNTER, mf.GetType())
}

func TestCollector_ValueTypes(t *testing.T) {
	s := newTestStore(t, Config{Capacity: 10, LowWater: 5})

	require.True(t, s.RecordMetric(telemetry.Metric{ID: "1", Name: "g", Value: 1, Type: telemetry.MetricTypeGauge}).IsOK())
	require.True(t, s.RecordMetric(telemetry.Metric{ID: "2", Name: "c", Value: 2, Type: telemetry.MetricTypeCounter}).IsOK())
	require.True(t, s.RecordMetric(telemetry.Metric{ID: "3", Name: "h", Value: 3, Type: telemetry.MetricTypeHistogram}).IsOK())

	families := gather(t, s)

	assert.Equal(t, dto.MetricType_GAUGE, families["g"].GetType())
	assert.Equal(t, dto.MetricType_COUNTER, families["c"].GetType())
	assert.Equal(t, dto.MetricType_UNTYPED, families["h"].GetType())
}

func TestCollector_EmptyStore(t *testing.T) {
	s := newTestStore(t, Config{Capacity: 10, LowWater: 5})

	families := gather(t, s)

	assert.Empty(t, families)
}
