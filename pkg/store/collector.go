package store

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"obskit/pkg/telemetry"
)

// Collector bridges the store's retained metric samples into a Prometheus
// registry, so a host can expose them on a standard /metrics endpoint
// alongside its own instrumentation.
//
// The bridge exposes the latest retained sample per (name, tag set) series;
// historical samples stay available through ExportPrometheus. Gauge and
// counter samples map to their Prometheus value types; histogram samples are
// exposed as untyped values since individual observations carry no bucket
// layout.
type Collector struct {
	store *Store
}

// NewCollector creates a Collector reading from s.
func NewCollector(s *Store) *Collector {
	return &Collector{store: s}
}

// Describe sends no descriptors, making this an unchecked collector: the set
// of exposed series is only known at gather time.
func (c *Collector) Describe(chan<- *prometheus.Desc) {}

// Collect emits one const metric per retained series.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	latest := make(map[string]telemetry.Metric)
	order := make([]string, 0)

	for _, m := range c.store.metrics.snapshot() {
		key := seriesKey(m)
		if _, seen := latest[key]; !seen {
			order = append(order, key)
		}
		latest[key] = m
	}

	for _, key := range order {
		m := latest[key]
		desc := prometheus.NewDesc(m.Name, "Telemetry sample from the obskit store", nil, m.Tags)
		ch <- prometheus.MustNewConstMetric(desc, valueType(m.Type), m.Value)
	}
}

// seriesKey identifies a series by name plus sorted tag pairs.
func seriesKey(m telemetry.Metric) string {
	keys := make([]string, 0, len(m.Tags))
	for k := range m.Tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(m.Name)
	for _, k := range keys {
		b.WriteByte('\x00')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(m.Tags[k])
	}
	return b.String()
}

func valueType(t telemetry.MetricType) prometheus.ValueType {
	switch t {
	case telemetry.MetricTypeCounter:
		return prometheus.CounterValue
	case telemetry.MetricTypeGauge:
		return prometheus.GaugeValue
	default:
		return prometheus.UntypedValue
	}
}
