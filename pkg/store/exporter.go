package store

import (
	"sort"
	"strconv"
	"strings"

	"obskit/pkg/result"
	"obskit/pkg/telemetry"
)

// ExportPrometheus renders the currently retained metrics in the Prometheus
// text exposition format. Output is deterministic: metric names are sorted
// lexicographically, each name is preceded by exactly one # TYPE line, and
// tag pairs within a sample line are sorted lexicographically. Samples of one
// name keep their insertion order. Two calls without an intervening Record
// yield byte-identical output.
func (s *Store) ExportPrometheus() result.Result[string] {
	return result.Ok(FormatMetrics(s.metrics.snapshot()))
}

// FormatMetrics is the pure formatting function behind ExportPrometheus,
// usable on any metric snapshot. The # TYPE for a name is taken from its
// first retained sample.
func FormatMetrics(samples []telemetry.Metric) string {
	byName := make(map[string][]telemetry.Metric)
	names := make([]string, 0)
	for _, m := range samples {
		if _, seen := byName[m.Name]; !seen {
			names = append(names, m.Name)
		}
		byName[m.Name] = append(byName[m.Name], m)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		group := byName[name]
		b.WriteString("# TYPE ")
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(string(group[0].Type))
		b.WriteByte('\n')

		for _, m := range group {
			b.WriteString(name)
			writeTags(&b, m.Tags)
			b.WriteByte(' ')
			b.WriteString(formatValue(m.Value))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// writeTags renders {k1="v1",k2="v2"} with keys sorted; nothing is written
// for an empty tag set.
func writeTags(b *strings.Builder, tags map[string]string) {
	if len(tags) == 0 {
		return
	}

	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
		b.WriteString(`="`)
		b.WriteString(escapeLabelValue(tags[k]))
		b.WriteByte('"')
	}
	b.WriteByte('}')
}

// escapeLabelValue escapes backslash, double quote, and newline per the
// exposition format.
func escapeLabelValue(v string) string {
	if !strings.ContainsAny(v, "\\\"\n") {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return r.Replace(v)
}

// formatValue renders a sample value the way the Prometheus text format
// does: shortest representation that round-trips a float64.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
