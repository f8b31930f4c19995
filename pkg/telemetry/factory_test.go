package telemetry

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedClock returns the same instant on every call.
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

func TestFactory_CreateMetric(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	f := NewFactory(WithClock(&fixedClock{now: now}))

	r := f.CreateMetric("requests_total", 5, "count", map[string]string{"status": "200"}, MetricTypeCounter)

	require.True(t, r.IsOK())
	m := r.Value()
	assert.Equal(t, "requests_total", m.Name)
	assert.Equal(t, 5.0, m.Value)
	assert.Equal(t, "count", m.Unit)
	assert.Equal(t, map[string]string{"status": "200"}, m.Tags)
	assert.Equal(t, MetricTypeCounter, m.Type)
	assert.Equal(t, now, m.Timestamp)

	_, err := uuid.Parse(m.ID)
	assert.NoError(t, err, "id should be a valid UUID")
}

func TestFactory_CreateMetric_TimestampIsUTC(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	f := NewFactory(WithClock(&fixedClock{now: time.Date(2026, 8, 28, 21, 0, 0, 0, tokyo)}))

	r := f.CreateMetric("cpu_usage", 0.4, "", nil, MetricTypeGauge)

	require.True(t, r.IsOK())
	assert.Equal(t, time.UTC, r.Value().Timestamp.Location())
}

func TestFactory_CreateMetric_ValidationFailurePassedThrough(t *testing.T) {
	f := NewFactory()

	r := f.CreateMetric("", 1.0, "count", nil, MetricTypeGauge)

	require.True(t, r.IsFailure())
	var validationErr *ValidationError
	require.ErrorAs(t, r.Err(), &validationErr)
	assert.Equal(t, "name", validationErr.Field)
	assert.Contains(t, r.Err().Error(), "name")
}

func TestFactory_CreateMetric_DefensiveTagCopy(t *testing.T) {
	f := NewFactory()
	tags := map[string]string{"env": "prod"}

	r := f.CreateMetric("cpu_usage", 1.0, "", tags, MetricTypeGauge)
	require.True(t, r.IsOK())

	tags["env"] = "mutated"
	assert.Equal(t, "prod", r.Value().Tags["env"], "entity must not share the caller's map")
}

func TestFactory_CreateTrace(t *testing.T) {
	f := NewFactory()

	r := f.CreateTrace("fetch_user", "api", map[string]string{"correlation_id": "abc"}, "")

	require.True(t, r.IsOK())
	tr := r.Value()
	assert.Equal(t, "fetch_user", tr.OperationName)
	assert.Equal(t, "api", tr.ServiceName)
	assert.Equal(t, "abc", tr.Context["correlation_id"])
	assert.Empty(t, tr.ParentTraceID)
	assert.NotEmpty(t, tr.ID)
	assert.False(t, tr.StartTime.IsZero())
}

func TestFactory_CreateTrace_ParentIsSoftReference(t *testing.T) {
	f := NewFactory()

	// A parent id that exists nowhere is accepted; referential integrity is
	// intentionally not enforced at creation time.
	r := f.CreateTrace("child_op", "api", nil, "nonexistent-parent")

	require.True(t, r.IsOK())
	assert.Equal(t, "nonexistent-parent", r.Value().ParentTraceID)
}

func TestFactory_CreateTrace_NeverParentsItself(t *testing.T) {
	f := NewFactory()

	r := f.CreateTrace("op", "svc", nil, "some-parent")

	require.True(t, r.IsOK())
	assert.NotEqual(t, r.Value().ID, r.Value().ParentTraceID,
		"freshly minted id can never equal the supplied parent id")
}

func TestFactory_CreateAlert(t *testing.T) {
	f := NewFactory()

	r := f.CreateAlert("disk_full", SeverityCritical, "disk usage above 95%", map[string]string{"mount": "/var"})

	require.True(t, r.IsOK())
	a := r.Value()
	assert.Equal(t, "disk_full", a.Name)
	assert.Equal(t, SeverityCritical, a.Severity)
	assert.Equal(t, "disk usage above 95%", a.Message)
	assert.Equal(t, "/var", a.Details["mount"])
	assert.False(t, a.CreatedAt.IsZero())
}

func TestFactory_CreateHealthCheck(t *testing.T) {
	f := NewFactory()

	r := f.CreateHealthCheck("database", StatusDegraded, "slow queries", nil)

	require.True(t, r.IsOK())
	hc := r.Value()
	assert.Equal(t, "database", hc.Name)
	assert.Equal(t, StatusDegraded, hc.Status)
	assert.Equal(t, "slow queries", hc.Message)
}

func TestFactory_CreateLogEntry(t *testing.T) {
	f := NewFactory()

	r := f.CreateLogEntry(LevelError, "request failed", map[string]string{"path": "/users"}, "corr-123")

	require.True(t, r.IsOK())
	e := r.Value()
	assert.Equal(t, LevelError, e.Level)
	assert.Equal(t, "request failed", e.Message)
	assert.Equal(t, "corr-123", e.CorrelationID)
	assert.Equal(t, "/users", e.Context["path"])
}

func TestFactory_CreateLogEntry_EmptyCorrelationAllowed(t *testing.T) {
	f := NewFactory()

	r := f.CreateLogEntry(LevelInfo, "started", nil, "")

	require.True(t, r.IsOK())
	assert.Empty(t, r.Value().CorrelationID)
}

func TestFactory_IDsAreUnique(t *testing.T) {
	f := NewFactory()
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		r := f.CreateMetric(fmt.Sprintf("metric_%d", i), float64(i), "", nil, MetricTypeGauge)
		require.True(t, r.IsOK())
		seen[r.Value().ID] = true
	}

	assert.Equal(t, 100, len(seen))
}

func TestFactory_CustomIDGenerator(t *testing.T) {
	n := 0
	f := NewFactory(WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}))

	r := f.CreateMetric("cpu_usage", 1.0, "", nil, MetricTypeGauge)

	require.True(t, r.IsOK())
	assert.Equal(t, "id-1", r.Value().ID)
}

func TestDefault_ReturnsSameInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}
