package telemetry

import (
	"fmt"
	"math"

	"obskit/pkg/result"
)

// Validation rule identifiers reported in ValidationError.Rule. Rules are
// checked in a fixed order per entity: required-field emptiness first, then
// enum and range checks, then cross-field checks. The first violated rule
// wins, so error messages are deterministic.
const (
	RuleRequired = "required"
	RuleCharset  = "charset"
	RuleEnum     = "enum"
	RuleFinite   = "finite"
	RuleRange    = "range"
)

// ValidateMetric checks a prospective metric before construction.
//
// Rule order: name presence, name charset (Prometheus metric naming), tag key
// charset (Prometheus label naming), type validity, value finiteness, and
// finally the counter non-negativity cross-field check.
func ValidateMetric(name string, value float64, tags map[string]string, metricType MetricType) result.Result[result.Unit] {
	if name == "" {
		return failValidation("name", RuleRequired, "metric name must not be empty")
	}
	if !isValidMetricName(name) {
		return failValidation("name", RuleCharset,
			fmt.Sprintf("metric name %q must match [a-zA-Z_:][a-zA-Z0-9_:]*", name))
	}
	for key := range tags {
		if !isValidLabelName(key) {
			return failValidation("tags", RuleCharset,
				fmt.Sprintf("tag key %q must match [a-zA-Z_][a-zA-Z0-9_]*", key))
		}
	}
	if !metricType.IsValid() {
		return failValidation("metric_type", RuleEnum,
			fmt.Sprintf("metric type %q must be one of gauge, counter, histogram", metricType))
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return failValidation("value", RuleFinite, "metric value must be a finite number")
	}
	if metricType == MetricTypeCounter && value < 0 {
		return failValidation("value", RuleRange,
			fmt.Sprintf("counter metric value must be >= 0, got %v", value))
	}
	return result.OK()
}

// ValidateTrace checks a prospective trace before construction.
func ValidateTrace(operationName, serviceName string) result.Result[result.Unit] {
	if operationName == "" {
		return failValidation("operation_name", RuleRequired, "operation name must not be empty")
	}
	if serviceName == "" {
		return failValidation("service_name", RuleRequired, "service name must not be empty")
	}
	return result.OK()
}

// ValidateAlert checks a prospective alert before construction.
func ValidateAlert(name string, severity Severity, message string) result.Result[result.Unit] {
	if name == "" {
		return failValidation("name", RuleRequired, "alert name must not be empty")
	}
	if message == "" {
		return failValidation("message", RuleRequired, "alert message must not be empty")
	}
	if !severity.IsValid() {
		return failValidation("severity", RuleEnum,
			fmt.Sprintf("severity %q must be one of info, warning, error, critical", severity))
	}
	return result.OK()
}

// ValidateHealthCheck checks a prospective health check before construction.
func ValidateHealthCheck(name string, status HealthStatus) result.Result[result.Unit] {
	if name == "" {
		return failValidation("name", RuleRequired, "health check name must not be empty")
	}
	if !status.IsValid() {
		return failValidation("status", RuleEnum,
			fmt.Sprintf("status %q must be one of healthy, degraded, unhealthy", status))
	}
	return result.OK()
}

// ValidateLogEntry checks a prospective log entry before construction.
func ValidateLogEntry(level LogLevel, message string) result.Result[result.Unit] {
	if message == "" {
		return failValidation("message", RuleRequired, "log message must not be empty")
	}
	if !level.IsValid() {
		return failValidation("level", RuleEnum,
			fmt.Sprintf("level %q must be one of debug, info, warning, error, critical", level))
	}
	return result.OK()
}

func failValidation(field, rule, message string) result.Result[result.Unit] {
	return result.Fail[result.Unit](&ValidationError{Field: field, Rule: rule, Message: message})
}

// isValidMetricName reports whether name matches the Prometheus metric name
// pattern [a-zA-Z_:][a-zA-Z0-9_:]*.
func isValidMetricName(name string) bool {
	for i, c := range name {
		if c == '_' || c == ':' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}

// isValidLabelName reports whether name matches the Prometheus label name
// pattern [a-zA-Z_][a-zA-Z0-9_]*.
func isValidLabelName(name string) bool {
	if name == "" {
		return false
	}
	for i, c := range name {
		if c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			continue
		}
		if i > 0 && c >= '0' && c <= '9' {
			continue
		}
		return false
	}
	return true
}
