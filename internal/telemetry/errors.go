package telemetry

import (
	"fmt"
	"strings"
)

// ConfigError reports a malformed engine configuration. It is fatal at startup.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return "config: " + e.Reason
	}
	return fmt.Sprintf("config: %s: %s", e.Field, e.Reason)
}

// TransportError is a network or HTTP failure for one endpoint attempt.
type TransportError struct {
	URL    string
	Status int // zero when the request never got a response
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("GET %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NormalizationError means the payload did not match the declared shape.
type NormalizationError struct {
	Shape  Shape
	Reason string
}

func (e *NormalizationError) Error() string {
	return fmt.Sprintf("normalize %s: %s", e.Shape, e.Reason)
}

// AttemptFailure is the recorded reason one catalog entry failed during a pass.
type AttemptFailure struct {
	Endpoint string `json:"endpoint"`
	Reason   string `json:"reason"`
	Err      error  `json:"-"`
}

// AllSourcesFailedError is returned when every catalog entry failed in one pass.
// Failures are in catalog order.
type AllSourcesFailedError struct {
	Failures []AttemptFailure
}

func (e *AllSourcesFailedError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, f.Endpoint+": "+f.Reason)
	}
	return fmt.Sprintf("all %d sources failed: %s", len(e.Failures), strings.Join(parts, "; "))
}
