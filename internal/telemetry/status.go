package telemetry

import (
	"fmt"
	"sync"

	"sensor_dashboard/internal/models"
)

// DefaultMaxConsecutiveFailures is the number of failed passes before DISCONNECTED.
const DefaultMaxConsecutiveFailures = 3

var allStates = []string{
	models.StateConnecting,
	models.StateConnected,
	models.StateDegraded,
	models.StateDisconnected,
}

// StatusReporter projects resolution outcomes onto a ConnectionStatus.
// Its only state is the consecutive-failure counter and whether any outcome was seen.
type StatusReporter struct {
	mu          sync.Mutex
	maxFailures int
	failures    int
	current     models.ConnectionStatus
	metrics     *Metrics
}

// NewStatusReporter returns a reporter in CONNECTING state.
func NewStatusReporter(maxFailures int, m *Metrics) *StatusReporter {
	if maxFailures < 1 {
		maxFailures = DefaultMaxConsecutiveFailures
	}
	s := &StatusReporter{
		maxFailures: maxFailures,
		current:     models.ConnectionStatus{State: models.StateConnecting, Label: "Connecting..."},
		metrics:     m,
	}
	m.status(s.current.State, 0)
	return s
}

// Current returns the last computed status.
func (s *StatusReporter) Current() models.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Observe folds one pass outcome in and returns the new status.
// A nil err means the pass succeeded and res names the winning source.
func (s *StatusReporter) Observe(res Resolution, err error) models.ConnectionStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.failures = 0
		s.current = models.ConnectionStatus{
			State:  models.StateConnected,
			Label:  fmt.Sprintf("Connected (%s)", res.Descriptor),
			Source: res.Descriptor,
		}
	} else {
		s.failures++
		if s.failures >= s.maxFailures {
			s.current = models.ConnectionStatus{
				State: models.StateDisconnected,
				Label: "Disconnected: no data from any source",
			}
		} else {
			s.current = models.ConnectionStatus{
				State: models.StateDegraded,
				Label: fmt.Sprintf("Degraded: %d of %d passes failed", s.failures, s.maxFailures),
			}
		}
		s.current.ConsecutiveFailures = s.failures
	}
	s.metrics.status(s.current.State, s.failures)
	return s.current
}
