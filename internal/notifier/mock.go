package notifier

import (
	"context"
	"sync"
)

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	SendPanicAlertFunc   func(alert Alert) error
	SendFailureAlertFunc func(alert Alert) error

	PanicAlerts   []Alert
	FailureAlerts []Alert
}

var _ Notifier = (*Mock)(nil)

// NewMock creates a new mock notifier.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) SendPanicAlert(ctx context.Context, alert Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PanicAlerts = append(m.PanicAlerts, alert)
	if m.SendPanicAlertFunc != nil {
		return m.SendPanicAlertFunc(alert)
	}
	return nil
}

func (m *Mock) SendFailureAlert(ctx context.Context, alert Alert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailureAlerts = append(m.FailureAlerts, alert)
	if m.SendFailureAlertFunc != nil {
		return m.SendFailureAlertFunc(alert)
	}
	return nil
}

// Panics returns a copy of the recorded panic alerts.
func (m *Mock) Panics() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Alert(nil), m.PanicAlerts...)
}

// Failures returns a copy of the recorded failure alerts.
func (m *Mock) Failures() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Alert(nil), m.FailureAlerts...)
}
