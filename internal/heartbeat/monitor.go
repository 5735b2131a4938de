package heartbeat

import (
	"errors"
	"time"
)

// ErrTimeout reports that no acknowledgment (or any other inbound traffic)
// arrived before the deadline after a probe was sent.
var ErrTimeout = errors.New("heartbeat: no ack before deadline")

// Monitor drives the liveness protocol for one transport. It exists only
// while the transport is open and is reset for every new one. Not safe for
// concurrent use; it is owned by the subscriber's event loop.
type Monitor struct {
	interval time.Duration
	timeout  time.Duration

	ticker   *time.Ticker
	deadline *time.Timer
	awaiting bool
}

// NewMonitor returns a stopped monitor with the given probe interval and ack
// deadline.
func NewMonitor(interval, timeout time.Duration) *Monitor {
	return &Monitor{interval: interval, timeout: timeout}
}

// Start arms the probe interval. Any previous state is discarded.
func (m *Monitor) Start() {
	m.Stop()
	m.ticker = time.NewTicker(m.interval)
}

// Stop cancels the interval ticker and any pending deadline. Safe to call on
// a stopped monitor.
func (m *Monitor) Stop() {
	if m.ticker != nil {
		m.ticker.Stop()
		m.ticker = nil
	}
	if m.deadline != nil {
		m.deadline.Stop()
		m.deadline = nil
	}
	m.awaiting = false
}

// Tick returns the probe interval channel, or nil when stopped.
func (m *Monitor) Tick() <-chan time.Time {
	if m.ticker == nil {
		return nil
	}
	return m.ticker.C
}

// Deadline returns the ack deadline channel, or nil when no probe is
// outstanding. A nil channel blocks forever in a select.
func (m *Monitor) Deadline() <-chan time.Time {
	if !m.awaiting || m.deadline == nil {
		return nil
	}
	return m.deadline.C
}

// ShouldProbe reports whether the interval fire should produce a probe. A
// probe already outstanding suppresses the next one.
func (m *Monitor) ShouldProbe() bool {
	return m.ticker != nil && !m.awaiting
}

// ProbeSent records an outstanding probe and arms the ack deadline.
func (m *Monitor) ProbeSent() {
	if m.deadline != nil {
		m.deadline.Stop()
	}
	m.deadline = time.NewTimer(m.timeout)
	m.awaiting = true
}

// MarkAlive clears the outstanding probe and disarms the deadline. Any
// successfully decoded inbound message counts, not just the ack literal.
func (m *Monitor) MarkAlive() {
	if m.deadline != nil {
		m.deadline.Stop()
		m.deadline = nil
	}
	m.awaiting = false
}

// Awaiting reports whether a probe is outstanding.
func (m *Monitor) Awaiting() bool {
	return m.awaiting
}
