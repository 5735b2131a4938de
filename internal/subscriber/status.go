package subscriber

// Status is the connection lifecycle state. Transitions happen only on the
// client's event loop; observers see each change exactly once.
type Status int

const (
	// StatusDisconnected is the initial state, and terminal after an
	// explicit shutdown or once retries are exhausted.
	StatusDisconnected Status = iota

	// StatusConnecting means the first transport for a subscription is
	// being established.
	StatusConnecting

	// StatusConnected means the transport is up and the subscription
	// request has been written.
	StatusConnected

	// StatusReconnecting means a retry is scheduled or in flight after a
	// transport loss.
	StatusReconnecting
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusReconnecting:
		return "reconnecting"
	}
	return "unknown"
}
