package subscriber

import "github.com/runewatch/runewatch/internal/events"

// NotificationKind enumerates the closed set of signals a client emits.
type NotificationKind int

const (
	// KindStatusChange carries a new Status. Never repeated for the same
	// value.
	KindStatusChange NotificationKind = iota

	// KindEvent carries one decoded event envelope.
	KindEvent

	// KindError carries one failure condition: connect failure, protocol
	// violation, heartbeat timeout, transport error, or retry exhaustion.
	KindError

	// KindClosed marks one transport teardown. It follows the error that
	// caused it and precedes the next status transition.
	KindClosed
)

func (k NotificationKind) String() string {
	switch k {
	case KindStatusChange:
		return "status"
	case KindEvent:
		return "event"
	case KindError:
		return "error"
	case KindClosed:
		return "closed"
	}
	return "unknown"
}

// Notification is one observable signal from a client.
type Notification struct {
	Kind   NotificationKind
	Status Status        // KindStatusChange
	Event  *events.Event // KindEvent
	Err    error         // KindError
}
