package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// SubscriptionRequest is the set of event kinds a client asks the server to
// deliver. It is written as a single JSON line immediately after connecting.
type SubscriptionRequest struct {
	Subscribe []Type `json:"subscribe"`
}

// NewSubscriptionRequest builds a request for the given kinds.
func NewSubscriptionRequest(kinds ...Type) SubscriptionRequest {
	return SubscriptionRequest{Subscribe: kinds}
}

// Encode returns the single-line wire form of the request, without the
// trailing line terminator.
func (r SubscriptionRequest) Encode() ([]byte, error) {
	if len(r.Subscribe) == 0 {
		return nil, errors.New("subscription request has no event types")
	}
	for _, t := range r.Subscribe {
		if !t.Valid() {
			return nil, fmt.Errorf("subscription request: unknown event type %q", t)
		}
	}
	return json.Marshal(r)
}
