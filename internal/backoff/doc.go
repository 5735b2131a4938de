// Package backoff computes reconnect delays: capped exponential growth with
// symmetric jitter, and an optional terminal retry budget.
package backoff
