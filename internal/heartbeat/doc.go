// Package heartbeat tracks probe/ack liveness for a single transport.
//
// The monitor owns the probe interval ticker and the ack deadline timer; the
// subscriber's event loop selects on Tick and Deadline and reports state
// changes back. At most one probe is outstanding at a time.
package heartbeat
