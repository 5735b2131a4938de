// Package subscriber implements the reconnecting subscription client.
//
// A Client owns at most one transport at a time, plus the heartbeat timers
// and the reconnect timer bound to it. All lifecycle work (dial results,
// inbound lines, timer fires, subscribe and shutdown commands) is serialized
// onto a single event-loop goroutine, so no two handlers for one client ever
// run concurrently. Callers observe the client through the Notifications
// channel: status transitions, decoded events, errors, and transport
// teardowns, in causal order.
package subscriber
