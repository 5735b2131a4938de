// Package transport provides the stream transports carrying the newline-
// delimited subscription protocol.
//
// The subscriber depends only on the Dialer interface. TCP is the native
// transport; WebSocket bridges one text frame per line for deployments that
// front the indexer with a WS proxy.
package transport
