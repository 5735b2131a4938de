// Package framing splits the inbound byte stream into newline-delimited
// messages and classifies each one as a heartbeat ack or an event envelope.
//
// A line longer than the configured maximum is a protocol violation
// (ErrLineTooLong) and the caller is expected to tear the transport down; a
// single undecodable line is recoverable and the stream continues.
package framing
