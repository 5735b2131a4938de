// Package events defines the wire-level event types delivered by the
// indexer's subscription stream.
//
// Every inbound line is one Event: a kind tag plus kind-specific data.
// The subscriber only dispatches on the tag; payload structs are provided
// for consumers that want the decoded form.
package events
