package events

import (
	"encoding/json"
	"fmt"
)

// Type identifies an event kind. Values match the server's wire tags.
type Type string

const (
	TypeRuneEtched           Type = "RuneEtched"
	TypeRuneMinted           Type = "RuneMinted"
	TypeRuneBurned           Type = "RuneBurned"
	TypeRuneTransferred      Type = "RuneTransferred"
	TypeAddressModified      Type = "AddressModified"
	TypeTransactionsAdded    Type = "TransactionsAdded"
	TypeTransactionsReplaced Type = "TransactionsReplaced"
	TypeNewBlock             Type = "NewBlock"
	TypeReorg                Type = "Reorg"
)

// AllTypes lists every event kind a subscription may request.
var AllTypes = []Type{
	TypeRuneEtched,
	TypeRuneMinted,
	TypeRuneBurned,
	TypeRuneTransferred,
	TypeAddressModified,
	TypeTransactionsAdded,
	TypeTransactionsReplaced,
	TypeNewBlock,
	TypeReorg,
}

// Valid reports whether t is a known event kind.
func (t Type) Valid() bool {
	switch t {
	case TypeRuneEtched, TypeRuneMinted, TypeRuneBurned, TypeRuneTransferred,
		TypeAddressModified, TypeTransactionsAdded, TypeTransactionsReplaced,
		TypeNewBlock, TypeReorg:
		return true
	}
	return false
}

// ParseType converts a wire tag to a Type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown event type %q", s)
	}
	return t, nil
}

// Event is one decoded stream message: a kind tag plus opaque payload.
// The payload is kept raw; use DecodeData with the matching payload struct.
type Event struct {
	Type Type            `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// DecodeData unmarshals the kind-specific payload into v.
func (e *Event) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("event %s has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Payload Types
// -----------------------------------------------------------------------------

// Location identifies the transaction an event was observed in.
type Location struct {
	BlockHeight uint64 `json:"block_height"` // Height of the containing block (0 if mempool)
	TxID        string `json:"tx_id"`        // Transaction id (hex)
}

// RuneEtched is the payload for TypeRuneEtched.
type RuneEtched struct {
	Location Location `json:"location"`
	RuneID   string   `json:"rune_id"` // "block:tx" id assigned at etching
	Name     string   `json:"name"`    // Spaced rune name
}

// RuneMinted is the payload for TypeRuneMinted.
type RuneMinted struct {
	Location Location `json:"location"`
	RuneID   string   `json:"rune_id"`
	Amount   uint64   `json:"amount"` // Minted amount in atomic units
}

// RuneBurned is the payload for TypeRuneBurned.
type RuneBurned struct {
	Location Location `json:"location"`
	RuneID   string   `json:"rune_id"`
	Amount   uint64   `json:"amount"`
}

// RuneTransferred is the payload for TypeRuneTransferred.
type RuneTransferred struct {
	Location Location `json:"location"`
	RuneID   string   `json:"rune_id"`
	Amount   uint64   `json:"amount"`
	Output   string   `json:"output"` // Receiving outpoint ("txid:vout")
}

// AddressModified is the payload for TypeAddressModified.
type AddressModified struct {
	Location Location `json:"location"`
	Address  string   `json:"address"`
}

// TransactionsAdded is the payload for TypeTransactionsAdded.
type TransactionsAdded struct {
	TxIDs []string `json:"tx_ids"`
}

// TransactionsReplaced is the payload for TypeTransactionsReplaced.
type TransactionsReplaced struct {
	TxIDs []string `json:"tx_ids"`
}

// NewBlock is the payload for TypeNewBlock.
type NewBlock struct {
	BlockHeight uint64 `json:"block_height"`
	BlockHash   string `json:"block_hash"`
}

// Reorg is the payload for TypeReorg.
type Reorg struct {
	Height uint64 `json:"height"` // Height the chain reorganized back to
	Depth  uint64 `json:"depth"`  // Number of blocks unwound
}
