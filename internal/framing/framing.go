package framing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/runewatch/runewatch/internal/events"
)

// Heartbeat literals. The client writes the probe, the server answers with
// the ack.
const (
	ProbeLiteral = "PING"
	AckLiteral   = "PONG"
)

// ErrLineTooLong reports a line exceeding the configured maximum. The line
// is discarded, never partially processed.
var ErrLineTooLong = errors.New("framing: line exceeds maximum length")

// DefaultMaxLine matches the bound the server enforces on its side.
const DefaultMaxLine = 8 * 1024

// Framer yields complete lines from a byte stream, one call at a time.
// The sequence is not restartable; after any error the framer is done.
type Framer struct {
	s *bufio.Scanner
}

// New returns a framer reading from r with the given line-length cap.
// maxLine <= 0 uses DefaultMaxLine.
func New(r io.Reader, maxLine int) *Framer {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	s := bufio.NewScanner(r)
	initial := maxLine
	if initial > 4096 {
		initial = 4096
	}
	s.Buffer(make([]byte, initial), maxLine)
	return &Framer{s: s}
}

// Next returns the next complete line. It returns ErrLineTooLong for an
// oversized line, io.EOF at end of stream, and the transport error otherwise.
// The returned slice is only valid until the next call.
func (f *Framer) Next() ([]byte, error) {
	if f.s.Scan() {
		return f.s.Bytes(), nil
	}
	if err := f.s.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, ErrLineTooLong
		}
		return nil, err
	}
	return nil, io.EOF
}

// Kind classifies a line.
type Kind int

const (
	// KindBlank is a whitespace-only line; skipped.
	KindBlank Kind = iota

	// KindAck is the heartbeat acknowledgment literal.
	KindAck

	// KindEvent is a decoded event envelope.
	KindEvent
)

// Message is the classification of one line.
type Message struct {
	Kind  Kind
	Event *events.Event // Set for KindEvent
}

// Classify sorts a line into ack, event, or blank. A decode failure is
// returned as an error; the caller reports it and keeps the stream open.
func Classify(line []byte) (Message, error) {
	trimmed := bytes.TrimSpace(line)
	if len(trimmed) == 0 {
		return Message{Kind: KindBlank}, nil
	}
	if string(trimmed) == AckLiteral {
		return Message{Kind: KindAck}, nil
	}

	var ev events.Event
	if err := json.Unmarshal(trimmed, &ev); err != nil {
		return Message{}, fmt.Errorf("framing: decode event: %w", err)
	}
	if !ev.Type.Valid() {
		return Message{}, fmt.Errorf("framing: unknown event type %q", ev.Type)
	}
	return Message{Kind: KindEvent, Event: &ev}, nil
}
