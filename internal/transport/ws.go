package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocket dials a WebSocket endpoint and adapts it to the line protocol:
// each inbound text frame is surfaced as one newline-terminated line, and
// each outbound line is sent as one text frame (terminator stripped).
type WebSocket struct {
	HandshakeTimeout time.Duration // 0 = DefaultDialTimeout
	Header           http.Header   // Extra handshake headers (auth etc.)
}

// Dial connects to addr (a ws:// or wss:// URL).
func (d *WebSocket) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	timeout := d.HandshakeTimeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}

	conn, _, err := dialer.DialContext(ctx, addr, d.Header)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", addr, err)
	}
	return &wsStream{conn: conn}, nil
}

// wsStream bridges a websocket connection to an io.ReadWriteCloser carrying
// newline-delimited messages. Reads and writes each have a single owner; the
// subscriber's reader goroutine reads while the event loop writes.
type wsStream struct {
	conn *websocket.Conn

	readBuf  []byte // Remainder of the current frame plus injected terminator
	writeBuf []byte // Outbound bytes accumulated until a terminator
}

func (s *wsStream) Read(p []byte) (int, error) {
	for len(s.readBuf) == 0 {
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, io.EOF
			}
			return 0, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		s.readBuf = append(data, '\n')
	}
	n := copy(p, s.readBuf)
	s.readBuf = s.readBuf[n:]
	return n, nil
}

func (s *wsStream) Write(p []byte) (int, error) {
	s.writeBuf = append(s.writeBuf, p...)
	for {
		i := bytes.IndexByte(s.writeBuf, '\n')
		if i < 0 {
			return len(p), nil
		}
		line := s.writeBuf[:i]
		if err := s.conn.WriteMessage(websocket.TextMessage, line); err != nil {
			return 0, err
		}
		s.writeBuf = s.writeBuf[i+1:]
	}
}

func (s *wsStream) Close() error {
	// Best effort close frame; the peer may already be gone.
	s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return s.conn.Close()
}
