package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// DefaultDialTimeout bounds transport establishment when the dialer has no
// explicit timeout configured.
const DefaultDialTimeout = 10 * time.Second

// Dialer establishes a stream transport to the server. The returned stream
// carries newline-delimited messages in both directions.
type Dialer interface {
	Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}

// TCP dials a raw TCP connection. The zero value is ready to use.
type TCP struct {
	Timeout time.Duration // Per-dial timeout; 0 = DefaultDialTimeout
}

// Dial connects to addr ("host:port").
func (d *TCP) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	timeout := d.Timeout
	if timeout == 0 {
		timeout = DefaultDialTimeout
	}
	nd := net.Dialer{Timeout: timeout}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	return conn, nil
}
