package subscriber

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/runewatch/runewatch/internal/backoff"
	"github.com/runewatch/runewatch/internal/events"
	"github.com/runewatch/runewatch/internal/framing"
	"github.com/runewatch/runewatch/internal/heartbeat"
)

// Errors
var (
	ErrClosed  = errors.New("subscriber: client closed")
	ErrConnect = errors.New("subscriber: connect failed")
)

var probeLine = []byte(framing.ProbeLiteral + "\n")

// Client maintains one subscription to the server's event stream, surviving
// transport loss via backoff-scheduled reconnects. Create with New, feed it
// a request with Subscribe, and drain Notifications until it is closed.
type Client struct {
	cfg    Config
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	cmds     chan command
	notifs   chan Notification
	closing  chan struct{} // Shutdown requested
	torndown chan struct{} // Timers cancelled, transport destroyed
	done     chan struct{} // Event loop exited, final status delivered

	closeOnce sync.Once
}

// command replaces the stored subscription request.
type command struct {
	payload []byte // Encoded wire line, without terminator
	kinds   int
}

// dialResult is the outcome of one transport establishment attempt.
type dialResult struct {
	conn io.ReadWriteCloser
	err  error
}

// session is the state bound to one established transport. Its channels are
// never shared across transports, so a stale reader can not act on a newer
// connection.
type session struct {
	conn   io.ReadWriteCloser
	logger *slog.Logger
	lines  chan []byte
	errc   chan error    // Terminal reader error, capacity 1
	stop   chan struct{} // Closed at teardown; unblocks the reader
	hb     *heartbeat.Monitor

	cause  error // First failure attributed to this transport
	closed bool  // Teardown started
}

// New creates a client and starts its event loop. The client is idle in
// StatusDisconnected until Subscribe is called.
func New(cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, errors.New("subscriber: Addr is required")
	}
	cfg = cfg.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		cfg:      cfg,
		logger:   cfg.Logger,
		ctx:      ctx,
		cancel:   cancel,
		cmds:     make(chan command),
		notifs:   make(chan Notification, cfg.NotificationBuffer),
		closing:  make(chan struct{}),
		torndown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	go c.run()
	return c, nil
}

// Notifications returns the signal channel. It is closed after shutdown once
// the final status has been delivered. Consumers must drain it; status,
// error and close signals are delivered in causal order, and event signals
// are dropped (with a warning log) if the buffer stays full.
func (c *Client) Notifications() <-chan Notification {
	return c.notifs
}

// Subscribe stores the request as the single source of truth rewritten on
// every (re)connection. With no transport established or being established
// it starts connecting; with a live transport it forces a teardown so the
// close path re-establishes with the new request (immediately when automatic
// reconnection is disabled, otherwise through the usual backoff schedule).
func (c *Client) Subscribe(req events.SubscriptionRequest) error {
	payload, err := req.Encode()
	if err != nil {
		return err
	}
	select {
	case c.cmds <- command{payload: payload, kinds: len(req.Subscribe)}:
		return nil
	case <-c.closing:
		return ErrClosed
	case <-c.done:
		return ErrClosed
	}
}

// Close shuts the client down synchronously: by the time it returns, every
// owned timer is cancelled and any transport has been destroyed. No further
// reconnects occur. Idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() { close(c.closing) })
	select {
	case <-c.torndown:
	case <-c.done:
	}
	return nil
}

// Shutdown is Close plus waiting for the transport-closed signal: it does
// not return (absent ctx expiry) until the event loop has observed the
// teardown and settled in StatusDisconnected. Calling it when already shut
// down just waits.
func (c *Client) Shutdown(ctx context.Context) error {
	c.closeOnce.Do(func() { close(c.closing) })
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the event loop. Everything that touches connection state happens
// here.
func (c *Client) run() {
	defer close(c.done)
	defer close(c.notifs)
	defer c.cancel()

	var (
		status       = StatusDisconnected
		stored       []byte // Current subscription request wire line
		sess         *session
		dialc        chan dialResult
		retry        *time.Timer
		retryc       <-chan time.Time
		shuttingDown bool
		reopen       bool // Reopen immediately on the next close path
		closing      = c.closing
	)

	policy := &backoff.Policy{
		Base:        c.cfg.ReconnectBaseDelay,
		Max:         c.cfg.ReconnectMaxDelay,
		JitterRatio: c.cfg.JitterRatio,
		MaxRetries:  c.cfg.MaxRetries,
	}

	setStatus := func(next Status) {
		if next == status {
			return
		}
		c.logger.Debug("status change", "from", status.String(), "to", next.String())
		status = next
		c.deliver(Notification{Kind: KindStatusChange, Status: next})
	}

	cancelRetry := func() {
		if retry != nil {
			retry.Stop()
			retry = nil
			retryc = nil
		}
	}

	startDial := func() {
		ch := make(chan dialResult, 1)
		dialc = ch
		go func() {
			conn, err := c.cfg.Dialer.Dial(c.ctx, c.cfg.Addr)
			ch <- dialResult{conn: conn, err: err}
		}()
	}

	// scheduleRetry drives the post-failure transition shared by dial
	// failures and transport teardowns.
	scheduleRetry := func() {
		switch {
		case reopen:
			reopen = false
			policy.Reset()
			setStatus(StatusConnecting)
			startDial()
		case !c.cfg.DisableReconnect:
			delay, err := policy.Next()
			if err != nil {
				c.deliver(Notification{Kind: KindError, Err: err})
				setStatus(StatusDisconnected)
				return
			}
			setStatus(StatusReconnecting)
			c.logger.Info("reconnect scheduled",
				"delay", delay,
				"attempt", policy.Attempt(),
			)
			retry = time.NewTimer(delay)
			retryc = retry.C
		default:
			setStatus(StatusDisconnected)
		}
	}

	// finishClose runs once the reader for a torn-down transport has
	// exited. Returns true when the loop should stop.
	finishClose := func() bool {
		cause := sess.cause
		if cause == nil {
			select {
			case err := <-sess.errc:
				cause = err
			default:
			}
		}
		sess.hb.Stop()
		sess.conn.Close()
		sess = nil
		cancelRetry()

		if cause != nil {
			c.deliver(Notification{Kind: KindError, Err: cause})
		}
		c.deliver(Notification{Kind: KindClosed})

		if shuttingDown {
			setStatus(StatusDisconnected)
			return true
		}
		scheduleRetry()
		return false
	}

	for {
		var (
			linesc    chan []byte
			tickc     <-chan time.Time
			deadlinec <-chan time.Time
		)
		if sess != nil {
			linesc = sess.lines
			tickc = sess.hb.Tick()
			deadlinec = sess.hb.Deadline()
		}

		select {
		case <-closing:
			closing = nil
			shuttingDown = true
			c.cancel()
			cancelRetry()
			if sess != nil {
				c.teardown(sess, nil)
				close(c.torndown)
				continue // drain until the reader exits
			}
			if dialc != nil {
				// The cancelled dial resolves promptly; reap it so
				// nothing leaks.
				if res := <-dialc; res.conn != nil {
					res.conn.Close()
				}
				dialc = nil
			}
			close(c.torndown)
			setStatus(StatusDisconnected)
			return

		case cmd := <-c.cmds:
			if shuttingDown {
				continue
			}
			stored = cmd.payload
			c.logger.Info("subscription request stored", "event_types", cmd.kinds)
			switch {
			case sess != nil:
				// Replace and force the close path to re-establish
				// with the new request.
				reopen = c.cfg.DisableReconnect
				c.teardown(sess, nil)
			case dialc != nil:
				// Dial in flight: the request is written only after it
				// resolves, so the replacement is all that is needed.
			case retryc != nil:
				// Retry pending: it will write the replaced request.
			default:
				policy.Reset()
				setStatus(StatusConnecting)
				startDial()
			}

		case res := <-dialc:
			dialc = nil
			if res.err != nil {
				c.logger.Warn("connect failed", "addr", c.cfg.Addr, "error", res.err)
				c.deliver(Notification{Kind: KindError, Err: fmt.Errorf("%w: %v", ErrConnect, res.err)})
				scheduleRetry()
				continue
			}
			s, err := c.openSession(res.conn, stored)
			if err != nil {
				res.conn.Close()
				c.deliver(Notification{Kind: KindError, Err: err})
				scheduleRetry()
				continue
			}
			sess = s
			policy.Reset()
			setStatus(StatusConnected)

		case <-retryc:
			retry = nil
			retryc = nil
			startDial()

		case line, ok := <-linesc:
			if !ok {
				if finishClose() {
					return
				}
				continue
			}
			msg, err := framing.Classify(line)
			if err != nil {
				// A single malformed line is not fatal.
				sess.logger.Warn("unparseable line", "error", err)
				c.deliver(Notification{Kind: KindError, Err: err})
				continue
			}
			switch msg.Kind {
			case framing.KindAck:
				sess.hb.MarkAlive()
			case framing.KindEvent:
				// Inbound traffic proves liveness on its own.
				sess.hb.MarkAlive()
				c.deliverEvent(Notification{Kind: KindEvent, Event: msg.Event})
			case framing.KindBlank:
			}

		case <-tickc:
			if !sess.hb.ShouldProbe() {
				continue
			}
			if err := c.writeLine(sess.conn, probeLine); err != nil {
				c.teardown(sess, fmt.Errorf("write probe: %w", err))
				continue
			}
			sess.hb.ProbeSent()

		case <-deadlinec:
			sess.logger.Warn("heartbeat timeout", "deadline", c.cfg.HeartbeatTimeout)
			c.teardown(sess, heartbeat.ErrTimeout)
		}
	}
}

// openSession writes the stored request, starts the heartbeat monitor, and
// spawns the reader. The request always goes out before any inbound line is
// read.
func (c *Client) openSession(conn io.ReadWriteCloser, stored []byte) (*session, error) {
	line := make([]byte, 0, len(stored)+1)
	line = append(line, stored...)
	line = append(line, '\n')
	if err := c.writeLine(conn, line); err != nil {
		return nil, fmt.Errorf("write subscription request: %w", err)
	}

	s := &session{
		conn:   conn,
		logger: c.logger.With("conn_id", uuid.NewString()),
		lines:  make(chan []byte),
		errc:   make(chan error, 1),
		stop:   make(chan struct{}),
		hb:     heartbeat.NewMonitor(c.cfg.HeartbeatInterval, c.cfg.HeartbeatTimeout),
	}
	s.hb.Start()
	go c.readLines(s)

	s.logger.Info("connected", "addr", c.cfg.Addr)
	return s, nil
}

// teardown starts destroying a transport. The loop keeps draining the
// session's line channel until the reader exits; finishClose completes the
// transition.
func (c *Client) teardown(s *session, cause error) {
	if s.closed {
		return
	}
	s.closed = true
	if cause != nil && s.cause == nil {
		s.cause = cause
	}
	s.hb.Stop()
	close(s.stop)
	s.conn.Close()
}

// readLines feeds framed lines to the event loop until the transport ends.
func (c *Client) readLines(s *session) {
	defer close(s.lines)

	f := framing.New(s.conn, c.cfg.MaxLineLength)
	for {
		line, err := f.Next()
		if err != nil {
			if err == io.EOF {
				return
			}
			// Errors caused by our own teardown are noise.
			select {
			case <-s.stop:
			default:
				select {
				case s.errc <- err:
				default:
				}
			}
			return
		}
		buf := make([]byte, len(line))
		copy(buf, line)
		select {
		case s.lines <- buf:
		case <-s.stop:
			return
		}
	}
}

// writeLine writes one framed line, applying the write deadline where the
// transport supports one.
func (c *Client) writeLine(conn io.ReadWriteCloser, line []byte) error {
	type writeDeadliner interface {
		SetWriteDeadline(time.Time) error
	}
	if d, ok := conn.(writeDeadliner); ok && c.cfg.WriteTimeout > 0 {
		d.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	_, err := conn.Write(line)
	return err
}

// deliver sends a notification, blocking while the client is live so status,
// error and close signals keep their causal order.
func (c *Client) deliver(n Notification) {
	select {
	case c.notifs <- n:
	case <-c.closing:
		select {
		case c.notifs <- n:
		default:
			c.logger.Warn("notification dropped during shutdown", "kind", n.Kind.String())
		}
	}
}

// deliverEvent sends an event notification without blocking the loop; a
// consumer that stops draining loses events, not liveness.
func (c *Client) deliverEvent(n Notification) {
	select {
	case c.notifs <- n:
	default:
		c.logger.Warn("notification buffer full, dropping event", "event_type", string(n.Event.Type))
	}
}
