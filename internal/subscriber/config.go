package subscriber

import (
	"log/slog"
	"time"

	"github.com/runewatch/runewatch/internal/framing"
	"github.com/runewatch/runewatch/internal/transport"
)

// Default values for optional configuration fields.
const (
	DefaultHeartbeatInterval  = 30 * time.Second
	DefaultHeartbeatTimeout   = 10 * time.Second
	DefaultReconnectBaseDelay = 1 * time.Second
	DefaultReconnectMaxDelay  = 60 * time.Second
	DefaultJitterRatio        = 0.2
	DefaultWriteTimeout       = 5 * time.Second
	DefaultNotificationBuffer = 256
)

// Config configures a Client. The zero value of every optional field selects
// its default; Addr is required.
type Config struct {
	Addr   string           // Server address ("host:port", or a URL for WebSocket)
	Dialer transport.Dialer // nil = raw TCP
	Logger *slog.Logger     // nil = slog.Default()

	// DisableReconnect turns off automatic reconnection: any transport
	// loss goes straight to StatusDisconnected.
	DisableReconnect bool

	HeartbeatInterval time.Duration // Probe send interval
	HeartbeatTimeout  time.Duration // Ack deadline after a probe

	MaxRetries         int           // Reconnect attempts before giving up; 0 = unbounded
	ReconnectBaseDelay time.Duration // Backoff delay for attempt 0
	ReconnectMaxDelay  time.Duration // Cap on the un-jittered backoff delay
	JitterRatio        float64       // Symmetric jitter fraction

	MaxLineLength      int           // Inbound line cap; 0 = framing.DefaultMaxLine
	WriteTimeout       time.Duration // Write deadline where the transport supports one
	NotificationBuffer int           // Notifications channel capacity
}

func (c Config) withDefaults() Config {
	if c.Dialer == nil {
		c.Dialer = &transport.TCP{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.HeartbeatInterval == 0 {
		c.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if c.HeartbeatTimeout == 0 {
		c.HeartbeatTimeout = DefaultHeartbeatTimeout
	}
	if c.ReconnectBaseDelay == 0 {
		c.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.ReconnectMaxDelay == 0 {
		c.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.JitterRatio == 0 {
		c.JitterRatio = DefaultJitterRatio
	}
	if c.MaxLineLength == 0 {
		c.MaxLineLength = framing.DefaultMaxLine
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = DefaultWriteTimeout
	}
	if c.NotificationBuffer == 0 {
		c.NotificationBuffer = DefaultNotificationBuffer
	}
	return c
}
