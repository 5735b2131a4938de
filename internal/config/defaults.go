package config

import (
	"github.com/runewatch/runewatch/internal/framing"
	"github.com/runewatch/runewatch/internal/subscriber"
)

// Default values for optional configuration fields.
const (
	DefaultTransport = "tcp"
)

func (c *Config) applyDefaults() {
	if c.Server.Transport == "" {
		c.Server.Transport = DefaultTransport
	}

	if len(c.Subscription.Events) == 0 {
		// Subscribe to everything unless narrowed down.
		c.Subscription.Events = allEventNames()
	}

	conn := &c.Connection
	if conn.HeartbeatInterval == 0 {
		conn.HeartbeatInterval = subscriber.DefaultHeartbeatInterval
	}
	if conn.HeartbeatTimeout == 0 {
		conn.HeartbeatTimeout = subscriber.DefaultHeartbeatTimeout
	}
	if conn.ReconnectBaseDelay == 0 {
		conn.ReconnectBaseDelay = subscriber.DefaultReconnectBaseDelay
	}
	if conn.ReconnectMaxDelay == 0 {
		conn.ReconnectMaxDelay = subscriber.DefaultReconnectMaxDelay
	}
	if conn.JitterRatio == 0 {
		conn.JitterRatio = subscriber.DefaultJitterRatio
	}
	if conn.MaxLineLength == 0 {
		conn.MaxLineLength = framing.DefaultMaxLine
	}
	if conn.WriteTimeout == 0 {
		conn.WriteTimeout = subscriber.DefaultWriteTimeout
	}
	if conn.NotificationBuffer == 0 {
		conn.NotificationBuffer = subscriber.DefaultNotificationBuffer
	}
}
