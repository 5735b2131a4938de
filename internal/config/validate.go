package config

import (
	"errors"
	"fmt"

	"github.com/runewatch/runewatch/internal/events"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.Transport != "tcp" && c.Server.Transport != "websocket" {
		return fmt.Errorf("server.transport must be tcp or websocket, got %q", c.Server.Transport)
	}

	if len(c.Subscription.Events) == 0 {
		return errors.New("subscription.events must name at least one event type")
	}
	for _, name := range c.Subscription.Events {
		if _, err := events.ParseType(name); err != nil {
			return fmt.Errorf("subscription.events: %w", err)
		}
	}

	conn := &c.Connection
	if conn.HeartbeatInterval <= 0 {
		return errors.New("connection.heartbeat_interval must be > 0")
	}
	if conn.HeartbeatTimeout <= 0 {
		return errors.New("connection.heartbeat_timeout must be > 0")
	}
	if conn.MaxRetries < 0 {
		return errors.New("connection.max_retries must be >= 0")
	}
	if conn.ReconnectBaseDelay <= 0 {
		return errors.New("connection.reconnect_base_delay must be > 0")
	}
	if conn.ReconnectMaxDelay < conn.ReconnectBaseDelay {
		return fmt.Errorf("connection.reconnect_max_delay (%s) cannot be below reconnect_base_delay (%s)",
			conn.ReconnectMaxDelay, conn.ReconnectBaseDelay)
	}
	if conn.JitterRatio < 0 || conn.JitterRatio > 1 {
		return fmt.Errorf("connection.jitter_ratio must be between 0 and 1, got %g", conn.JitterRatio)
	}
	if conn.MaxLineLength < 1 {
		return errors.New("connection.max_line_length must be >= 1")
	}
	if conn.NotificationBuffer < 1 {
		return errors.New("connection.notification_buffer must be >= 1")
	}

	return nil
}

// EventTypes returns the parsed subscription set. Call after Validate.
func (c *Config) EventTypes() []events.Type {
	kinds := make([]events.Type, 0, len(c.Subscription.Events))
	for _, name := range c.Subscription.Events {
		kinds = append(kinds, events.Type(name))
	}
	return kinds
}

func allEventNames() []string {
	names := make([]string, 0, len(events.AllTypes))
	for _, t := range events.AllTypes {
		names = append(names, string(t))
	}
	return names
}
