package config

import "time"

// Config is the root configuration for a runewatch instance.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Subscription SubscriptionConfig `yaml:"subscription"`
	Connection   ConnectionConfig   `yaml:"connection"`
}

// ServerConfig locates the event-stream endpoint.
type ServerConfig struct {
	Addr      string `yaml:"addr"`      // "host:port" for tcp, URL for websocket
	Transport string `yaml:"transport"` // "tcp" or "websocket"
}

// SubscriptionConfig selects the event kinds to subscribe to.
type SubscriptionConfig struct {
	Events []string `yaml:"events"`
}

// ConnectionConfig holds the reconnect and liveness settings.
type ConnectionConfig struct {
	AutoReconnect      *bool         `yaml:"auto_reconnect"` // nil = enabled
	HeartbeatInterval  time.Duration `yaml:"heartbeat_interval"`
	HeartbeatTimeout   time.Duration `yaml:"heartbeat_timeout"`
	MaxRetries         int           `yaml:"max_retries"` // 0 = unbounded
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	JitterRatio        float64       `yaml:"jitter_ratio"`
	MaxLineLength      int           `yaml:"max_line_length"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	NotificationBuffer int           `yaml:"notification_buffer"`
}

// AutoReconnectEnabled resolves the tri-state auto_reconnect field.
func (c *ConnectionConfig) AutoReconnectEnabled() bool {
	return c.AutoReconnect == nil || *c.AutoReconnect
}
