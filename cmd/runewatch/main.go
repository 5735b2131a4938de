// runewatch subscribes to an indexer's event stream and prints notifications
// to the console, reconnecting across transport loss.
// Usage: go run ./cmd/runewatch --config configs/runewatch.example.yaml
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/runewatch/runewatch/internal/config"
	"github.com/runewatch/runewatch/internal/events"
	"github.com/runewatch/runewatch/internal/subscriber"
	"github.com/runewatch/runewatch/internal/transport"
	"github.com/runewatch/runewatch/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/runewatch.example.yaml", "path to config file")
	verbose := flag.Bool("verbose", false, "print full event JSON")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting runewatch",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"addr", cfg.Server.Addr,
		"transport", cfg.Server.Transport,
		"events", len(cfg.Subscription.Events),
	)

	var dialer transport.Dialer
	switch cfg.Server.Transport {
	case "websocket":
		dialer = &transport.WebSocket{}
	default:
		dialer = &transport.TCP{}
	}

	client, err := subscriber.New(subscriber.Config{
		Addr:               cfg.Server.Addr,
		Dialer:             dialer,
		Logger:             logger,
		DisableReconnect:   !cfg.Connection.AutoReconnectEnabled(),
		HeartbeatInterval:  cfg.Connection.HeartbeatInterval,
		HeartbeatTimeout:   cfg.Connection.HeartbeatTimeout,
		MaxRetries:         cfg.Connection.MaxRetries,
		ReconnectBaseDelay: cfg.Connection.ReconnectBaseDelay,
		ReconnectMaxDelay:  cfg.Connection.ReconnectMaxDelay,
		JitterRatio:        cfg.Connection.JitterRatio,
		MaxLineLength:      cfg.Connection.MaxLineLength,
		WriteTimeout:       cfg.Connection.WriteTimeout,
		NotificationBuffer: cfg.Connection.NotificationBuffer,
	})
	if err != nil {
		logger.Error("failed to create client", "error", err)
		os.Exit(1)
	}

	if err := client.Subscribe(events.NewSubscriptionRequest(cfg.EventTypes()...)); err != nil {
		logger.Error("failed to subscribe", "error", err)
		os.Exit(1)
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown timed out, forcing close", "error", err)
			client.Close()
		}
	}()

	for n := range client.Notifications() {
		switch n.Kind {
		case subscriber.KindStatusChange:
			logger.Info("status", "status", n.Status.String())
		case subscriber.KindEvent:
			if *verbose {
				data, _ := json.Marshal(n.Event)
				fmt.Println(string(data))
			} else {
				logger.Info("event", "type", string(n.Event.Type))
			}
		case subscriber.KindError:
			logger.Warn("stream error", "error", n.Err)
		case subscriber.KindClosed:
			logger.Info("transport closed")
		}
	}

	logger.Info("runewatch stopped")
}
