// Package messaging wraps the NATS connection used to deliver match
// notifications. It handles connection lifecycle and subject naming.
package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/oggyb/muzz-matchmaker/internal/config"
)

// SubjectMatchNotify is the default notification prefix: + .<user_id>
const SubjectMatchNotify = "match.notify"

// NATSClient wraps the NATS connection with helper methods for publishing.
type NATSClient struct {
	conn   *nats.Conn
	prefix string
	log    *slog.Logger
}

// NATSConfig holds NATS connection settings.
type NATSConfig struct {
	URL           string        // nats://localhost:4222
	Name          string        // client name for identification
	SubjectPrefix string        // match.notify
	ReconnectWait time.Duration // time between reconnect attempts
	MaxReconnects int           // max reconnect attempts (-1 for infinite)
}

// ConfigFrom extracts the NATS section of the service configuration.
func ConfigFrom(cfg *config.Config) NATSConfig {
	return NATSConfig{
		URL:           cfg.NATS.URL,
		Name:          cfg.NATS.Name,
		SubjectPrefix: cfg.NATS.SubjectPrefix,
		ReconnectWait: cfg.NATS.ReconnectWait,
		MaxReconnects: cfg.NATS.MaxReconnects,
	}
}

// NewNATSClient connects to NATS with the given config and returns a ready client.
// It returns an error if the initial connection fails.
func NewNATSClient(c NATSConfig, log *slog.Logger) (*NATSClient, error) {
	log = log.With("component", "nats")
	opts := []nats.Option{
		nats.Name(c.Name),
		nats.ReconnectWait(c.ReconnectWait),
		nats.MaxReconnects(c.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn("disconnected", "error", err)
			} else {
				log.Warn("disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			log.Info("connection closed")
		}),
	}

	nc, err := nats.Connect(c.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	log.Info("connected", "url", nc.ConnectedUrl())

	prefix := c.SubjectPrefix
	if prefix == "" {
		prefix = SubjectMatchNotify
	}
	return &NATSClient{conn: nc, prefix: prefix, log: log}, nil
}

// NotifySubject returns <prefix>.<user_id>.
func (c *NATSClient) NotifySubject(userID uint64) string {
	return c.prefix + "." + strconv.FormatUint(userID, 10)
}

// Publish sends data to the given subject and waits for the server to
// acknowledge it via a flush bounded by ctx.
func (c *NATSClient) Publish(ctx context.Context, subject string, data []byte) error {
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}
	if err := c.conn.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("nats flush %s: %w", subject, err)
	}
	return nil
}

// IsConnected reports whether the connection is currently usable.
func (c *NATSClient) IsConnected() bool {
	return c.conn != nil && c.conn.IsConnected()
}

// Conn exposes the underlying connection, for subscribers in tests and tools.
func (c *NATSClient) Conn() *nats.Conn {
	return c.conn
}

// Close drains the connection and closes it.
func (c *NATSClient) Close() {
	if err := c.conn.Drain(); err != nil {
		c.log.Warn("connection drain", "error", err)
	}
	c.log.Info("client closed")
}
