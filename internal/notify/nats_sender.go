package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// Publisher is the slice of messaging.NATSClient the sender needs.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	NotifySubject(userID uint64) string
}

// BreakerConfig tunes the circuit breaker in front of the channel.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// NATSSender publishes JSON payloads to <prefix>.<user_id>. A broker outage
// opens the breaker so deliveries fail fast instead of piling up timeouts.
type NATSSender struct {
	pub Publisher
	cb  *gobreaker.CircuitBreaker[struct{}]
}

// NewNATSSender wires a publisher behind a breaker.
func NewNATSSender(pub Publisher, bc BreakerConfig, log *slog.Logger) *NATSSender {
	if bc.FailureThreshold == 0 {
		bc.FailureThreshold = 5
	}
	settings := gobreaker.Settings{
		Name:        bc.Name,
		MaxRequests: 1,
		Timeout:     bc.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("notification breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	}
	return &NATSSender{
		pub: pub,
		cb:  gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Send implements Sender.
func (s *NATSSender) Send(ctx context.Context, userID uint64, p Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	subject := s.pub.NotifySubject(userID)
	_, err = s.cb.Execute(func() (struct{}, error) {
		return struct{}{}, s.pub.Publish(ctx, subject, data)
	})
	return err
}

// Check fails while the breaker is open, i.e. notifications are being
// dropped without reaching NATS. It fits server.HealthCheck.
func (s *NATSSender) Check(context.Context) error {
	if st := s.cb.State(); st == gobreaker.StateOpen {
		return fmt.Errorf("notification breaker %s", st)
	}
	return nil
}
