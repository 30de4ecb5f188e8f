// Package notify delivers match notifications to both participants.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
)

// Payload is what each participant receives: the partner's identity so the
// two can contact each other.
type Payload struct {
	NotificationID  string    `json:"notification_id"`
	MatchID         uint64    `json:"match_id"`
	UserID          uint64    `json:"user_id"`
	PartnerID       uint64    `json:"partner_id"`
	PartnerUsername string    `json:"partner_username,omitempty"`
	MatchedAt       time.Time `json:"matched_at"`
}

// Sender delivers one payload to one user. A single attempt, no retry.
type Sender interface {
	Send(ctx context.Context, userID uint64, p Payload) error
}

// UserLookup resolves usernames for the payload.
type UserLookup interface {
	GetMany(ctx context.Context, ids []uint64) (map[uint64]db.User, error)
}

// MatchNotifier fans a created match out to both participants.
type MatchNotifier struct {
	sender  Sender
	users   UserLookup
	metrics *metrics.Metrics
	log     *slog.Logger
	timeout time.Duration
}

// NewMatchNotifier builds a notifier. users may be nil, payloads then carry
// ids only. timeout bounds each delivery; zero means no extra bound.
func NewMatchNotifier(sender Sender, users UserLookup, m *metrics.Metrics, log *slog.Logger, timeout time.Duration) *MatchNotifier {
	return &MatchNotifier{
		sender:  sender,
		users:   users,
		metrics: m,
		log:     log.With("component", "notify"),
		timeout: timeout,
	}
}

// Notify sends one message to each participant. Deliveries are independent:
// a failure for one user is logged and counted and never stops the other,
// and nothing is returned to the caller since the match is already committed.
func (n *MatchNotifier) Notify(ctx context.Context, match db.Match) {
	names := n.usernames(ctx, match)

	for _, userID := range []uint64{match.UserAID, match.UserBID} {
		partner := match.Partner(userID)
		p := Payload{
			NotificationID:  uuid.NewString(),
			MatchID:         match.ID,
			UserID:          userID,
			PartnerID:       partner,
			PartnerUsername: names[partner],
			MatchedAt:       match.CreatedAt,
		}

		if err := n.send(ctx, userID, p); err != nil {
			n.metrics.NotificationsTotal.WithLabelValues("failed").Inc()
			n.log.Warn("match notification failed",
				"match_id", match.ID,
				"user_id", userID,
				"notification_id", p.NotificationID,
				"error", err,
			)
			continue
		}
		n.metrics.NotificationsTotal.WithLabelValues("sent").Inc()
		n.log.Debug("match notification sent", "match_id", match.ID, "user_id", userID)
	}
}

func (n *MatchNotifier) send(ctx context.Context, userID uint64, p Payload) error {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}
	return n.sender.Send(ctx, userID, p)
}

// usernames is best effort: a lookup failure only drops the names.
func (n *MatchNotifier) usernames(ctx context.Context, match db.Match) map[uint64]string {
	out := map[uint64]string{}
	if n.users == nil {
		return out
	}
	users, err := n.users.GetMany(ctx, []uint64{match.UserAID, match.UserBID})
	if err != nil {
		n.log.Warn("username lookup failed", "match_id", match.ID, "error", err)
		return out
	}
	for id, u := range users {
		out[id] = u.Username
	}
	return out
}

// LogSender writes payloads to the log. It stands in for the channel when no
// broker is configured.
type LogSender struct {
	Log *slog.Logger
}

// Send implements Sender.
func (s LogSender) Send(_ context.Context, userID uint64, p Payload) error {
	s.Log.Info("match notification", "user_id", userID, "partner_id", p.PartnerID, "match_id", p.MatchID)
	return nil
}
