package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/logger"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
)

type fakeSender struct {
	mu     sync.Mutex
	sent   []Payload
	failOn map[uint64]bool
}

func (f *fakeSender) Send(_ context.Context, userID uint64, p Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[userID] {
		return errors.New("channel down")
	}
	f.sent = append(f.sent, p)
	return nil
}

type fakeUsers map[uint64]db.User

func (f fakeUsers) GetMany(_ context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := map[uint64]db.User{}
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type brokenUsers struct{}

func (brokenUsers) GetMany(context.Context, []uint64) (map[uint64]db.User, error) {
	return nil, errors.New("db down")
}

func testMatch() db.Match {
	return db.Match{ID: 7, UserAID: 1, UserBID: 2, CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
}

func TestNotify_BothParticipantsNamePartner(t *testing.T) {
	s := &fakeSender{}
	m := metrics.NewNop()
	users := fakeUsers{1: {ID: 1, Username: "alice"}, 2: {ID: 2, Username: "bob"}}

	NewMatchNotifier(s, users, m, logger.Discard(), time.Second).Notify(context.Background(), testMatch())

	require.Len(t, s.sent, 2)
	byUser := map[uint64]Payload{}
	for _, p := range s.sent {
		byUser[p.UserID] = p
	}
	assert.Equal(t, uint64(2), byUser[1].PartnerID)
	assert.Equal(t, "bob", byUser[1].PartnerUsername)
	assert.Equal(t, uint64(1), byUser[2].PartnerID)
	assert.Equal(t, "alice", byUser[2].PartnerUsername)
	assert.Equal(t, uint64(7), byUser[1].MatchID)
	assert.NotEqual(t, byUser[1].NotificationID, byUser[2].NotificationID)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("sent")))
}

func TestNotify_OneFailureDoesNotBlockTheOther(t *testing.T) {
	s := &fakeSender{failOn: map[uint64]bool{1: true}}
	m := metrics.NewNop()

	NewMatchNotifier(s, nil, m, logger.Discard(), 0).Notify(context.Background(), testMatch())

	require.Len(t, s.sent, 1)
	assert.Equal(t, uint64(2), s.sent[0].UserID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("sent")))
}

func TestNotify_UsernameLookupIsBestEffort(t *testing.T) {
	s := &fakeSender{}

	NewMatchNotifier(s, brokenUsers{}, metrics.NewNop(), logger.Discard(), 0).Notify(context.Background(), testMatch())

	require.Len(t, s.sent, 2)
	assert.Empty(t, s.sent[0].PartnerUsername)
}
