// Package likes records directed likes and turns mutual ones into matches.
package likes

import (
	"context"
	"log/slog"
	"time"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Store is the transactional like/match store.
type Store interface {
	LikeAndMatch(ctx context.Context, likerID, likeeID uint64) (repository.LikeOutcome, error)
	MutualExists(ctx context.Context, a, b uint64) (bool, error)
	GetLikers(ctx context.Context, likeeID uint64, token *string, limit int) ([]db.Like, *string, error)
	GetNewLikers(ctx context.Context, likeeID uint64, token *string, limit int) ([]db.Like, *string, error)
	CountLikers(ctx context.Context, likeeID uint64) (int64, error)
	MarkViewed(ctx context.Context, likeeID, likerID uint64) (bool, error)
	ListMatches(ctx context.Context, userID uint64, limit int) ([]db.Match, error)
}

// CountCache caches "liked you" counters.
type CountCache interface {
	GetLikeCount(ctx context.Context, userID uint64) (int64, bool, error)
	LikeCountVersion(ctx context.Context, userID uint64) (int64, error)
	SetLikeCount(ctx context.Context, userID uint64, count, version int64) error
	InvalidateLikeCount(ctx context.Context, userID uint64) error
}

// Notifier is told about every newly created match. It never fails.
type Notifier interface {
	Notify(ctx context.Context, match db.Match)
}

// Result of one Like call.
type Result struct {
	// AlreadyLiked: this exact direction existed before, nothing changed.
	AlreadyLiked bool
	// MatchCreated: this call created the pair's match. True for exactly one call per pair.
	MatchCreated bool
	// Mutual: both directions exist, so the pair is matched.
	Mutual  bool
	MatchID uint64
}

// Ledger is the like/match state machine.
type Ledger struct {
	store    Store
	counts   CountCache
	notifier Notifier
	timeout  time.Duration
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewLedger wires the ledger. counts may be nil to always count in the store.
// timeout bounds every store call; zero disables the bound.
func NewLedger(store Store, counts CountCache, notifier Notifier, timeout time.Duration, m *metrics.Metrics, log *slog.Logger) *Ledger {
	return &Ledger{
		store:    store,
		counts:   counts,
		notifier: notifier,
		timeout:  timeout,
		metrics:  m,
		log:      log.With("component", "likes"),
	}
}

// Like records from -> to. Repeating it is a no-op reporting AlreadyLiked.
// When the reverse like exists the pair is matched atomically; the caller
// that creates the match gets MatchCreated and the notifier runs once, after
// commit, detached from the caller's cancellation.
func (l *Ledger) Like(ctx context.Context, from, to uint64) (Result, error) {
	if from == 0 || to == 0 {
		return Result{}, svcErr.Invalid("user ids are required")
	}
	if from == to {
		return Result{}, svcErr.Invalid("cannot like yourself")
	}

	opCtx, cancel := l.withTimeout(ctx)
	defer cancel()

	out, err := l.store.LikeAndMatch(opCtx, from, to)
	if err != nil {
		l.metrics.LikesTotal.WithLabelValues("failed").Inc()
		l.log.Error("like failed", "from", from, "to", to, "error", err)
		return Result{}, err
	}

	res := Result{AlreadyLiked: out.AlreadyLiked, MatchCreated: out.MatchCreated, Mutual: out.Mutual}
	if out.Match != nil {
		res.MatchID = out.Match.ID
	}

	if out.AlreadyLiked {
		l.metrics.LikesTotal.WithLabelValues("repeated").Inc()
	} else {
		l.metrics.LikesTotal.WithLabelValues("created").Inc()
		l.invalidateCount(opCtx, to)
	}

	if out.MatchCreated {
		l.metrics.MatchesCreated.Inc()
		l.log.Info("match created", "match_id", out.Match.ID, "user_a", out.Match.UserAID, "user_b", out.Match.UserBID)
		if l.notifier != nil {
			l.notifier.Notify(context.WithoutCancel(ctx), *out.Match)
		}
	}
	return res, nil
}

// MutualExists reports whether a and b like each other. Read-only.
func (l *Ledger) MutualExists(ctx context.Context, a, b uint64) (bool, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.store.MutualExists(ctx, a, b)
}

// ListLikedYou pages through everyone who liked userID, newest first.
func (l *Ledger) ListLikedYou(ctx context.Context, userID uint64, token *string, limit int) ([]db.Like, *string, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.store.GetLikers(ctx, userID, token, pageSize(limit))
}

// ListNewLikedYou pages through likers userID has not liked back.
func (l *Ledger) ListNewLikedYou(ctx context.Context, userID uint64, token *string, limit int) ([]db.Like, *string, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.store.GetNewLikers(ctx, userID, token, pageSize(limit))
}

// CountLikedYou returns how many users liked userID, cache first.
func (l *Ledger) CountLikedYou(ctx context.Context, userID uint64) (int64, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	cacheable := l.counts != nil
	var version int64
	if cacheable {
		n, ok, err := l.counts.GetLikeCount(ctx, userID)
		if err != nil {
			l.log.Warn("like count cache read failed", "user_id", userID, "error", err)
		} else if ok {
			return n, nil
		}
		if version, err = l.counts.LikeCountVersion(ctx, userID); err != nil {
			l.log.Warn("like count version read failed", "user_id", userID, "error", err)
			cacheable = false
		}
	}

	n, err := l.store.CountLikers(ctx, userID)
	if err != nil {
		return 0, err
	}
	if cacheable {
		if err := l.counts.SetLikeCount(ctx, userID, n, version); err != nil {
			l.log.Warn("like count cache write failed", "user_id", userID, "error", err)
		}
	}
	return n, nil
}

// MarkViewed flags liker's like as seen by likee. It reports whether the
// like exists.
func (l *Ledger) MarkViewed(ctx context.Context, likeeID, likerID uint64) (bool, error) {
	if likeeID == likerID {
		return false, svcErr.Invalid("cannot view your own like")
	}
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.store.MarkViewed(ctx, likeeID, likerID)
}

// ListMatches returns userID's matches, newest first.
func (l *Ledger) ListMatches(ctx context.Context, userID uint64, limit int) ([]db.Match, error) {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()
	return l.store.ListMatches(ctx, userID, pageSize(limit))
}

func (l *Ledger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}

func (l *Ledger) invalidateCount(ctx context.Context, userID uint64) {
	if l.counts == nil {
		return
	}
	if err := l.counts.InvalidateLikeCount(ctx, userID); err != nil {
		l.log.Warn("like count invalidation failed", "user_id", userID, "error", err)
	}
}

func pageSize(limit int) int {
	switch {
	case limit <= 0:
		return defaultPageSize
	case limit > maxPageSize:
		return maxPageSize
	}
	return limit
}
