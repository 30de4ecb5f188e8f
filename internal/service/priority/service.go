// Package priority derives the ranking coefficient of a user from the paid
// entitlements currently in force.
package priority

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
)

// Per-kind contribution. Each kind counts once however many rows are active.
var (
	multipliers = map[db.EntitlementKind]float64{
		db.EntitlementPremium: 2.0,
		db.EntitlementBoost:   1.5,
	}
	increments = map[db.EntitlementKind]float64{
		db.EntitlementSpotlight: 0.5,
	}
)

// UserStore is the part of the profile store this service touches.
type UserStore interface {
	Get(ctx context.Context, id uint64) (*db.User, error)
	UpdatePriority(ctx context.Context, id uint64, value float64) error
}

// EntitlementStore reads and expires purchased entitlements.
type EntitlementStore interface {
	Active(ctx context.Context, userID uint64, now time.Time) ([]db.PurchasedEntitlement, error)
	DueOwners(ctx context.Context, now time.Time) ([]uint64, error)
	ExpireOwner(ctx context.Context, userID uint64, now time.Time) (int64, error)
}

// Cache holds freshly computed coefficients.
type Cache interface {
	SetPriority(ctx context.Context, userID uint64, coef float64, ttl time.Duration) error
	GetPriorities(ctx context.Context, userIDs []uint64) (map[uint64]float64, error)
}

// Service computes, persists and serves priority coefficients.
type Service struct {
	users        UserStore
	entitlements EntitlementStore
	cache        Cache
	cacheTTL     time.Duration
	now          func() time.Time
	metrics      *metrics.Metrics
	log          *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithCache enables the coefficient cache.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds the service. Without WithCache every read goes to the
// persisted column.
func NewService(users UserStore, entitlements EntitlementStore, m *metrics.Metrics, log *slog.Logger, opts ...Option) *Service {
	s := &Service{
		users:        users,
		entitlements: entitlements,
		now:          time.Now,
		metrics:      m,
		log:          log.With("component", "priority"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Coefficient folds the entitlements in force at now into one value:
// (1 + sum of increments) * product of multipliers, each kind once.
// Unpaid, inactive or expired rows contribute nothing.
func Coefficient(entitlements []db.PurchasedEntitlement, now time.Time) float64 {
	seen := make(map[db.EntitlementKind]bool, len(entitlements))
	base, factor := db.DefaultPriority, 1.0

	for _, e := range entitlements {
		if !e.Paid || !e.Active || !e.ExpiresAt.After(now) || seen[e.Kind] {
			continue
		}
		seen[e.Kind] = true
		if m, ok := multipliers[e.Kind]; ok {
			factor *= m
		}
		if inc, ok := increments[e.Kind]; ok {
			base += inc
		}
	}
	return base * factor
}

// CurrentPriority returns the user's coefficient: the cached fresh value when
// present, the persisted one otherwise.
func (s *Service) CurrentPriority(ctx context.Context, userID uint64) (float64, error) {
	if s.cache != nil {
		cached, err := s.cache.GetPriorities(ctx, []uint64{userID})
		if err != nil {
			s.log.Warn("priority cache read failed", "user_id", userID, "error", err)
		} else if v, ok := cached[userID]; ok {
			return v, nil
		}
	}

	u, err := s.users.Get(ctx, userID)
	if err != nil {
		return 0, err
	}
	return u.PriorityCoefficient, nil
}

// Recompute recalculates the coefficient from the entitlements in force and
// persists it. Calling it again with nothing changed writes the same value.
func (s *Service) Recompute(ctx context.Context, userID uint64) (float64, error) {
	now := s.now()
	active, err := s.entitlements.Active(ctx, userID, now)
	if err != nil {
		return 0, err
	}

	coef := Coefficient(active, now)
	if err := s.users.UpdatePriority(ctx, userID, coef); err != nil {
		return 0, err
	}
	s.metrics.PriorityRecomputes.Inc()

	if s.cache != nil {
		if err := s.cache.SetPriority(ctx, userID, coef, s.cacheTTL); err != nil {
			s.log.Warn("priority cache write failed", "user_id", userID, "error", err)
		}
	}

	s.log.Debug("priority recomputed", "user_id", userID, "coefficient", coef, "entitlements", len(active))
	return coef, nil
}

// ExpireAndSweep recomputes every owner of an entitlement past its end time,
// then deactivates those rows. A row is only deactivated after its owner's
// coefficient was persisted, so an owner whose recompute failed is picked up
// again by the next sweep. A failing owner does not stop the others; the
// joined errors are returned alongside the number of owners swept.
func (s *Service) ExpireAndSweep(ctx context.Context) (int, error) {
	now := s.now()
	owners, err := s.entitlements.DueOwners(ctx, now)
	if err != nil {
		return 0, err
	}

	var (
		errs  []error
		swept int
	)
	for _, id := range owners {
		if _, err := s.Recompute(ctx, id); err != nil {
			s.log.Error("recompute after expiry failed", "user_id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		if _, err := s.entitlements.ExpireOwner(ctx, id, now); err != nil {
			s.log.Error("deactivating expired entitlements failed", "user_id", id, "error", err)
			errs = append(errs, err)
			continue
		}
		swept++
	}
	s.metrics.EntitlementsExpired.Add(float64(swept))
	return swept, errors.Join(errs...)
}

// Coefficients resolves the coefficient of each user for ranking. The
// persisted column is the baseline; fresh cached values win. A cache failure
// never fails retrieval.
func (s *Service) Coefficients(ctx context.Context, users []db.User) map[uint64]float64 {
	out := make(map[uint64]float64, len(users))
	ids := make([]uint64, len(users))
	for i, u := range users {
		out[u.ID] = u.PriorityCoefficient
		ids[i] = u.ID
	}
	if s.cache == nil || len(ids) == 0 {
		return out
	}

	cached, err := s.cache.GetPriorities(ctx, ids)
	if err != nil {
		s.log.Warn("priority cache read failed, using persisted coefficients", "users", len(ids), "error", err)
		return out
	}
	for id, v := range cached {
		out[id] = v
	}
	return out
}
