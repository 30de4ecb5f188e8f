// Package candidates ranks the eligible pool of a requester by compatibility.
package candidates

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/oggyb/muzz-matchmaker/internal/compat"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
)

// LowTierFloor is the exclusive lower bound of the low tier. Scores at or
// below it are dropped.
const LowTierFloor = 30.0

// Filters narrow the candidate pool. Zero values mean "no filter".
type Filters struct {
	City             string    `validate:"omitempty,max=128"`
	AgeMin           int       `validate:"omitempty,min=18,max=120"`
	AgeMax           int       `validate:"omitempty,min=18,max=120,gtefield=AgeMin"`
	GenderPreference db.Gender `validate:"omitempty,oneof=male female"`
}

type query struct {
	Filters  Filters
	Limit    int     `validate:"min=1,max=100"`
	MinScore float64 `validate:"min=0,max=100"`
}

// Scored is one ranked candidate. Score is rounded to two decimals.
type Scored struct {
	UserID uint64
	Score  float64
}

// UserStore reads the requester and the eligible pool.
type UserStore interface {
	Get(ctx context.Context, id uint64) (*db.User, error)
	ListCandidates(ctx context.Context, q repository.CandidateQuery) ([]db.User, error)
}

// AnswerStore reads questionnaire answers and the weight table.
type AnswerStore interface {
	GetAnswers(ctx context.Context, userID uint64) (compat.Answers, error)
	GetAnswersForUsers(ctx context.Context, userIDs []uint64) (map[uint64]compat.Answers, error)
	GetAnswerWeights(ctx context.Context) (map[uint64]float64, error)
}

// WeightCache caches the weight table in front of the store.
type WeightCache interface {
	GetAnswerWeights(ctx context.Context) (map[uint64]float64, bool, error)
	SetAnswerWeights(ctx context.Context, weights map[uint64]float64, ttl time.Duration) error
}

// Prioritizer resolves ranking coefficients and never fails.
type Prioritizer interface {
	Coefficients(ctx context.Context, users []db.User) map[uint64]float64
}

// Retriever implements the compatible candidate search.
type Retriever struct {
	users      UserStore
	answers    AnswerStore
	priorities Prioritizer
	weights    WeightCache
	weightsTTL time.Duration
	timeout    time.Duration
	validate   *validator.Validate
	metrics    *metrics.Metrics
	log        *slog.Logger
}

// Config tunes a Retriever.
type Config struct {
	// QueryTimeout bounds one whole search. Zero disables the bound.
	QueryTimeout time.Duration
	// WeightsCacheTTL is how long a cached weight table lives.
	WeightsCacheTTL time.Duration
}

// NewRetriever wires the search. weights may be nil to always read the
// table from the store.
func NewRetriever(
	users UserStore,
	answers AnswerStore,
	priorities Prioritizer,
	weights WeightCache,
	cfg Config,
	m *metrics.Metrics,
	log *slog.Logger,
) *Retriever {
	return &Retriever{
		users:      users,
		answers:    answers,
		priorities: priorities,
		weights:    weights,
		weightsTTL: cfg.WeightsCacheTTL,
		timeout:    cfg.QueryTimeout,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		metrics:    m,
		log:        log.With("component", "candidates"),
	}
}

type ranked struct {
	user  db.User
	score float64
	coef  float64
}

// Find returns the high tier (score >= minScore) and the low tier
// (LowTierFloor < score < minScore) for userID, each sorted by score, then
// priority coefficient, then last activity, and truncated to limit.
//
// A requester without answers gets two empty tiers and no error.
func (r *Retriever) Find(ctx context.Context, userID uint64, f Filters, limit int, minScore float64) ([]Scored, []Scored, error) {
	if err := r.validate.Struct(query{Filters: f, Limit: limit, MinScore: minScore}); err != nil {
		return nil, nil, svcErr.Invalid(err.Error())
	}

	start := time.Now()
	defer func() { r.metrics.CandidateSearchDuration.Observe(time.Since(start).Seconds()) }()

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	requester, err := r.users.Get(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	mine, err := r.answers.GetAnswers(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if len(mine) == 0 {
		r.log.Debug("requester has no answers", "user_id", userID)
		return []Scored{}, []Scored{}, nil
	}

	gender := f.GenderPreference
	if gender == "" {
		gender = requester.EffectivePreference()
	}
	pool, err := r.users.ListCandidates(ctx, repository.CandidateQuery{
		ExcludeID: userID,
		Gender:    gender,
		City:      f.City,
		AgeMin:    f.AgeMin,
		AgeMax:    f.AgeMax,
	})
	if err != nil {
		return nil, nil, err
	}
	if len(pool) == 0 {
		return []Scored{}, []Scored{}, nil
	}

	weights, err := r.weightTable(ctx)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uint64, len(pool))
	for i, u := range pool {
		ids[i] = u.ID
	}
	theirs, err := r.answers.GetAnswersForUsers(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	coefs := r.priorities.Coefficients(ctx, pool)

	var high, low []ranked
	for _, u := range pool {
		if u.ID == userID {
			continue
		}
		s := compat.Score(mine, theirs[u.ID], weights)
		switch {
		case s >= minScore:
			high = append(high, ranked{user: u, score: s, coef: coefs[u.ID]})
		case s > LowTierFloor:
			low = append(low, ranked{user: u, score: s, coef: coefs[u.ID]})
		}
	}

	hi, lo := finish(high, limit), finish(low, limit)
	r.metrics.CandidatesReturned.WithLabelValues("high").Observe(float64(len(hi)))
	r.metrics.CandidatesReturned.WithLabelValues("low").Observe(float64(len(lo)))
	r.log.Debug("candidates ranked",
		"user_id", userID,
		"pool", len(pool),
		"high", len(hi),
		"low", len(lo),
	)
	return hi, lo, nil
}

// weightTable reads through the cache. A cache failure falls back to the store.
func (r *Retriever) weightTable(ctx context.Context) (compat.Weights, error) {
	if r.weights != nil {
		cached, ok, err := r.weights.GetAnswerWeights(ctx)
		if err != nil {
			r.log.Warn("weight cache read failed", "error", err)
		} else if ok {
			return compat.NewWeights(cached), nil
		}
	}

	table, err := r.answers.GetAnswerWeights(ctx)
	if err != nil {
		return compat.Weights{}, err
	}
	if r.weights != nil {
		if err := r.weights.SetAnswerWeights(ctx, table, r.weightsTTL); err != nil {
			r.log.Warn("weight cache write failed", "error", err)
		}
	}
	return compat.NewWeights(table), nil
}

func finish(tier []ranked, limit int) []Scored {
	slices.SortFunc(tier, func(a, b ranked) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}
		if c := cmp.Compare(b.coef, a.coef); c != 0 {
			return c
		}
		if c := b.user.LastActiveAt.Compare(a.user.LastActiveAt); c != 0 {
			return c
		}
		return cmp.Compare(a.user.ID, b.user.ID)
	})
	if len(tier) > limit {
		tier = tier[:limit]
	}

	out := make([]Scored, len(tier))
	for i, c := range tier {
		out[i] = Scored{UserID: c.user.ID, Score: compat.Round2(c.score)}
	}
	return out
}
