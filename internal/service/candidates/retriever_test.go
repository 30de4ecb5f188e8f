package candidates_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/oggyb/muzz-matchmaker/internal/compat"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	"github.com/oggyb/muzz-matchmaker/internal/logger"
	"github.com/oggyb/muzz-matchmaker/internal/metrics"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
	"github.com/oggyb/muzz-matchmaker/internal/service/candidates"
	"github.com/oggyb/muzz-matchmaker/internal/service/priority"
	"github.com/oggyb/muzz-matchmaker/internal/testutil"
)

// Two questions, weight 1.0 each, requester answers {1:1, 2:1}:
//
//	{1:1, 2:2} -> 90   {1:3, 2:2} -> 70   {1:3, 2:3} -> 60
//	{1:4, 2:4} -> 40   {1:4, 2:5} -> 30
var requesterAnswers = compat.Answers{1: 1, 2: 1}

func newRetriever(t *testing.T, gdb *gorm.DB, weights candidates.WeightCache) *candidates.Retriever {
	t.Helper()
	users := repository.NewUserRepository(gdb)
	m := metrics.NewNop()
	prio := priority.NewService(users, repository.NewEntitlementRepository(gdb), m, logger.Discard())
	return candidates.NewRetriever(
		users,
		repository.NewAnswerRepository(gdb),
		prio,
		weights,
		candidates.Config{QueryTimeout: 2 * time.Second, WeightsCacheTTL: time.Minute},
		m,
		logger.Discard(),
	)
}

func candidate(id uint64, coef float64, lastActive time.Time) db.User {
	u := testutil.User(id, db.GenderFemale)
	u.PriorityCoefficient = coef
	u.LastActiveAt = lastActive
	return u
}

func ids(tier []candidates.Scored) []uint64 {
	out := make([]uint64, len(tier))
	for i, s := range tier {
		out[i] = s.UserID
	}
	return out
}

func TestFind_TiersAndOrdering(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	now := time.Now().UTC().Truncate(time.Millisecond)

	testutil.CreateUsers(t, gdb,
		testutil.User(1, db.GenderMale),
		candidate(2, 1.0, now),                 // 90
		candidate(3, 5.0, now),                 // 60, big boost
		candidate(4, 1.0, now),                 // 70
		candidate(5, 2.0, now),                 // 70, boosted
		candidate(6, 1.0, now.Add(-time.Hour)), // 70, older activity
		candidate(7, 1.0, now),                 // 40
		candidate(8, 1.0, now),                 // 30, dropped
	)
	testutil.SetAnswers(t, gdb, 1, requesterAnswers)
	testutil.SetAnswers(t, gdb, 2, compat.Answers{1: 1, 2: 2})
	testutil.SetAnswers(t, gdb, 3, compat.Answers{1: 3, 2: 3})
	testutil.SetAnswers(t, gdb, 4, compat.Answers{1: 3, 2: 2})
	testutil.SetAnswers(t, gdb, 5, compat.Answers{1: 3, 2: 2})
	testutil.SetAnswers(t, gdb, 6, compat.Answers{1: 3, 2: 2})
	testutil.SetAnswers(t, gdb, 7, compat.Answers{1: 4, 2: 4})
	testutil.SetAnswers(t, gdb, 8, compat.Answers{1: 4, 2: 5})

	r := newRetriever(t, gdb, nil)

	high, low, err := r.Find(ctx, 1, candidates.Filters{}, 10, 70)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 5, 4, 6}, ids(high))
	assert.Equal(t, []uint64{3, 7}, ids(low))
	assert.Equal(t, 90.0, high[0].Score)
	assert.Equal(t, 60.0, low[0].Score)

	// a 60 never outranks a 90, whatever its coefficient
	high, _, err = r.Find(ctx, 1, candidates.Filters{}, 10, 50)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 5, 4, 6, 3}, ids(high))

	high, low, err = r.Find(ctx, 1, candidates.Filters{}, 1, 70)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids(high))
	assert.Equal(t, []uint64{3}, ids(low))
}

func TestFind_RequesterWithoutAnswersGetsEmptyTiers(t *testing.T) {
	gdb := testutil.NewDB(t)
	testutil.CreateUsers(t, gdb, testutil.User(1, db.GenderMale), testutil.User(2, db.GenderFemale))
	testutil.SetAnswers(t, gdb, 2, compat.Answers{1: 1})

	high, low, err := newRetriever(t, gdb, nil).Find(context.Background(), 1, candidates.Filters{}, 10, 70)
	require.NoError(t, err)
	assert.Empty(t, high)
	assert.Empty(t, low)
	assert.NotNil(t, high)
}

func TestFind_NeverIncludesRequester(t *testing.T) {
	gdb := testutil.NewDB(t)
	testutil.CreateUsers(t, gdb, testutil.User(1, db.GenderMale), testutil.User(2, db.GenderMale))
	testutil.SetAnswers(t, gdb, 1, requesterAnswers)
	testutil.SetAnswers(t, gdb, 2, requesterAnswers)

	high, low, err := newRetriever(t, gdb, nil).Find(context.Background(), 1,
		candidates.Filters{GenderPreference: db.GenderMale}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, ids(high))
	assert.Empty(t, low)
}

func TestFind_StoredPreferenceAndFilters(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)

	requester := testutil.User(1, db.GenderMale)
	pref := db.GenderMale
	requester.GenderPreference = &pref
	paris := testutil.User(3, db.GenderMale)
	paris.City = "Paris"
	testutil.CreateUsers(t, gdb, requester, testutil.User(2, db.GenderMale), paris, testutil.User(4, db.GenderFemale))
	for _, id := range []uint64{1, 2, 3, 4} {
		testutil.SetAnswers(t, gdb, id, requesterAnswers)
	}

	r := newRetriever(t, gdb, nil)

	high, _, err := r.Find(ctx, 1, candidates.Filters{}, 10, 70)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint64{2, 3}, ids(high))

	high, _, err = r.Find(ctx, 1, candidates.Filters{City: "Paris", AgeMin: 18, AgeMax: 99}, 10, 70)
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, ids(high))

	high, _, err = r.Find(ctx, 1, candidates.Filters{GenderPreference: db.GenderFemale}, 10, 70)
	require.NoError(t, err)
	assert.Equal(t, []uint64{4}, ids(high))
}

func TestFind_UsesAndFillsWeightCache(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	c, _ := testutil.NewCache(t)

	w := 4.0
	require.NoError(t, gdb.Create(&db.Question{ID: 1, Prompt: "q1"}).Error)
	require.NoError(t, gdb.Create(&db.Answer{ID: 1, QuestionID: 1, Text: "a", Weight: &w}).Error)
	testutil.CreateUsers(t, gdb, testutil.User(1, db.GenderMale), testutil.User(2, db.GenderFemale))
	testutil.SetAnswers(t, gdb, 1, compat.Answers{1: 1, 2: 1})
	testutil.SetAnswers(t, gdb, 2, compat.Answers{1: 1, 2: 6})

	r := newRetriever(t, gdb, c)
	high, _, err := r.Find(ctx, 1, candidates.Filters{}, 10, 0)
	require.NoError(t, err)
	// q1 agrees fully with weight 4, q2 scores 0 with weight 1: 20/25
	require.Len(t, high, 1)
	assert.Equal(t, 80.0, high[0].Score)

	cached, ok, err := c.GetAnswerWeights(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, map[uint64]float64{1: 4}, cached)

	// a cached table takes precedence over the store
	require.NoError(t, c.SetAnswerWeights(ctx, map[uint64]float64{}, time.Minute))
	high, _, err = r.Find(ctx, 1, candidates.Filters{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, high[0].Score)
}

func TestFind_Errors(t *testing.T) {
	ctx := context.Background()
	gdb := testutil.NewDB(t)
	testutil.CreateUsers(t, gdb, testutil.User(1, db.GenderMale))
	r := newRetriever(t, gdb, nil)

	_, _, err := r.Find(ctx, 404, candidates.Filters{}, 10, 70)
	assert.ErrorIs(t, err, svcErr.ErrUserNotFound)

	invalid := []struct {
		name     string
		filters  candidates.Filters
		limit    int
		minScore float64
	}{
		{"age below adult", candidates.Filters{AgeMin: 10}, 10, 70},
		{"inverted age range", candidates.Filters{AgeMin: 40, AgeMax: 30}, 10, 70},
		{"unknown gender", candidates.Filters{GenderPreference: "other"}, 10, 70},
		{"zero limit", candidates.Filters{}, 0, 70},
		{"score above 100", candidates.Filters{}, 10, 101},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := r.Find(ctx, 1, tt.filters, tt.limit, tt.minScore)
			assert.ErrorIs(t, err, svcErr.ErrInvalidArgument)
		})
	}
}
