package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-matchmaker/internal/compat"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
)

func TestListCandidates_Eligibility(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)

	blocked := user(3, db.GenderFemale)
	blocked.Status = db.StatusBlocked
	pending := user(4, db.GenderFemale)
	pending.Moderation = db.ModerationPending
	paris := user(6, db.GenderFemale)
	paris.City = "Paris"
	young := user(7, db.GenderFemale)
	young.Age = 19

	createUsers(t, gdb,
		user(1, db.GenderMale),   // requester
		user(2, db.GenderFemale), // eligible
		blocked,
		pending,
		user(5, db.GenderMale), // wrong gender
		paris,
		young,
		user(8, db.GenderFemale), // no answers
	)
	answers := repository.NewAnswerRepository(gdb)
	for _, id := range []uint64{1, 2, 3, 4, 5, 6, 7} {
		require.NoError(t, answers.ReplaceAnswers(ctx, id, compat.Answers{1: 1}))
	}

	repo := repository.NewUserRepository(gdb)

	got, err := repo.ListCandidates(ctx, repository.CandidateQuery{ExcludeID: 1, Gender: db.GenderFemale})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2, 6, 7}, userIDs(got))

	got, err = repo.ListCandidates(ctx, repository.CandidateQuery{ExcludeID: 1, Gender: db.GenderFemale, City: "London", AgeMin: 25, AgeMax: 40})
	require.NoError(t, err)
	assert.Equal(t, []uint64{2}, userIDs(got))

	// requester never sees themself, even when the gender matches
	got, err = repo.ListCandidates(ctx, repository.CandidateQuery{ExcludeID: 1, Gender: db.GenderMale})
	require.NoError(t, err)
	assert.Equal(t, []uint64{5}, userIDs(got))
}

func TestGetAndUpdatePriority(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	createUsers(t, gdb, user(1, db.GenderMale))
	repo := repository.NewUserRepository(gdb)

	require.NoError(t, repo.UpdatePriority(ctx, 1, 2.5))
	u, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2.5, u.PriorityCoefficient)

	_, err = repo.Get(ctx, 404)
	assert.ErrorIs(t, err, svcErr.ErrUserNotFound)

	many, err := repo.GetMany(ctx, []uint64{1, 404})
	require.NoError(t, err)
	assert.Len(t, many, 1)
	assert.Equal(t, "user1", many[1].Username)
}

func userIDs(users []db.User) []uint64 {
	out := make([]uint64, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}
