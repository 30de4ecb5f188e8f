package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-matchmaker/internal/compat"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
)

func TestReplaceAnswers_FullReplace(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAnswerRepository(gdb)

	require.NoError(t, repo.ReplaceAnswers(ctx, 1, compat.Answers{1: 1, 2: 2, 3: 3}))
	require.NoError(t, repo.ReplaceAnswers(ctx, 1, compat.Answers{2: 5}))

	got, err := repo.GetAnswers(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, compat.Answers{2: 5}, got)

	empty, err := repo.GetAnswers(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetAnswersForUsersAndUsersWithAnswers(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewAnswerRepository(gdb)

	require.NoError(t, repo.ReplaceAnswers(ctx, 1, compat.Answers{1: 1}))
	require.NoError(t, repo.ReplaceAnswers(ctx, 2, compat.Answers{1: 2, 2: 7}))
	require.NoError(t, repo.ReplaceAnswers(ctx, 3, compat.Answers{1: 3}))

	batch, err := repo.GetAnswersForUsers(ctx, []uint64{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]compat.Answers{2: {1: 2, 2: 7}, 3: {1: 3}}, batch)

	ids, err := repo.GetUsersWithAnswers(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 3}, ids)
}

func TestGetAnswerWeights(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)

	w := func(v float64) *float64 { return &v }
	require.NoError(t, gdb.Create(&[]db.Question{{ID: 1, Prompt: "q1"}, {ID: 2, Prompt: "q2"}, {ID: 3, Prompt: "q3"}}).Error)
	require.NoError(t, gdb.Create(&[]db.Answer{
		{ID: 1, QuestionID: 1, Text: "a", Weight: w(2)},
		{ID: 2, QuestionID: 1, Text: "b", Weight: w(3)},
		{ID: 3, QuestionID: 2, Text: "c"},
		{ID: 4, QuestionID: 3, Text: "d", Weight: w(0)},
	}).Error)

	got, err := repository.NewAnswerRepository(gdb).GetAnswerWeights(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[uint64]float64{1: 3}, got)
}
