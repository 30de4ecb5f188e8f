package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matchmaker/internal/compat"
	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
)

// AnswerRepository reads questionnaire answers and the answer weight table.
type AnswerRepository struct {
	db *gorm.DB
}

// NewAnswerRepository creates a new repository bound to the given DB connection.
func NewAnswerRepository(database *gorm.DB) *AnswerRepository {
	return &AnswerRepository{db: database}
}

// GetAnswers returns the user's question -> answer map. A user who has not
// taken the test gets an empty map, not an error.
func (r *AnswerRepository) GetAnswers(ctx context.Context, userID uint64) (compat.Answers, error) {
	var rows []db.UserAnswer
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, svcErr.Unavailable("get_answers", err)
	}
	out := make(compat.Answers, len(rows))
	for _, ua := range rows {
		out[ua.QuestionID] = ua.AnswerID
	}
	return out, nil
}

// GetAnswersForUsers batches GetAnswers. Users without answers are absent.
func (r *AnswerRepository) GetAnswersForUsers(ctx context.Context, userIDs []uint64) (map[uint64]compat.Answers, error) {
	out := make(map[uint64]compat.Answers, len(userIDs))
	for _, chunk := range chunks(userIDs, batchSize) {
		var rows []db.UserAnswer
		if err := r.db.WithContext(ctx).Where("user_id IN ?", chunk).Find(&rows).Error; err != nil {
			return nil, svcErr.Unavailable("get_answers_batch", err)
		}
		for _, ua := range rows {
			m, ok := out[ua.UserID]
			if !ok {
				m = compat.Answers{}
				out[ua.UserID] = m
			}
			m[ua.QuestionID] = ua.AnswerID
		}
	}
	return out, nil
}

// GetUsersWithAnswers lists every user with at least one answer, except one.
func (r *AnswerRepository) GetUsersWithAnswers(ctx context.Context, excluding uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.UserAnswer{}).
		Where("user_id <> ?", excluding).
		Distinct().
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, svcErr.Unavailable("users_with_answers", err)
	}
	return ids, nil
}

// GetAnswerWeights returns the explicit per-question weights. A question's
// weight is the largest positive weight among its answers; questions whose
// answers carry none are absent and fall back to compat.DefaultWeight.
func (r *AnswerRepository) GetAnswerWeights(ctx context.Context) (map[uint64]float64, error) {
	var rows []struct {
		QuestionID uint64
		Weight     float64
	}
	err := r.db.WithContext(ctx).
		Model(&db.Answer{}).
		Select("question_id, MAX(weight) AS weight").
		Where("weight IS NOT NULL AND weight > 0").
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, svcErr.Unavailable("answer_weights", err)
	}
	out := make(map[uint64]float64, len(rows))
	for _, row := range rows {
		out[row.QuestionID] = row.Weight
	}
	return out, nil
}

// ReplaceAnswers fully replaces the user's answers in one transaction.
// Retaking the test never merges with the previous answers.
func (r *AnswerRepository) ReplaceAnswers(ctx context.Context, userID uint64, answers compat.Answers) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&db.UserAnswer{}).Error; err != nil {
			return err
		}
		if len(answers) == 0 {
			return nil
		}
		rows := make([]db.UserAnswer, 0, len(answers))
		for q, a := range answers {
			rows = append(rows, db.UserAnswer{UserID: userID, QuestionID: q, AnswerID: a})
		}
		return tx.CreateInBatches(rows, batchSize).Error
	})
	return svcErr.Unavailable("replace_answers", err)
}
