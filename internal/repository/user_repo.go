package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
)

// UserRepository reads profiles owned by the profile subsystem. The only
// column it writes is the priority coefficient.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// CandidateQuery is the eligibility predicate of the candidate pool.
// Zero values of the optional fields mean "no filter".
type CandidateQuery struct {
	ExcludeID uint64
	Gender    db.Gender
	City      string
	AgeMin    int
	AgeMax    int
}

// Get returns the user or svcErr.ErrUserNotFound.
func (r *UserRepository) Get(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFound(id)
	}
	if err != nil {
		return nil, svcErr.Unavailable("get_user", err)
	}
	return &u, nil
}

// GetMany returns the existing users among ids keyed by id.
func (r *UserRepository) GetMany(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	for _, chunk := range chunks(ids, batchSize) {
		var users []db.User
		if err := r.db.WithContext(ctx).Where("id IN ?", chunk).Find(&users).Error; err != nil {
			return nil, svcErr.Unavailable("get_users", err)
		}
		for _, u := range users {
			out[u.ID] = u
		}
	}
	return out, nil
}

// UpdatePriority persists a recomputed coefficient.
func (r *UserRepository) UpdatePriority(ctx context.Context, id uint64, value float64) error {
	err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Update("priority_coefficient", value).Error
	return svcErr.Unavailable("update_priority", err)
}

// ListCandidates returns every user matching the eligibility predicate:
// not the requester, active, approved, with at least one stored answer, of
// the wanted gender and inside the optional city / age filters.
//
// Example:
//
//	repo.ListCandidates(ctx, CandidateQuery{ExcludeID: 1, Gender: db.GenderFemale, City: "London"})
func (r *UserRepository) ListCandidates(ctx context.Context, q CandidateQuery) ([]db.User, error) {
	query := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("users.id <> ?", q.ExcludeID).
		Where("users.status = ? AND users.moderation = ?", db.StatusActive, db.ModerationApproved).
		Where("users.gender = ?", q.Gender).
		Where("EXISTS (SELECT 1 FROM user_answers ua WHERE ua.user_id = users.id)")

	if q.City != "" {
		query = query.Where("users.city = ?", q.City)
	}
	if q.AgeMin > 0 {
		query = query.Where("users.age >= ?", q.AgeMin)
	}
	if q.AgeMax > 0 {
		query = query.Where("users.age <= ?", q.AgeMax)
	}

	var users []db.User
	if err := query.Order("users.id").Find(&users).Error; err != nil {
		return nil, svcErr.Unavailable("list_candidates", err)
	}
	return users, nil
}
