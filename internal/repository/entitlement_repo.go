package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
)

// EntitlementRepository reads purchased entitlements. Their lifecycle is owned
// elsewhere; this store only deactivates expired rows, it never deletes.
type EntitlementRepository struct {
	db *gorm.DB
}

// NewEntitlementRepository creates a new repository bound to the given DB connection.
func NewEntitlementRepository(database *gorm.DB) *EntitlementRepository {
	return &EntitlementRepository{db: database}
}

// Create stores a purchased entitlement.
func (r *EntitlementRepository) Create(ctx context.Context, e *db.PurchasedEntitlement) error {
	return svcErr.Unavailable("create_entitlement", r.db.WithContext(ctx).Create(e).Error)
}

// Active returns the user's entitlements that are active, paid and not
// expired at now.
func (r *EntitlementRepository) Active(ctx context.Context, userID uint64, now time.Time) ([]db.PurchasedEntitlement, error) {
	var rows []db.PurchasedEntitlement
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND active = ? AND paid = ? AND expires_at > ?", userID, true, true, now).
		Find(&rows).Error
	if err != nil {
		return nil, svcErr.Unavailable("active_entitlements", err)
	}
	return rows, nil
}

// DueOwners returns the distinct owners of active entitlements whose end time
// has passed. Nothing is modified: rows stay selectable until ExpireOwner
// runs for their owner.
func (r *EntitlementRepository) DueOwners(ctx context.Context, now time.Time) ([]uint64, error) {
	var users []uint64
	err := r.db.WithContext(ctx).
		Model(&db.PurchasedEntitlement{}).
		Distinct("user_id").
		Where("active = ? AND expires_at <= ?", true, now).
		Order("user_id").
		Pluck("user_id", &users).Error
	if err != nil {
		return nil, svcErr.Unavailable("due_entitlement_owners", err)
	}
	return users, nil
}

// ExpireOwner deactivates the user's entitlements that ended at or before now
// and returns how many rows changed.
func (r *EntitlementRepository) ExpireOwner(ctx context.Context, userID uint64, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&db.PurchasedEntitlement{}).
		Where("user_id = ? AND active = ? AND expires_at <= ?", userID, true, now).
		Update("active", false)
	if res.Error != nil {
		return 0, svcErr.Unavailable("expire_entitlements", res.Error)
	}
	return res.RowsAffected, nil
}
