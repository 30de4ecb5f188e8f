package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
)

func TestEntitlements_ActiveDueAndExpire(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	repo := repository.NewEntitlementRepository(gdb)
	now := time.Now().UTC().Truncate(time.Millisecond)

	rows := []db.PurchasedEntitlement{
		{UserID: 1, Kind: db.EntitlementPremium, Paid: true, Active: true, ExpiresAt: now.Add(time.Hour)},
		{UserID: 1, Kind: db.EntitlementBoost, Paid: true, Active: true, ExpiresAt: now.Add(-time.Minute)},
		{UserID: 2, Kind: db.EntitlementBoost, Paid: true, Active: true, ExpiresAt: now.Add(-time.Hour)},
		{UserID: 2, Kind: db.EntitlementBoost, Paid: true, Active: true, ExpiresAt: now.Add(-2 * time.Hour)},
		{UserID: 3, Kind: db.EntitlementSpotlight, Paid: false, Active: true, ExpiresAt: now.Add(time.Hour)},
	}
	for i := range rows {
		require.NoError(t, repo.Create(ctx, &rows[i]))
	}

	active, err := repo.Active(ctx, 1, now)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, db.EntitlementPremium, active[0].Kind)

	unpaid, err := repo.Active(ctx, 3, now)
	require.NoError(t, err)
	assert.Empty(t, unpaid)

	users, err := repo.DueOwners(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, users)

	// listing owners changes nothing
	again, err := repo.DueOwners(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, users, again)

	for _, id := range users {
		n, err := repo.ExpireOwner(ctx, id, now)
		require.NoError(t, err)
		assert.Positive(t, n)
	}

	// rows are deactivated, never deleted
	var total, stillActive int64
	require.NoError(t, gdb.Model(&db.PurchasedEntitlement{}).Count(&total).Error)
	require.NoError(t, gdb.Model(&db.PurchasedEntitlement{}).Where("active = ?", true).Count(&stillActive).Error)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, int64(2), stillActive)

	again, err = repo.DueOwners(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, again)

	n, err := repo.ExpireOwner(ctx, 1, now)
	require.NoError(t, err)
	assert.Zero(t, n)
}
