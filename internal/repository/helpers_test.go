package repository_test

import (
	"testing"

	"gorm.io/gorm"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	"github.com/oggyb/muzz-matchmaker/internal/testutil"
)

func setupTestDB(t *testing.T) *gorm.DB { return testutil.NewDB(t) }

func user(id uint64, g db.Gender) db.User { return testutil.User(id, g) }

func createUsers(t *testing.T, gdb *gorm.DB, users ...db.User) {
	t.Helper()
	testutil.CreateUsers(t, gdb, users...)
}
