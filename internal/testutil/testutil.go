// Package testutil holds fixtures shared by package tests: an isolated
// SQLite schema, eligible user profiles and a miniredis-backed cache.
package testutil

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matchmaker/internal/cache"
	"github.com/oggyb/muzz-matchmaker/internal/compat"
	"github.com/oggyb/muzz-matchmaker/internal/db"
)

// NewDB opens an isolated in-memory SQLite DB with the full schema.
// A single connection keeps concurrent transactions from tripping over
// SQLite's shared-cache table locks, so callers are serialized.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	return open(t, fmt.Sprintf("file:%s?mode=memory&cache=shared", name), 1)
}

// NewPooledDB opens a file-backed SQLite DB served by conns connections, for
// tests where transactions must really run side by side. Transactions begin
// IMMEDIATE and wait on the busy timeout instead of failing with SQLITE_BUSY.
func NewPooledDB(t *testing.T, conns int) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matchmaker.db")
	return open(t, fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=10000&_journal_mode=WAL", path), conns)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := database.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.AutoMigrate(db.Models()...))
	return database
}

// NewCache starts a miniredis instance and returns a cache bound to it.
func NewCache(t *testing.T) (*cache.RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := &cache.RedisCache{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()})}
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

// User builds an eligible profile; tweak the result before inserting.
func User(id uint64, g db.Gender) db.User {
	return db.User{
		ID:                  id,
		Username:            fmt.Sprintf("user%d", id),
		Gender:              g,
		Age:                 30,
		City:                "London",
		Status:              db.StatusActive,
		Moderation:          db.ModerationApproved,
		PriorityCoefficient: db.DefaultPriority,
		LastActiveAt:        time.Now().UTC().Truncate(time.Millisecond),
	}
}

// CreateUsers inserts the given profiles.
func CreateUsers(t *testing.T, gdb *gorm.DB, users ...db.User) {
	t.Helper()
	require.NoError(t, gdb.Create(&users).Error)
}

// SetAnswers stores the answers of one user.
func SetAnswers(t *testing.T, gdb *gorm.DB, userID uint64, answers compat.Answers) {
	t.Helper()
	rows := make([]db.UserAnswer, 0, len(answers))
	for q, a := range answers {
		rows = append(rows, db.UserAnswer{UserID: userID, QuestionID: q, AnswerID: a})
	}
	require.NoError(t, gdb.Create(&rows).Error)
}
