package repository_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matchmaker/internal/db"
)

// newMySQL starts a throwaway MySQL container and returns a migrated DB with a
// multi-connection pool. Skips when Docker is not reachable.
func newMySQL(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MySQL container in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=secret",
			"MYSQL_DATABASE=matchmaker",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err, "could not start mysql")
	_ = resource.Expire(300)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:secret@tcp(%s)/matchmaker?parseTime=true&charset=utf8mb4&loc=UTC",
		resource.GetHostPort("3306/tcp"))

	var gdb *gorm.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		gdb, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
			Logger:  logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			return err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	}), "mysql never became ready")

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(8)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(db.Models()...))
	return gdb
}

// TestLikeAndMatch_ConcurrentMySQL runs the pair race against the row-locking
// path used in production.
func TestLikeAndMatch_ConcurrentMySQL(t *testing.T) {
	raceMutualLikes(t, newMySQL(t), 50)
}
