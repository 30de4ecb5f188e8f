package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/muzz-matchmaker/internal/db"
	svcErr "github.com/oggyb/muzz-matchmaker/internal/errors"
	"github.com/oggyb/muzz-matchmaker/internal/repository"
)

// setupMockDB puts sqlmock behind the MySQL dialector so the production
// locking path is exercised.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return gdb, mock
}

func TestLikeAndMatch_BeginFailureIsDataUnavailable(t *testing.T) {
	gdb, mock := setupMockDB(t)
	mock.ExpectBegin().WillReturnError(errors.New("dial tcp: connection refused"))

	_, err := repository.NewLikeRepository(gdb).LikeAndMatch(context.Background(), 1, 2)
	assert.ErrorIs(t, err, svcErr.ErrDataUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLikeAndMatch_InsertFailureRollsBack(t *testing.T) {
	gdb, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `id` FROM `users` WHERE id IN .* ORDER BY id FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1).AddRow(2))
	mock.ExpectExec("INSERT INTO `likes`").
		WillReturnError(errors.New("lock wait timeout exceeded"))
	mock.ExpectRollback()

	_, err := repository.NewLikeRepository(gdb).LikeAndMatch(context.Background(), 2, 1)
	assert.ErrorIs(t, err, svcErr.ErrDataUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_QueryFailureIsDataUnavailable(t *testing.T) {
	gdb, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `users`").WillReturnError(errors.New("i/o timeout"))

	_, err := repository.NewUserRepository(gdb).ListCandidates(context.Background(), repository.CandidateQuery{
		ExcludeID: 1,
		Gender:    db.GenderFemale,
	})
	assert.ErrorIs(t, err, svcErr.ErrDataUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
