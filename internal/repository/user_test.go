package repository

import (
	"context"
	"errors"
	"testing"

	"devconnector/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	user := &models.User{Name: "John", Email: "john@example.com", Password: "hash"}
	require.NoError(t, repo.Create(ctx, user))
	require.NotZero(t, user.ID)

	t.Run("get by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "john@example.com", got.Email)
	})

	t.Run("get by email", func(t *testing.T) {
		got, err := repo.GetByEmail(ctx, "john@example.com")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("absent rows are nil without error", func(t *testing.T) {
		got, err := repo.GetByID(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.GetByEmail(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("duplicate email", func(t *testing.T) {
		err := repo.Create(ctx, &models.User{Name: "Dup", Email: "john@example.com", Password: "hash"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "User already exist", appErr.Error())
	})

	t.Run("delete frees the email", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, user.ID))

		again := &models.User{Name: "John II", Email: "john@example.com", Password: "hash"}
		require.NoError(t, repo.Create(ctx, again))
	})
}

// The postgres driver reports duplicates differently from sqlite; check the
// mapping against a postgres-shaped error too.
func TestCreateMapsPostgresUniqueViolation(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnError(errors.New(`ERROR: duplicate key value violates unique constraint "idx_users_email" (SQLSTATE 23505)`))

	repo := NewUserRepository(db)
	err = repo.Create(context.Background(), &models.User{Name: "John", Email: "john@example.com", Password: "hash"})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
