package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nventon/user-backend/internal/models"
)

func initTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}))

	return &GormRepo{DB: db}
}

func seedUser(t *testing.T, r *GormRepo, username string) *models.User {
	t.Helper()

	user := &models.User{
		LastName:     "Doe",
		FirstName:    "John",
		Username:     username,
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, r.CreateUser(context.Background(), user))
	return user
}

func TestCreateUser_UniqueIndexTranslated(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "john_doe")

	// A concurrent create slips past the username pre-check and lands on
	// the unique index; the driver error must come back as ErrDuplicatedKey
	// so CreateUser can map it.
	err := r.DB.WithContext(ctx).Create(&models.User{
		LastName:     "Smith",
		FirstName:    "Jane",
		Username:     "john_doe",
		PasswordHash: "not-a-real-hash",
	}).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCreateUser_Duplicate(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "john_doe")

	err := r.CreateUser(ctx, &models.User{
		LastName:     "Smith",
		FirstName:    "Jane",
		Username:     "john_doe",
		PasswordHash: "not-a-real-hash",
	})
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestUpdateUser_Duplicate(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()
	seedUser(t, r, "john_doe")
	other := seedUser(t, r, "jane_smith")

	other.Username = "john_doe"
	err := r.UpdateUser(ctx, other)
	assert.ErrorIs(t, err, ErrDuplicateUsername)
}

func TestDeleteExpiredTokens(t *testing.T) {
	t.Parallel()

	r := initTestRepo(t)
	ctx := context.Background()
	user := seedUser(t, r, "john_doe")

	now := time.Now()
	expired := &models.Token{Token: "fingerprint-expired", UserID: user.ID, ExpiresAt: now.Add(-time.Hour).Unix()}
	live := &models.Token{Token: "fingerprint-live", UserID: user.ID, ExpiresAt: now.Add(time.Hour).Unix()}
	require.NoError(t, r.CreateToken(ctx, expired))
	require.NoError(t, r.CreateToken(ctx, live))

	n, err := r.DeleteExpiredTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	rows, err := r.FindTokensForUser(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "fingerprint-live", rows[0].Token)
}
