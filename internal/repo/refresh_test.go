package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/resident_hub/internal/models"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.RefreshToken{}))
	return &GormRepo{DB: db}
}

func TestRefreshUsable(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddRefresh(ctx, "raw-token", "jti-live", 1, time.Now().Add(time.Hour)))
	require.NoError(t, r.AddRefresh(ctx, "raw-token-2", "jti-expired", 1, time.Now().Add(-time.Hour)))

	assert.NoError(t, r.RefreshUsable(ctx, "jti-live"))
	assert.ErrorIs(t, r.RefreshUsable(ctx, "jti-expired"), ErrRefreshUnusable)
	assert.ErrorIs(t, r.RefreshUsable(ctx, "jti-unknown"), ErrRefreshUnusable)
}

func TestRotateRefresh_ConsumesOldJTI(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddRefresh(ctx, "raw-old", "jti-old", 1, time.Now().Add(time.Hour)))

	err := r.RotateRefresh(ctx, "jti-old", "raw-new", "jti-new", 1, time.Now().Add(time.Hour))
	require.NoError(t, err)

	assert.ErrorIs(t, r.RefreshUsable(ctx, "jti-old"), ErrRefreshUnusable)
	assert.NoError(t, r.RefreshUsable(ctx, "jti-new"))

	// replaying the consumed jti neither mints a record nor succeeds
	err = r.RotateRefresh(ctx, "jti-old", "raw-replay", "jti-replay", 1, time.Now().Add(time.Hour))
	assert.ErrorIs(t, err, ErrRefreshUnusable)
	assert.ErrorIs(t, r.RefreshUsable(ctx, "jti-replay"), ErrRefreshUnusable)
}

func TestRevokeRefresh_Idempotent(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.AddRefresh(ctx, "raw-token", "jti-1", 1, time.Now().Add(time.Hour)))

	require.NoError(t, r.RevokeRefresh(ctx, "raw-token"))
	assert.ErrorIs(t, r.RefreshUsable(ctx, "jti-1"), ErrRefreshUnusable)

	require.NoError(t, r.RevokeRefresh(ctx, "raw-token"))
	require.NoError(t, r.RevokeRefresh(ctx, "never-seen-token"))
}

func TestCreateUser_Conflict(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	u := models.User{Name: "A", Email: "a@x.com", PasswordHash: "h", Role: "resident", IsActive: true}
	require.NoError(t, r.CreateUser(ctx, &u))

	dup := models.User{Name: "B", Email: "a@x.com", PasswordHash: "h", Role: "resident", IsActive: true}
	assert.ErrorIs(t, r.CreateUser(ctx, &dup), ErrConflict)
}

func TestEnsureAdmin_NoOpWhenExists(t *testing.T) {
	t.Parallel()

	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.EnsureAdmin(ctx, "admin@x.com", "hash-1"))
	require.NoError(t, r.EnsureAdmin(ctx, "admin@x.com", "hash-2"))

	admin, err := r.GetUserByEmail(ctx, "admin@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash-1", admin.PasswordHash, "existing admin must not be overwritten")
	assert.Equal(t, "admin", admin.Role)
	assert.True(t, admin.IsActive)
	assert.True(t, admin.IsApproved)
}
