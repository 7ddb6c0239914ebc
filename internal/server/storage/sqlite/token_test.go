package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/storage"
)

func TestTokenStorage_SaveAndGet(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	user := createTestUser(t, ctx, s, "+380501234567")

	token := &models.RefreshToken{
		TokenHash: "hash-1",
		UserID:    user.ID,
		ExpiresAt: clock.Now().Add(time.Hour),
		CreatedAt: clock.Now(),
	}
	require.NoError(t, s.SaveRefreshToken(ctx, token))

	got, err := s.GetRefreshToken(ctx, "hash-1")
	require.NoError(t, err)
	assert.Equal(t, token, got)

	_, err = s.GetRefreshToken(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
}

func TestTokenStorage_UnknownUser(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)

	// foreign_keys включены
	err := s.SaveRefreshToken(ctx, &models.RefreshToken{
		TokenHash: "hash-1",
		UserID:    42,
		ExpiresAt: clock.Now().Add(time.Hour),
		CreatedAt: clock.Now(),
	})
	assert.Error(t, err)
}

func TestTokenStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	user := createTestUser(t, ctx, s, "+380501234567")
	other := createTestUser(t, ctx, s, "+380507654321")

	for _, tok := range []*models.RefreshToken{
		{TokenHash: "a", UserID: user.ID, ExpiresAt: clock.Now().Add(time.Hour), CreatedAt: clock.Now()},
		{TokenHash: "b", UserID: user.ID, ExpiresAt: clock.Now().Add(time.Hour), CreatedAt: clock.Now()},
		{TokenHash: "c", UserID: other.ID, ExpiresAt: clock.Now().Add(time.Hour), CreatedAt: clock.Now()},
	} {
		require.NoError(t, s.SaveRefreshToken(ctx, tok))
	}

	require.NoError(t, s.DeleteRefreshToken(ctx, "a"))
	assert.ErrorIs(t, s.DeleteRefreshToken(ctx, "a"), storage.ErrTokenNotFound)

	n, err := s.DeleteUserTokens(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetRefreshToken(ctx, "c")
	require.NoError(t, err)
}

func TestTokenStorage_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	user := createTestUser(t, ctx, s, "+380501234567")

	now := clock.Now()
	require.NoError(t, s.SaveRefreshToken(ctx, &models.RefreshToken{TokenHash: "old", UserID: user.ID, ExpiresAt: now.Add(-time.Minute), CreatedAt: now}))
	require.NoError(t, s.SaveRefreshToken(ctx, &models.RefreshToken{TokenHash: "new", UserID: user.ID, ExpiresAt: now.Add(time.Hour), CreatedAt: now}))

	n, err := s.DeleteExpiredTokens(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetRefreshToken(ctx, "old")
	assert.ErrorIs(t, err, storage.ErrTokenNotFound)
	_, err = s.GetRefreshToken(ctx, "new")
	require.NoError(t, err)
}
