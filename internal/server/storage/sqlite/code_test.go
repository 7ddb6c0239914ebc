package sqlite

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/storage"
)

func TestCodeStorage_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	phone := "+380501234567"

	_, err := s.GetCode(ctx, phone)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
	_, err = s.ClaimAttempt(ctx, phone, 5)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)

	code := &models.AuthCode{
		Phone:     phone,
		CodeHash:  "hash-1",
		ExpiresAt: clock.Now().Add(5 * time.Minute),
		CreatedAt: clock.Now(),
	}
	require.NoError(t, s.SaveCode(ctx, code))

	n, err := s.ClaimAttempt(ctx, phone, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	n, err = s.ClaimAttempt(ctx, phone, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	got, err := s.GetCode(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", got.CodeHash)
	assert.Equal(t, 2, got.Attempts)
	assert.Equal(t, code.ExpiresAt, got.ExpiresAt)

	// Новый код сбрасывает счетчик попыток
	code.CodeHash = "hash-2"
	require.NoError(t, s.SaveCode(ctx, code))
	got, err = s.GetCode(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "hash-2", got.CodeHash)
	assert.Equal(t, 0, got.Attempts)

	require.NoError(t, s.DeleteCode(ctx, phone))
	require.NoError(t, s.DeleteCode(ctx, phone))
	_, err = s.GetCode(ctx, phone)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)
}

func TestCodeStorage_ClaimAttempt_Limit(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	phone := "+380501234567"

	require.NoError(t, s.SaveCode(ctx, &models.AuthCode{
		Phone:     phone,
		CodeHash:  "h",
		ExpiresAt: clock.Now().Add(time.Minute),
		CreatedAt: clock.Now(),
	}))

	for i := 1; i <= 3; i++ {
		n, err := s.ClaimAttempt(ctx, phone, 3)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	// Сверх лимита счетчик не растет
	_, err := s.ClaimAttempt(ctx, phone, 3)
	assert.ErrorIs(t, err, storage.ErrCodeAttemptsExhausted)
	got, err := s.GetCode(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Attempts)
}

func TestCodeStorage_ClaimAttempt_Concurrent(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	phone := "+380501234567"

	require.NoError(t, s.SaveCode(ctx, &models.AuthCode{
		Phone:     phone,
		CodeHash:  "h",
		ExpiresAt: clock.Now().Add(time.Minute),
		CreatedAt: clock.Now(),
	}))

	const workers = 20
	var (
		wg        sync.WaitGroup
		claimed   atomic.Int32
		exhausted atomic.Int32
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ClaimAttempt(ctx, phone, 5)
			switch {
			case err == nil:
				claimed.Add(1)
			case errors.Is(err, storage.ErrCodeAttemptsExhausted):
				exhausted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(5), claimed.Load())
	assert.Equal(t, int32(workers-5), exhausted.Load())
}

func TestCodeStorage_DeleteExpired(t *testing.T) {
	ctx := context.Background()
	s, clock := setupTestStorage(t)
	now := clock.Now()

	require.NoError(t, s.SaveCode(ctx, &models.AuthCode{Phone: "+380500000001", CodeHash: "h", ExpiresAt: now.Add(-time.Second), CreatedAt: now}))
	require.NoError(t, s.SaveCode(ctx, &models.AuthCode{Phone: "+380500000002", CodeHash: "h", ExpiresAt: now.Add(time.Minute), CreatedAt: now}))

	n, err := s.DeleteExpiredCodes(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = s.GetCode(ctx, "+380500000002")
	require.NoError(t, err)
}
