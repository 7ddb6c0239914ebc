package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/client/storage"
	"github.com/iudanet/loyalty/internal/crypto"
)

// memoryStorage - потокобезопасное in-memory хранилище поверх moq мока
type memoryStorage struct {
	*storage.SecureStorageMock
	data map[string]string
	mu   sync.Mutex
}

func newMemoryStorage() *memoryStorage {
	m := &memoryStorage{data: map[string]string{}}
	m.SecureStorageMock = &storage.SecureStorageMock{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			m.mu.Lock()
			defer m.mu.Unlock()
			v, ok := m.data[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return v, nil
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.data[key] = value
			return nil
		},
		SetManyFunc: func(ctx context.Context, items map[string]string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			for k, v := range items {
				m.data[k] = v
			}
			return nil
		},
		DeleteFunc: func(ctx context.Context, key string) error {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.data, key)
			return nil
		},
	}
	return m
}

func (m *memoryStorage) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func newTestTokenStore(t *testing.T, mem *memoryStorage) *TokenStore {
	t.Helper()
	return NewTokenStore(mem, crypto.NewCipher(mem, nil), nil)
}

func TestTokenStore_SetAndGet(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()
	store := newTestTokenStore(t, mem)

	_, ok := store.GetAccessToken(ctx)
	assert.False(t, ok, "до сохранения токена нет")

	require.NoError(t, store.SetTokens(ctx, "access-1", "refresh-1"))

	access, ok := store.GetAccessToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "access-1", access)

	refresh, ok := store.GetRefreshToken(ctx)
	require.True(t, ok)
	assert.Equal(t, "refresh-1", refresh)

	assert.True(t, store.TokenVersionValid(ctx))

	// Токены хранятся только в зашифрованном виде
	raw, err := mem.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.NotContains(t, raw, "access-1")
}

func TestTokenStore_DeviceID_ConcurrentInit(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()
	store := newTestTokenStore(t, mem)

	const workers = 50
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := store.DeviceID(ctx)
			assert.NoError(t, err)
			ids[i] = id
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id, "все вызовы должны получить один идентификатор")
	}
	assert.NotEmpty(t, ids[0])

	stored, err := mem.Get(ctx, KeyDeviceID)
	require.NoError(t, err)
	assert.Equal(t, ids[0], stored)

	// Новый экземпляр читает сохраненный идентификатор
	again, err := newTestTokenStore(t, mem).DeviceID(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[0], again)
}

func TestTokenStore_DeviceMismatchWipesTokens(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()

	require.NoError(t, newTestTokenStore(t, mem).SetTokens(ctx, "access", "refresh"))

	// Идентификатор устройства сменился (например, переустановка)
	require.NoError(t, mem.Set(ctx, KeyDeviceID, "other-device"))
	store := newTestTokenStore(t, mem)

	_, ok := store.GetAccessToken(ctx)
	assert.False(t, ok)

	assert.False(t, mem.has(KeyAccessToken))
	assert.False(t, mem.has(KeyRefreshToken))
	assert.False(t, mem.has(KeyTokenVersion))

	_, ok = store.GetRefreshToken(ctx)
	assert.False(t, ok)
}

func TestTokenStore_SetTokensFailure(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()
	mem.SetManyFunc = func(ctx context.Context, items map[string]string) error {
		return fmt.Errorf("%w: disk full", storage.ErrStorage)
	}
	store := newTestTokenStore(t, mem)

	err := store.SetTokens(ctx, "access", "refresh")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorage)

	_, ok := store.GetAccessToken(ctx)
	assert.False(t, ok)
	_, ok = store.GetRefreshToken(ctx)
	assert.False(t, ok)
}

func TestTokenStore_ClearTokensBestEffort(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()
	store := newTestTokenStore(t, mem)
	require.NoError(t, store.SetTokens(ctx, "access", "refresh"))

	deleteFunc := mem.DeleteFunc
	mem.DeleteFunc = func(ctx context.Context, key string) error {
		if key == KeyRefreshToken {
			return errors.New("keychain locked")
		}
		return deleteFunc(ctx, key)
	}

	store.ClearTokens(ctx)

	assert.Len(t, mem.DeleteCalls(), 3, "удаление пробуется для всех ключей")
	assert.False(t, mem.has(KeyAccessToken))
	assert.True(t, mem.has(KeyRefreshToken))
	assert.False(t, mem.has(KeyTokenVersion))
	assert.False(t, store.TokenVersionValid(ctx))
}

func TestTokenStore_CorruptedToken(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()
	store := newTestTokenStore(t, mem)
	require.NoError(t, store.SetTokens(ctx, "access", "refresh"))

	require.NoError(t, mem.Set(ctx, KeyAccessToken, "garbage"))

	_, ok := store.GetAccessToken(ctx)
	assert.False(t, ok)

	// Ошибка расшифровки не удаляет остальные токены
	refresh, ok := store.GetRefreshToken(ctx)
	assert.True(t, ok)
	assert.Equal(t, "refresh", refresh)
}

func TestTokenStore_StorageReadError(t *testing.T) {
	ctx := context.Background()
	mem := newMemoryStorage()
	store := newTestTokenStore(t, mem)
	require.NoError(t, store.SetTokens(ctx, "access", "refresh"))

	mem.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", fmt.Errorf("%w: io error", storage.ErrStorage)
	}

	_, ok := store.GetAccessToken(ctx)
	assert.False(t, ok)
	assert.False(t, store.TokenVersionValid(ctx))
}
