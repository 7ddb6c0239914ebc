package boltdb

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/client/storage"
)

// создаём тестовое BoltDB хранилище
func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	store, err := New(context.Background(), filepath.Join(t.TempDir(), "secure_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	return store
}

func TestStorage_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// До сохранения ключа нет
	_, err := store.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)

	require.NoError(t, store.Set(ctx, "auth_token", "ciphertext"))

	got, err := store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext", got)

	// Перезапись
	require.NoError(t, store.Set(ctx, "auth_token", "ciphertext-2"))
	got, err = store.Get(ctx, "auth_token")
	require.NoError(t, err)
	assert.Equal(t, "ciphertext-2", got)

	require.NoError(t, store.Delete(ctx, "auth_token"))
	_, err = store.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStorage_DeleteMissingKey(t *testing.T) {
	store := createTestStorage(t)

	assert.NoError(t, store.Delete(context.Background(), "never-set"))
}

func TestStorage_SetMany(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	items := map[string]string{
		"auth_token":    "a",
		"refresh_token": "r",
		"token_version": "1",
	}
	require.NoError(t, store.SetMany(ctx, items))

	for key, want := range items {
		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestStorage_SetMany_IsAtomic(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	// Пустой ключ bbolt отвергает, вся транзакция откатывается
	err := store.SetMany(ctx, map[string]string{
		"auth_token": "a",
		"":           "broken",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrStorage)

	_, err = store.Get(ctx, "auth_token")
	assert.ErrorIs(t, err, storage.ErrKeyNotFound)
}

func TestStorage_Closed(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "closed.db"))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	_, getErr := store.Get(ctx, "k")
	errs := map[string]error{
		"get":    getErr,
		"set":    store.Set(ctx, "k", "v"),
		"delete": store.Delete(ctx, "k"),
	}
	for op, err := range errs {
		// Закрытое хранилище - частный случай ошибки хранилища
		assert.ErrorIs(t, err, storage.ErrStorageClosed, op)
		assert.ErrorIs(t, err, storage.ErrStorage, op)
	}

	// Повторный Close безопасен
	assert.NoError(t, store.Close())
}

func TestStorage_CloseDuringOperations(t *testing.T) {
	ctx := context.Background()
	store, err := New(ctx, filepath.Join(t.TempDir(), "race.db"))
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, "k", "v"))

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				_, err := store.Get(ctx, "k")
				if err != nil {
					// После Close допустима только ошибка закрытого хранилища
					assert.ErrorIs(t, err, storage.ErrStorageClosed)
					return
				}
			}
		}()
	}

	require.NoError(t, store.Close())
	wg.Wait()
}
