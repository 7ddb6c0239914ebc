package crypto

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/client/storage"
)

// newMemoryStore возвращает мок хранилища, который держит значения в map
func newMemoryStore() *storage.SecureStorageMock {
	var mu sync.Mutex
	data := map[string]string{}

	return &storage.SecureStorageMock{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := data[key]
			if !ok {
				return "", storage.ErrKeyNotFound
			}
			return v, nil
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			data[key] = value
			return nil
		},
	}
}

func TestCipher_EncryptDecrypt(t *testing.T) {
	ctx := context.Background()
	c := NewCipher(newMemoryStore(), nil)

	testCases := []string{
		"Hello, World!",
		"Привет, мир! 🌍", // Unicode текст
		"",
		"1234567890123456", // ровно один блок, паддинг добавит еще один
		`{"value":"eyJhbGciOiJIUzI1NiJ9","created":1700000000000,"deviceId":"d"}`,
		strings.Repeat("x", 4096),
	}

	for _, plaintext := range testCases {
		t.Run(plaintext[:min(len(plaintext), 16)], func(t *testing.T) {
			encrypted, err := c.Encrypt(ctx, plaintext)
			require.NoError(t, err)

			// IV хранится как hex префикс фиксированной длины
			require.Greater(t, len(encrypted), ivHexLen)
			_, err = hex.DecodeString(encrypted[:ivHexLen])
			require.NoError(t, err)

			decrypted, err := c.Decrypt(ctx, encrypted)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted,
				"после шифрования и дешифрования должны получить оригинальные данные")
		})
	}
}

func TestCipher_Encrypt_Randomness(t *testing.T) {
	// Одинаковые данные шифруются по-разному из-за случайного IV
	ctx := context.Background()
	c := NewCipher(newMemoryStore(), nil)

	encrypted1, err := c.Encrypt(ctx, "same data")
	require.NoError(t, err)
	encrypted2, err := c.Encrypt(ctx, "same data")
	require.NoError(t, err)

	assert.NotEqual(t, encrypted1, encrypted2)
	assert.NotEqual(t, encrypted1[:ivHexLen], encrypted2[:ivHexLen], "IV не должен повторяться")

	// Но оба должны корректно дешифроваться
	decrypted1, err := c.Decrypt(ctx, encrypted1)
	require.NoError(t, err)
	decrypted2, err := c.Decrypt(ctx, encrypted2)
	require.NoError(t, err)
	assert.Equal(t, "same data", decrypted1)
	assert.Equal(t, "same data", decrypted2)
}

func TestCipher_KeyIsPersistedAndReused(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	encrypted, err := NewCipher(store, nil).Encrypt(ctx, "secret")
	require.NoError(t, err)

	key, err := store.Get(ctx, KeyStorageKey)
	require.NoError(t, err)
	assert.Len(t, key, KeySize*2)

	// Новый экземпляр над тем же хранилищем читает тот же ключ
	decrypted, err := NewCipher(store, nil).Decrypt(ctx, encrypted)
	require.NoError(t, err)
	assert.Equal(t, "secret", decrypted)

	_, err = NewCipher(store, nil).Encrypt(ctx, "again")
	require.NoError(t, err)
	stored, err := store.Get(ctx, KeyStorageKey)
	require.NoError(t, err)
	assert.Equal(t, key, stored, "ключ не должен перегенерироваться")
}

func TestCipher_ConcurrentKeyInit(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	c := NewCipher(store, nil)

	const workers = 20
	results := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			enc, err := c.Encrypt(ctx, "value")
			assert.NoError(t, err)
			results[i] = enc
		}(i)
	}
	wg.Wait()

	// Все шифротексты расшифровываются итоговым ключом
	for _, enc := range results {
		got, err := c.Decrypt(ctx, enc)
		require.NoError(t, err)
		assert.Equal(t, "value", got)
	}
}

func TestCipher_Decrypt_Errors(t *testing.T) {
	ctx := context.Background()
	c := NewCipher(newMemoryStore(), nil)

	valid, err := c.Encrypt(ctx, "test message")
	require.NoError(t, err)

	tests := []struct {
		name string
		blob string
	}{
		{name: "empty", blob: ""},
		{name: "only iv", blob: valid[:ivHexLen]},
		{name: "iv not hex", blob: strings.Repeat("z", ivHexLen) + valid[ivHexLen:]},
		{name: "body not base64", blob: valid[:ivHexLen] + "not-base64!!!"},
		{name: "body not block aligned", blob: valid[:ivHexLen] + "AAAA"},
		{name: "truncated", blob: valid[:len(valid)-4]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decrypted, err := c.Decrypt(ctx, tt.blob)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecryption)
			assert.Empty(t, decrypted)
		})
	}
}

func TestCipher_Decrypt_WrongKey(t *testing.T) {
	ctx := context.Background()

	encrypted, err := NewCipher(newMemoryStore(), nil).Encrypt(ctx, "test message")
	require.NoError(t, err)

	// Другой ключ: паддинг почти наверняка не сойдется
	other := NewCipher(newMemoryStore(), nil)
	_, err = other.Encrypt(ctx, "init key")
	require.NoError(t, err)

	decrypted, err := other.Decrypt(ctx, encrypted)
	if err == nil {
		assert.NotEqual(t, "test message", decrypted)
		return
	}
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestCipher_Decrypt_MissingKey(t *testing.T) {
	ctx := context.Background()
	c := NewCipher(newMemoryStore(), nil)

	_, err := c.Decrypt(ctx, strings.Repeat("0", ivHexLen)+"AAAAAAAAAAAAAAAAAAAAAA==")
	assert.ErrorIs(t, err, ErrDecryption)
}

func TestCipher_Encrypt_StoreFailure(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("keychain unavailable")
	store := &storage.SecureStorageMock{
		GetFunc: func(ctx context.Context, key string) (string, error) {
			return "", storage.ErrKeyNotFound
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			return boom
		},
	}

	_, err := NewCipher(store, nil).Encrypt(ctx, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestPKCS7(t *testing.T) {
	for n := 0; n <= 32; n++ {
		data := []byte(strings.Repeat("a", n))
		padded := pkcs7Pad(append([]byte{}, data...), 16)
		assert.Zero(t, len(padded)%16)

		unpadded, err := pkcs7Unpad(padded, 16)
		require.NoError(t, err)
		assert.Equal(t, data, unpadded)
	}

	_, err := pkcs7Unpad(append([]byte(strings.Repeat("a", 15)), 0), 16)
	assert.Error(t, err)
	_, err = pkcs7Unpad(append([]byte(strings.Repeat("a", 14)), 2, 3), 16)
	assert.Error(t, err)
}
