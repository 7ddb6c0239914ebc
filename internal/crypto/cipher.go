package crypto

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/sync/singleflight"

	"github.com/iudanet/loyalty/internal/client/storage"
)

const (
	// KeyStorageKey - ключ, под которым хранится ключ шифрования
	KeyStorageKey = "encryption_key"
	// KeySize - размер ключа AES-256
	KeySize = 32
	// IVSize - размер вектора инициализации (один блок AES)
	IVSize = aes.BlockSize
	// ivHexLen - длина hex-префикса IV в зашифрованной строке
	ivHexLen = IVSize * 2
)

// ErrDecryption возвращается при любой ошибке расшифровки
var ErrDecryption = errors.New("decryption failed")

// KeyStore - хранилище, в котором живет ключ шифрования
type KeyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

// Cipher шифрует строки ключом, который хранится в KeyStore.
// Ключ создается при первом шифровании и переиспользуется дальше.
type Cipher struct {
	store  KeyStore
	logger *slog.Logger
	group  singleflight.Group
}

// NewCipher создает Cipher поверх хранилища ключа
func NewCipher(store KeyStore, logger *slog.Logger) *Cipher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cipher{store: store, logger: logger}
}

// Encrypt шифрует plaintext AES-256-CBC со свежим IV.
// Формат результата: hex(iv) (32 символа) + base64(ciphertext)
func (c *Cipher) Encrypt(ctx context.Context, plaintext string) (string, error) {
	key, err := c.ensureKey(ctx)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt расшифровывает строку, полученную из Encrypt.
// Все ошибки оборачивают ErrDecryption.
func (c *Cipher) Decrypt(ctx context.Context, blob string) (string, error) {
	key, err := c.loadKey(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", fmt.Errorf("%w: encryption key is missing", ErrDecryption)
		}
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	if len(blob) <= ivHexLen {
		return "", fmt.Errorf("%w: blob too short", ErrDecryption)
	}

	iv, err := hex.DecodeString(blob[:ivHexLen])
	if err != nil {
		return "", fmt.Errorf("%w: invalid iv: %w", ErrDecryption, err)
	}

	ciphertext, err := base64.StdEncoding.DecodeString(blob[ivHexLen:])
	if err != nil {
		return "", fmt.Errorf("%w: invalid ciphertext encoding: %w", ErrDecryption, err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a multiple of the block size", ErrDecryption)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	plain := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plain, ciphertext)

	plain, err = pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrDecryption, err)
	}
	if !utf8.Valid(plain) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", ErrDecryption)
	}

	return string(plain), nil
}

// ensureKey возвращает сохраненный ключ или создает новый.
// Конкурентные вызовы до появления ключа ждут одну и ту же инициализацию.
func (c *Cipher) ensureKey(ctx context.Context) ([]byte, error) {
	v, err, _ := c.group.Do(KeyStorageKey, func() (any, error) {
		key, err := c.loadKey(ctx)
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, storage.ErrKeyNotFound) {
			return nil, err
		}

		key = make([]byte, KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate encryption key: %w", err)
		}
		if err := c.store.Set(ctx, KeyStorageKey, hex.EncodeToString(key)); err != nil {
			return nil, fmt.Errorf("failed to store encryption key: %w", err)
		}

		c.logger.DebugContext(ctx, "Generated new encryption key")
		return key, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cipher) loadKey(ctx context.Context) ([]byte, error) {
	encoded, err := c.store.Get(ctx, KeyStorageKey)
	if err != nil {
		return nil, err
	}

	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("stored encryption key is not hex: %w", err)
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", KeySize, len(key))
	}
	return key, nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, errors.New("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errors.New("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
