package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/iudanet/loyalty/internal/client/storage"
)

// Ключи защищенного хранилища
const (
	KeyAccessToken  = "auth_token"
	KeyRefreshToken = "refresh_token"
	KeyTokenVersion = "token_version"
	KeyDeviceID     = "device_id"

	// CurrentTokenVersion - версия формата сохраненных токенов
	CurrentTokenVersion = "1"
)

// tokenRecord - то, что реально шифруется и хранится под ключом токена
type tokenRecord struct {
	Value    string `json:"value"`
	DeviceID string `json:"deviceId"`
	Created  int64  `json:"created"` // unix ms
}

// TokenStore хранит зашифрованные токены, привязанные к идентификатору устройства.
// Токен, записанный на другом устройстве, считается недействительным
// и приводит к удалению всех токенов.
type TokenStore struct {
	store    storage.SecureStorage
	cipher   TokenCipher
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group
	deviceID string
	mu       sync.RWMutex
}

// Compile-time check that TokenStore implements Tokens
var _ Tokens = (*TokenStore)(nil)

// NewTokenStore создает хранилище токенов
func NewTokenStore(store storage.SecureStorage, cipher TokenCipher, logger *slog.Logger) *TokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &TokenStore{
		store:  store,
		cipher: cipher,
		logger: logger,
		now:    time.Now,
	}
}

// DeviceID возвращает идентификатор устройства, создавая его при первом обращении.
// Конкурентные первые вызовы получают одно и то же значение.
func (s *TokenStore) DeviceID(ctx context.Context) (string, error) {
	s.mu.RLock()
	id := s.deviceID
	s.mu.RUnlock()
	if id != "" {
		return id, nil
	}

	v, err, _ := s.group.Do(KeyDeviceID, func() (any, error) {
		id, err := s.store.Get(ctx, KeyDeviceID)
		switch {
		case err == nil && id != "":
		case err == nil, errors.Is(err, storage.ErrKeyNotFound):
			id = uuid.NewString()
			if err := s.store.Set(ctx, KeyDeviceID, id); err != nil {
				return nil, fmt.Errorf("failed to persist device id: %w", err)
			}
			s.logger.DebugContext(ctx, "Generated device id")
		default:
			return nil, fmt.Errorf("failed to read device id: %w", err)
		}

		s.mu.Lock()
		s.deviceID = id
		s.mu.Unlock()
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// SetTokens шифрует и сохраняет оба токена и маркер версии одной транзакцией
func (s *TokenStore) SetTokens(ctx context.Context, accessToken, refreshToken string) error {
	encAccess, err := s.encryptToken(ctx, accessToken)
	if err != nil {
		return fmt.Errorf("%w: failed to encrypt access token: %w", storage.ErrStorage, err)
	}
	encRefresh, err := s.encryptToken(ctx, refreshToken)
	if err != nil {
		return fmt.Errorf("%w: failed to encrypt refresh token: %w", storage.ErrStorage, err)
	}

	err = s.store.SetMany(ctx, map[string]string{
		KeyAccessToken:  encAccess,
		KeyRefreshToken: encRefresh,
		KeyTokenVersion: CurrentTokenVersion,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save tokens", "error", err)
		return fmt.Errorf("failed to save tokens: %w", err)
	}

	s.logger.DebugContext(ctx, "Tokens saved")
	return nil
}

// GetAccessToken возвращает access token, если он есть и валиден для устройства
func (s *TokenStore) GetAccessToken(ctx context.Context) (string, bool) {
	return s.getToken(ctx, KeyAccessToken)
}

// GetRefreshToken возвращает refresh token, если он есть и валиден для устройства
func (s *TokenStore) GetRefreshToken(ctx context.Context) (string, bool) {
	return s.getToken(ctx, KeyRefreshToken)
}

// ClearTokens удаляет токены и маркер версии.
// Ошибки удаления только логируются: выход из системы не должен из-за них падать.
func (s *TokenStore) ClearTokens(ctx context.Context) {
	for _, key := range []string{KeyAccessToken, KeyRefreshToken, KeyTokenVersion} {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "Failed to delete stored token", "key", key, "error", err)
		}
	}
	s.logger.DebugContext(ctx, "Tokens cleared")
}

// TokenVersionValid сообщает, записаны ли токены в текущем формате
func (s *TokenStore) TokenVersionValid(ctx context.Context) bool {
	version, err := s.store.Get(ctx, KeyTokenVersion)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.WarnContext(ctx, "Failed to read token version", "error", err)
		}
		return false
	}
	return version == CurrentTokenVersion
}

func (s *TokenStore) encryptToken(ctx context.Context, token string) (string, error) {
	deviceID, err := s.DeviceID(ctx)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(tokenRecord{
		Value:    token,
		Created:  s.now().UnixMilli(),
		DeviceID: deviceID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token record: %w", err)
	}

	return s.cipher.Encrypt(ctx, string(data))
}

func (s *TokenStore) getToken(ctx context.Context, key string) (string, bool) {
	blob, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrKeyNotFound) {
			s.logger.ErrorContext(ctx, "Failed to read token", "key", key, "error", err)
		}
		return "", false
	}

	deviceID, err := s.DeviceID(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to get device id", "error", err)
		return "", false
	}

	plain, err := s.cipher.Decrypt(ctx, blob)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to decrypt token", "key", key, "error", err)
		return "", false
	}

	var record tokenRecord
	if err := json.Unmarshal([]byte(plain), &record); err != nil {
		s.logger.WarnContext(ctx, "Malformed token record", "key", key, "error", err)
		return "", false
	}

	if record.DeviceID != deviceID {
		s.logger.WarnContext(ctx, "Token from different device detected, clearing tokens", "key", key)
		s.ClearTokens(ctx)
		return "", false
	}

	return record.Value, true
}
