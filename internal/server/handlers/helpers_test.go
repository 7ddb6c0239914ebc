package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/server/storage/sqlite"
)

const testPhone = "+380501234567"

// setupTestLogger создает logger, который ничего не пишет
func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testJWTConfig() JWTConfig {
	return JWTConfig{
		Secret:          []byte("test-secret-key-test-secret-key!"),
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 30 * 24 * time.Hour,
	}
}

// captureSender запоминает последний код для каждого телефона
type captureSender struct {
	err   error
	codes map[string]string
	mu    sync.Mutex
}

func (s *captureSender) SendCode(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.codes[phone] = code
	return nil
}

func (s *captureSender) code(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}

func setupTestStorage(t *testing.T) *sqlite.Storage {
	t.Helper()
	s, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

func newTestAuthHandler(t *testing.T, rotate bool) (*AuthHandler, *sqlite.Storage, *captureSender) {
	t.Helper()
	s := setupTestStorage(t)
	sender := &captureSender{codes: map[string]string{}}
	h := NewAuthHandler(setupTestLogger(), s, s, s, sender, AuthConfig{
		JWT:             testJWTConfig(),
		CodeTTL:         5 * time.Minute,
		MaxCodeAttempts: 5,
		RotateRefresh:   rotate,
	})
	return h, s, sender
}

// doRequest вызывает handler с JSON телом; userID > 0 добавляет пользователя в контекст
func doRequest(t *testing.T, handler http.HandlerFunc, method, target string, body any, userID int64) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	if userID > 0 {
		req = req.WithContext(WithUser(req.Context(), userID, testPhone))
	}

	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v))
	return v
}
