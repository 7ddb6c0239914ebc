package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/handlers"
	"github.com/iudanet/loyalty/internal/server/middleware"
	"github.com/iudanet/loyalty/internal/server/storage"
	"github.com/iudanet/loyalty/internal/server/storage/sqlite"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

const testPhone = "+380501234567"

type memorySender struct {
	codes map[string]string
	mu    sync.Mutex
}

func (s *memorySender) SendCode(_ context.Context, phone, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[phone] = code
	return nil
}

func (s *memorySender) code(phone string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.codes[phone]
}

type testEnv struct {
	srv    *httptest.Server
	server *Server
	store  *sqlite.Storage
	sender *memorySender
}

func setupTestServer(t *testing.T, rateLimit int) *testEnv {
	t.Helper()

	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	sender := &memorySender{codes: map[string]string{}}
	s := New(Config{
		Auth: handlers.AuthConfig{
			JWT: handlers.JWTConfig{
				Secret:          []byte("test-secret-key-test-secret-key!"),
				AccessTokenTTL:  15 * time.Minute,
				RefreshTokenTTL: 24 * time.Hour,
			},
			CodeTTL:         5 * time.Minute,
			MaxCodeAttempts: 5,
		},
		AuthRateLimit: rateLimit,
	}, store, sender, slog.New(slog.NewTextHandler(io.Discard, nil)))
	t.Cleanup(s.limiter.Stop)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, server: s, store: store, sender: sender}
}

// call выполняет запрос и декодирует JSON ответ в out
func (e *testEnv) call(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.srv.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (e *testEnv) login(t *testing.T, phone string) pkgapi.VerifyCodeResponse {
	t.Helper()

	var reqResp pkgapi.RequestCodeResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/auth/request-code", "",
		pkgapi.RequestCodeRequest{Phone: phone}, &reqResp))

	var verify pkgapi.VerifyCodeResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/auth/verify-code", "",
		pkgapi.VerifyCodeRequest{Phone: phone, Code: e.sender.code(phone)}, &verify))
	return verify
}

func TestServer_EndToEnd(t *testing.T) {
	env := setupTestServer(t, 100)
	ctx := context.Background()

	tokens := env.login(t, testPhone)
	assert.Empty(t, tokens.User.FullName)

	var reg pkgapi.CompleteRegistrationResponse
	status := env.call(t, http.MethodPost, "/api/user/complete-registration", tokens.Token,
		pkgapi.CompleteRegistrationRequest{Phone: testPhone, FullName: "Іван Франко"}, &reg)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Іван Франко", reg.User.FullName)

	var profile pkgapi.ProfileResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/user/profile", tokens.Token, nil, &profile))
	assert.Equal(t, tokens.User.CardNumber, profile.User.CardNumber)

	require.NoError(t, env.store.CreateBanner(ctx, &models.Banner{Title: "Sale", ImageURL: "https://cdn/sale.jpg", IsActive: true}))
	var banners pkgapi.BannersResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/user/banners", tokens.Token, nil, &banners))
	assert.Len(t, banners.Banners, 1)

	n := &models.Notification{UserID: tokens.User.ID, Title: "Привіт", Message: "Ласкаво просимо"}
	require.NoError(t, env.store.CreateNotification(ctx, n))

	var list pkgapi.NotificationsResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/user/notifications/last-4-weeks?limit=10", tokens.Token, nil, &list))
	require.Len(t, list.Notifications, 1)

	var stats pkgapi.NotificationStats
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/api/user/notifications/stats", tokens.Token, nil, &stats))
	assert.Equal(t, 1, stats.Unread)

	path := fmt.Sprintf("/api/user/notifications/%d", n.ID)
	require.Equal(t, http.StatusOK, env.call(t, http.MethodPut, path+"/read", tokens.Token, nil, nil))

	var one pkgapi.NotificationResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, path, tokens.Token, nil, &one))
	assert.True(t, one.Notification.IsRead)

	require.Equal(t, http.StatusOK, env.call(t, http.MethodPut, "/api/user/notifications/read-all", tokens.Token, nil, nil))

	var refreshed pkgapi.RefreshResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodPost, "/api/auth/refresh", "",
		pkgapi.RefreshRequest{RefreshToken: tokens.RefreshToken}, &refreshed))
	assert.NotEmpty(t, refreshed.AccessToken)

	var health pkgapi.HealthResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, "ok", health.Status)
}

func TestServer_ProtectedRoutesRequireToken(t *testing.T) {
	env := setupTestServer(t, 100)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/user/profile"},
		{http.MethodPut, "/api/user/profile"},
		{http.MethodPut, "/api/user/push-token"},
		{http.MethodPost, "/api/user/complete-registration"},
		{http.MethodGet, "/api/user/banners"},
		{http.MethodGet, "/api/user/notifications/last-4-weeks"},
		{http.MethodGet, "/api/user/notifications/stats"},
		{http.MethodGet, "/api/user/notifications/1"},
		{http.MethodPut, "/api/user/notifications/1/read"},
		{http.MethodPut, "/api/user/notifications/read-all"},
	}

	for _, r := range routes {
		t.Run(r.method+" "+r.path, func(t *testing.T) {
			var resp pkgapi.ErrorResponse
			assert.Equal(t, http.StatusUnauthorized, env.call(t, r.method, r.path, "", nil, &resp))
			assert.Equal(t, "missing token", resp.Message)
		})
	}

	// Неизвестный метод
	assert.Equal(t, http.StatusMethodNotAllowed, env.call(t, http.MethodDelete, "/api/user/profile", "", nil, nil))
}

func TestServer_AuthRateLimit(t *testing.T) {
	env := setupTestServer(t, 2)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, env.call(t, http.MethodPost, "/api/auth/request-code", "",
			pkgapi.RequestCodeRequest{Phone: testPhone}, nil))
	}

	var resp pkgapi.ErrorResponse
	assert.Equal(t, http.StatusTooManyRequests, env.call(t, http.MethodPost, "/api/auth/request-code", "",
		pkgapi.RequestCodeRequest{Phone: testPhone}, &resp))

	// Health не ограничивается
	assert.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/health", "", nil, nil))
}

func TestServer_CleanupExpired(t *testing.T) {
	env := setupTestServer(t, 100)
	ctx := context.Background()

	tokens := env.login(t, "+380507654321")
	require.NoError(t, env.store.SaveCode(ctx, &models.AuthCode{
		Phone: testPhone, CodeHash: "x", ExpiresAt: time.Now().Add(time.Minute), CreatedAt: time.Now(),
	}))

	env.server.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	env.server.cleanupExpired(ctx)

	_, err := env.store.GetCode(ctx, testPhone)
	assert.ErrorIs(t, err, storage.ErrCodeNotFound)

	var resp pkgapi.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodPost, "/api/auth/refresh", "",
		pkgapi.RefreshRequest{RefreshToken: tokens.RefreshToken}, &resp))
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	store, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer store.Close()

	s := New(Config{Addr: "127.0.0.1:0"}, store, &memorySender{codes: map[string]string{}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
