package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/loyalty/pkg/api"
)

// staticSource - источник токенов с фиксированным токеном
type staticSource struct {
	token      string
	refreshed  string
	refreshErr error
	refreshes  int
}

func (s *staticSource) AccessToken(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("no token")
	}
	return s.token, nil
}

func (s *staticSource) Refresh(ctx context.Context, staleToken string) (string, error) {
	s.refreshes++
	if s.refreshErr != nil {
		return "", s.refreshErr
	}
	s.token = s.refreshed
	return s.refreshed, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// TestNewClient проверяет создание нового клиента
func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	assert.NotNil(t, client)
	assert.Equal(t, "http://localhost:8080", client.BaseURL())
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, DefaultTimeout, client.authClient.Timeout)

	client = NewClient("http://localhost:8080", WithTimeout(5*time.Second))
	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
}

func TestClient_RequestCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/request-code", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Empty(t, r.Header.Get("Authorization"), "запрос кода идет без токена")

		var req api.RequestCodeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "+380501234567", req.Phone)
		assert.Equal(t, "push", req.PushToken)

		writeJSON(w, http.StatusOK, api.RequestCodeResponse{Success: true, ExpiresIn: 300, IsRegistered: true})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	resp, err := client.RequestCode(context.Background(), api.RequestCodeRequest{Phone: "+380501234567", PushToken: "push"})
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.True(t, resp.IsRegistered)
	assert.Equal(t, int64(300), resp.ExpiresIn)
}

func TestClient_VerifyAndRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/verify-code":
			writeJSON(w, http.StatusOK, api.VerifyCodeResponse{
				Success: true, Token: "access", RefreshToken: "refresh",
				User: api.User{ID: 1, Phone: "+380501234567"},
			})
		case "/api/auth/refresh":
			assert.Empty(t, r.Header.Get("Authorization"))
			var req api.RefreshRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "refresh", req.RefreshToken)
			writeJSON(w, http.StatusOK, api.RefreshResponse{Success: true, AccessToken: "access-2"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)

	verify, err := client.VerifyCode(context.Background(), api.VerifyCodeRequest{Phone: "+380501234567", Code: "12345"})
	require.NoError(t, err)
	assert.Equal(t, "access", verify.Token)
	assert.Equal(t, "refresh", verify.RefreshToken)

	refresh, err := client.Refresh(context.Background(), "refresh")
	require.NoError(t, err)
	assert.Equal(t, "access-2", refresh.AccessToken)
	assert.Empty(t, refresh.RefreshToken)
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		wantErr error
		wantMsg string
	}{
		{
			name:    "bad request with message",
			status:  http.StatusBadRequest,
			body:    api.ErrorResponse{Error: "validation", Message: "invalid phone"},
			wantErr: ErrBadRequest,
			wantMsg: "invalid phone",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    api.ErrorResponse{Error: "invalid code"},
			wantErr: ErrUnauthorized,
			wantMsg: "invalid code",
		},
		{
			name:    "throttled",
			status:  http.StatusTooManyRequests,
			body:    api.ErrorResponse{Error: "too many attempts"},
			wantErr: ErrThrottled,
		},
		{
			name:    "not found",
			status:  http.StatusNotFound,
			body:    api.ErrorResponse{Error: "not found"},
			wantErr: ErrNotFound,
		},
		{
			name:    "server error with plain body",
			status:  http.StatusBadGateway,
			body:    "upstream down",
			wantErr: ErrServer,
			wantMsg: "upstream down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if s, ok := tt.body.(string); ok {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(s))
					return
				}
				writeJSON(w, tt.status, tt.body)
			}))
			defer server.Close()

			client := NewClient(server.URL)
			_, err := client.VerifyCode(context.Background(), api.VerifyCodeRequest{})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, ErrNetwork)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apiErr.Message)
			}
		})
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url)
	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr), "сетевая ошибка не несет HTTP статуса")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		writeJSON(w, http.StatusOK, api.HealthResponse{Status: "ok"})
	}))
	defer server.Close()

	client := NewClient(server.URL, WithTimeout(20*time.Millisecond))
	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
}

func TestClient_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := NewClient(server.URL).Health(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{invalid"))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).Health(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_Endpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		query  string
	}
	var calls []call

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		calls = append(calls, call{r.Method, r.URL.Path, r.URL.RawQuery})

		switch r.URL.Path {
		case "/api/user/profile":
			writeJSON(w, http.StatusOK, api.ProfileResponse{Success: true, User: api.User{ID: 1, FullName: "Олена"}})
		case "/api/user/banners":
			writeJSON(w, http.StatusOK, api.BannersResponse{Success: true, Banners: []api.Banner{{ID: 1, ImageURL: "https://cdn/1.png"}}})
		case "/api/user/notifications/last-4-weeks":
			writeJSON(w, http.StatusOK, api.NotificationsResponse{
				Success:       true,
				Notifications: []api.Notification{{ID: 3, Title: "Hi"}},
				Pagination:    &api.Pagination{Limit: 20, Offset: 0},
			})
		case "/api/user/notifications/3":
			writeJSON(w, http.StatusOK, api.NotificationResponse{Success: true, Notification: api.Notification{ID: 3}})
		case "/api/user/notifications/stats":
			writeJSON(w, http.StatusOK, api.NotificationStats{Success: true, Total: 5, Unread: 2})
		default:
			writeJSON(w, http.StatusOK, api.StatusResponse{Success: true})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	client.UseTokenSource(&staticSource{token: "token"})
	ctx := context.Background()

	user, err := client.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Олена", user.FullName)

	name := "Олена П"
	_, err = client.UpdateProfile(ctx, api.UpdateProfileRequest{FullName: &name})
	require.NoError(t, err)

	require.NoError(t, client.UpdatePushToken(ctx, "push"))

	banners, err := client.Banners(ctx)
	require.NoError(t, err)
	require.Len(t, banners, 1)

	list, err := client.Notifications(ctx, 20, 0)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)

	n, err := client.Notification(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n.ID)

	require.NoError(t, client.MarkNotificationRead(ctx, 3))
	require.NoError(t, client.MarkAllNotificationsRead(ctx))

	stats, err := client.NotificationStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Unread)

	_, err = client.CompleteRegistration(ctx, api.CompleteRegistrationRequest{Phone: "+380501234567", FullName: "Олена"})
	require.NoError(t, err)

	assert.Equal(t, []call{
		{http.MethodGet, "/api/user/profile", ""},
		{http.MethodPut, "/api/user/profile", ""},
		{http.MethodPut, "/api/user/push-token", ""},
		{http.MethodGet, "/api/user/banners", ""},
		{http.MethodGet, "/api/user/notifications/last-4-weeks", "limit=20&offset=0"},
		{http.MethodGet, "/api/user/notifications/3", ""},
		{http.MethodPut, "/api/user/notifications/3/read", ""},
		{http.MethodPut, "/api/user/notifications/read-all", ""},
		{http.MethodGet, "/api/user/notifications/stats", ""},
		{http.MethodPost, "/api/user/complete-registration", ""},
	}, calls)
}
