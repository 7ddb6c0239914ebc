package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/loyalty/pkg/api"
)

// RequestCode запрашивает одноразовый код на телефон
func (c *Client) RequestCode(ctx context.Context, req api.RequestCodeRequest) (*api.RequestCodeResponse, error) {
	var resp api.RequestCodeResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/request-code", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("request code failed: %w", err)
	}
	return &resp, nil
}

// VerifyCode проверяет одноразовый код и получает пару токенов
func (c *Client) VerifyCode(ctx context.Context, req api.VerifyCodeRequest) (*api.VerifyCodeResponse, error) {
	var resp api.VerifyCodeResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/verify-code", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("verify code failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh token на новый access token.
// Запрос идет без Bearer токена, чтобы не зациклить обновление.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*api.RefreshResponse, error) {
	var resp api.RefreshResponse
	err := c.doRequest(ctx, http.MethodPost, "/api/auth/refresh", api.RefreshRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// CompleteRegistration завершает регистрацию нового пользователя
func (c *Client) CompleteRegistration(ctx context.Context, req api.CompleteRegistrationRequest) (*api.CompleteRegistrationResponse, error) {
	var resp api.CompleteRegistrationResponse
	err := c.doAuthRequest(ctx, http.MethodPost, "/api/user/complete-registration", req, &resp)
	if err != nil {
		return nil, fmt.Errorf("complete registration failed: %w", err)
	}
	return &resp, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health check failed: %w", err)
	}
	return &resp, nil
}
