package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/iudanet/loyalty/pkg/api"
)

// Profile получает профиль текущего пользователя
func (c *Client) Profile(ctx context.Context) (*api.User, error) {
	var resp api.ProfileResponse
	if err := c.doAuthRequest(ctx, http.MethodGet, "/api/user/profile", nil, &resp); err != nil {
		return nil, fmt.Errorf("get profile failed: %w", err)
	}
	return &resp.User, nil
}

// UpdateProfile изменяет профиль; nil поля не меняются
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.User, error) {
	var resp api.ProfileResponse
	if err := c.doAuthRequest(ctx, http.MethodPut, "/api/user/profile", req, &resp); err != nil {
		return nil, fmt.Errorf("update profile failed: %w", err)
	}
	return &resp.User, nil
}

// UpdatePushToken сохраняет push токен устройства на сервере
func (c *Client) UpdatePushToken(ctx context.Context, pushToken string) error {
	var resp api.StatusResponse
	err := c.doAuthRequest(ctx, http.MethodPut, "/api/user/push-token", api.PushTokenRequest{PushToken: pushToken}, &resp)
	if err != nil {
		return fmt.Errorf("update push token failed: %w", err)
	}
	return nil
}
