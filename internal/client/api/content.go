package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iudanet/loyalty/pkg/api"
)

// Banners получает активные баннеры главного экрана
func (c *Client) Banners(ctx context.Context) ([]api.Banner, error) {
	var resp api.BannersResponse
	if err := c.doAuthRequest(ctx, http.MethodGet, "/api/user/banners", nil, &resp); err != nil {
		return nil, fmt.Errorf("get banners failed: %w", err)
	}
	return resp.Banners, nil
}

// Notifications получает страницу уведомлений за последние 4 недели
func (c *Client) Notifications(ctx context.Context, limit, offset int) (*api.NotificationsResponse, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))

	var resp api.NotificationsResponse
	path := "/api/user/notifications/last-4-weeks?" + q.Encode()
	if err := c.doAuthRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get notifications failed: %w", err)
	}
	return &resp, nil
}

// Notification получает одно уведомление
func (c *Client) Notification(ctx context.Context, id int64) (*api.Notification, error) {
	var resp api.NotificationResponse
	path := fmt.Sprintf("/api/user/notifications/%d", id)
	if err := c.doAuthRequest(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get notification %d failed: %w", id, err)
	}
	return &resp.Notification, nil
}

// MarkNotificationRead отмечает уведомление прочитанным
func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/api/user/notifications/%d/read", id)
	if err := c.doAuthRequest(ctx, http.MethodPut, path, nil, nil); err != nil {
		return fmt.Errorf("mark notification %d read failed: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead отмечает все уведомления прочитанными
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.doAuthRequest(ctx, http.MethodPut, "/api/user/notifications/read-all", nil, nil); err != nil {
		return fmt.Errorf("mark all notifications read failed: %w", err)
	}
	return nil
}

// NotificationStats получает счетчики уведомлений
func (c *Client) NotificationStats(ctx context.Context) (*api.NotificationStats, error) {
	var resp api.NotificationStats
	if err := c.doAuthRequest(ctx, http.MethodGet, "/api/user/notifications/stats", nil, &resp); err != nil {
		return nil, fmt.Errorf("get notification stats failed: %w", err)
	}
	return &resp, nil
}
