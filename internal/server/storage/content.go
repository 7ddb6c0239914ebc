package storage

import (
	"context"
	"time"

	"github.com/iudanet/loyalty/internal/models"
)

// NotificationFilter selects a page of user notifications created after Since
type NotificationFilter struct {
	Since  time.Time
	UserID int64
	Limit  int
	Offset int
}

// ContentStorage defines interface for banners and notifications
type ContentStorage interface {
	// CreateBanner stores a banner and fills its ID
	CreateBanner(ctx context.Context, banner *models.Banner) error

	// ActiveBanners returns active banners ordered by order_index
	ActiveBanners(ctx context.Context) ([]models.Banner, error)

	// CreateNotification stores a notification and fills its ID
	CreateNotification(ctx context.Context, n *models.Notification) error

	// ListNotifications returns a page of notifications, newest first,
	// and whether more notifications follow the page
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]models.Notification, bool, error)

	// GetNotification returns user's notification by ID
	// Returns ErrNotificationNotFound if it doesn't exist or belongs to another user
	GetNotification(ctx context.Context, userID, id int64) (*models.Notification, error)

	// MarkNotificationRead marks user's notification as read
	// Returns ErrNotificationNotFound if it doesn't exist or belongs to another user
	MarkNotificationRead(ctx context.Context, userID, id int64) error

	// MarkAllNotificationsRead marks all user's notifications as read
	// Returns number of updated notifications
	MarkAllNotificationsRead(ctx context.Context, userID int64) (int, error)

	// NotificationStats returns total and unread counters for notifications created after since
	NotificationStats(ctx context.Context, userID int64, since time.Time) (total, unread int, err error)
}
