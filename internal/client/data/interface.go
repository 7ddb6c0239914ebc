package data

import (
	"context"

	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

//go:generate moq -out contentapi_mock.go . ContentAPI
//go:generate moq -out imageresolver_mock.go . ImageResolver

// ContentAPI - методы сервера, нужные экранам приложения
type ContentAPI interface {
	Profile(ctx context.Context) (*pkgapi.User, error)
	UpdateProfile(ctx context.Context, req pkgapi.UpdateProfileRequest) (*pkgapi.User, error)
	UpdatePushToken(ctx context.Context, pushToken string) error
	Banners(ctx context.Context) ([]pkgapi.Banner, error)
	Notifications(ctx context.Context, limit, offset int) (*pkgapi.NotificationsResponse, error)
	Notification(ctx context.Context, id int64) (*pkgapi.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	MarkAllNotificationsRead(ctx context.Context) error
	NotificationStats(ctx context.Context) (*pkgapi.NotificationStats, error)
}

// ImageResolver заменяет URL изображений на локальные пути из кэша
type ImageResolver interface {
	Prefetch(ctx context.Context, urls []string) []string
}
