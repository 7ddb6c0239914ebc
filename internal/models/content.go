package models

import (
	"time"

	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// Banner представляет рекламный баннер главного экрана
type Banner struct {
	CreatedAt  time.Time
	LinkURL    *string
	Title      string
	ImageURL   string
	ID         int64
	OrderIndex int
	IsActive   bool
}

func (b *Banner) ToAPI() pkgapi.Banner {
	return pkgapi.Banner{
		ID:         b.ID,
		Title:      b.Title,
		ImageURL:   b.ImageURL,
		LinkURL:    b.LinkURL,
		OrderIndex: b.OrderIndex,
		IsActive:   b.IsActive,
		CreatedAt:  b.CreatedAt,
	}
}

// Notification представляет уведомление пользователя
type Notification struct {
	CreatedAt time.Time
	Title     string
	Message   string
	ID        int64
	UserID    int64
	IsRead    bool
}

func (n *Notification) ToAPI() pkgapi.Notification {
	return pkgapi.Notification{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}
