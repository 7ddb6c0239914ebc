package api

import "time"

// Banner представляет рекламный баннер на главном экране
type Banner struct {
	CreatedAt  time.Time `json:"createdAt"`
	LinkURL    *string   `json:"linkUrl"`
	Title      string    `json:"title"`
	ImageURL   string    `json:"imageUrl"`
	ID         int64     `json:"id"`
	OrderIndex int       `json:"orderIndex"`
	IsActive   bool      `json:"isActive"`
}

// BannersResponse представляет список активных баннеров
type BannersResponse struct {
	Banners []Banner `json:"banners"`
	Success bool     `json:"success"`
}

// Notification представляет уведомление пользователя
type Notification struct {
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	ID        int64     `json:"id"`
	IsRead    bool      `json:"is_read"`
}

// Pagination описывает страницу списка
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"hasMore"`
}

// NotificationsResponse представляет страницу уведомлений за последние 4 недели
type NotificationsResponse struct {
	Pagination    *Pagination    `json:"pagination,omitempty"`
	Notifications []Notification `json:"notifications"`
	Success       bool           `json:"success"`
}

// NotificationResponse представляет одно уведомление
type NotificationResponse struct {
	Notification Notification `json:"notification"`
	Success      bool         `json:"success"`
}

// NotificationStats содержит счетчики уведомлений
type NotificationStats struct {
	Total   int  `json:"total"`
	Unread  int  `json:"unread"`
	Success bool `json:"success"`
}
