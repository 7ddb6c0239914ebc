package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/storage"
)

// CreateBanner stores a banner and fills its ID
func (s *Storage) CreateBanner(ctx context.Context, banner *models.Banner) error {
	if banner.CreatedAt.IsZero() {
		banner.CreatedAt = s.now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO banners (title, image_url, link_url, order_index, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, banner.Title, banner.ImageURL, nullString(banner.LinkURL), banner.OrderIndex, banner.IsActive, toMillis(banner.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert banner: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get banner id: %w", err)
	}
	banner.ID = id
	return nil
}

// ActiveBanners returns active banners ordered by order_index
func (s *Storage) ActiveBanners(ctx context.Context) ([]models.Banner, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, image_url, link_url, order_index, is_active, created_at
		FROM banners
		WHERE is_active = 1
		ORDER BY order_index, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query banners: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	banners := []models.Banner{}
	for rows.Next() {
		var (
			b         models.Banner
			link      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&b.ID, &b.Title, &b.ImageURL, &link, &b.OrderIndex, &b.IsActive, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		b.LinkURL = stringPtr(link)
		b.CreatedAt = fromMillis(createdAt)
		banners = append(banners, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate banners: %w", err)
	}
	return banners, nil
}

// CreateNotification stores a notification and fills its ID
func (s *Storage) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, message, is_read, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, n.UserID, n.Title, n.Message, n.IsRead, toMillis(n.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get notification id: %w", err)
	}
	n.ID = id
	return nil
}

const notificationColumns = `id, user_id, title, message, is_read, created_at`

func scanNotification(row rowScanner) (*models.Notification, error) {
	var (
		n         models.Notification
		createdAt int64
	)
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.IsRead, &createdAt); err != nil {
		return nil, err
	}
	n.CreatedAt = fromMillis(createdAt)
	return &n, nil
}

// ListNotifications returns a page of notifications, newest first
func (s *Storage) ListNotifications(ctx context.Context, filter storage.NotificationFilter) ([]models.Notification, bool, error) {
	// Запрашиваем на одну запись больше, чтобы узнать о следующей странице
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, filter.UserID, toMillis(filter.Since), filter.Limit+1, filter.Offset)
	if err != nil {
		return nil, false, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	list := []models.Notification{}
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, false, fmt.Errorf("failed to scan notification: %w", err)
		}
		list = append(list, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	hasMore := len(list) > filter.Limit
	if hasMore {
		list = list[:filter.Limit]
	}
	return list, hasMore, nil
}

// GetNotification returns user's notification by ID
func (s *Storage) GetNotification(ctx context.Context, userID, id int64) (*models.Notification, error) {
	n, err := scanNotification(s.db.QueryRowContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ? AND user_id = ?`, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return n, nil
}

// MarkNotificationRead marks user's notification as read
func (s *Storage) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	err := s.execOne(ctx, storage.ErrNotificationNotFound,
		`UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotificationNotFound) {
			return err
		}
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead marks all user's notifications as read
func (s *Storage) MarkAllNotificationsRead(ctx context.Context, userID int64) (int, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// NotificationStats returns total and unread counters
func (s *Storage) NotificationStats(ctx context.Context, userID int64, since time.Time) (int, int, error) {
	var total, unread int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(CASE WHEN is_read = 0 THEN 1 ELSE 0 END), 0)
		FROM notifications
		WHERE user_id = ? AND created_at >= ?
	`, userID, toMillis(since)).Scan(&total, &unread)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return total, unread, nil
}
