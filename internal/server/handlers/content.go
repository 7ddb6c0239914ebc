package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/iudanet/loyalty/internal/server/storage"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

const (
	// NotificationsWindow - за какой период отдаются уведомления
	NotificationsWindow = 28 * 24 * time.Hour
	// DefaultNotificationsLimit - размер страницы по умолчанию
	DefaultNotificationsLimit = 20
	// MaxNotificationsLimit - максимальный размер страницы
	MaxNotificationsLimit = 100
)

// ContentHandler обрабатывает баннеры и уведомления
type ContentHandler struct {
	logger  *slog.Logger
	content storage.ContentStorage
	now     func() time.Time
}

// NewContentHandler создает новый handler контента
func NewContentHandler(logger *slog.Logger, content storage.ContentStorage) *ContentHandler {
	return &ContentHandler{
		logger:  logger,
		content: content,
		now:     time.Now,
	}
}

// Banners обрабатывает GET /api/user/banners
func (h *ContentHandler) Banners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	banners, err := h.content.ActiveBanners(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list banners", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := pkgapi.BannersResponse{Success: true, Banners: make([]pkgapi.Banner, 0, len(banners))}
	for i := range banners {
		resp.Banners = append(resp.Banners, banners[i].ToAPI())
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Notifications обрабатывает GET /api/user/notifications/last-4-weeks?limit=&offset=
func (h *ContentHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	limit, offset, err := parsePage(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	list, hasMore, err := h.content.ListNotifications(ctx, storage.NotificationFilter{
		UserID: userID,
		Since:  h.now().Add(-NotificationsWindow),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list notifications", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := pkgapi.NotificationsResponse{
		Success:       true,
		Notifications: make([]pkgapi.Notification, 0, len(list)),
		Pagination:    &pkgapi.Pagination{Limit: limit, Offset: offset, HasMore: hasMore},
	}
	for i := range list {
		resp.Notifications = append(resp.Notifications, list[i].ToAPI())
	}
	sendJSON(h.logger, w, resp, http.StatusOK)
}

// Notification обрабатывает GET /api/user/notifications/{id}
func (h *ContentHandler) Notification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	n, err := h.content.GetNotification(ctx, userID, id)
	if err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	sendJSON(h.logger, w, pkgapi.NotificationResponse{Success: true, Notification: n.ToAPI()}, http.StatusOK)
}

// MarkRead обрабатывает PUT /api/user/notifications/{id}/read
func (h *ContentHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseID(r)
	if err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.content.MarkNotificationRead(ctx, userID, id); err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	sendJSON(h.logger, w, pkgapi.StatusResponse{Success: true}, http.StatusOK)
}

// MarkAllRead обрабатывает PUT /api/user/notifications/read-all
func (h *ContentHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	n, err := h.content.MarkAllNotificationsRead(ctx, userID)
	if err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	sendJSON(h.logger, w, pkgapi.StatusResponse{
		Success: true,
		Message: fmt.Sprintf("%d notifications marked as read", n),
	}, http.StatusOK)
}

// Stats обрабатывает GET /api/user/notifications/stats
func (h *ContentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	total, unread, err := h.content.NotificationStats(ctx, userID, h.now().Add(-NotificationsWindow))
	if err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	sendJSON(h.logger, w, pkgapi.NotificationStats{Success: true, Total: total, Unread: unread}, http.StatusOK)
}

func (h *ContentHandler) handleStorageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrNotificationNotFound) {
		sendError(h.logger, w, "notification not found", http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "content storage error", slog.Any("error", err))
	sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
}

// parsePage читает limit и offset из query
func parsePage(r *http.Request) (int, int, error) {
	q := r.URL.Query()
	limit, offset := DefaultNotificationsLimit, 0

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > MaxNotificationsLimit {
			return 0, 0, fmt.Errorf("limit must be between 1 and %d", MaxNotificationsLimit)
		}
		limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0, 0, errors.New("offset must be a non-negative integer")
		}
		offset = n
	}
	return limit, offset, nil
}

// parseID читает {id} из пути (Go 1.22+)
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid notification id")
	}
	return id, nil
}
