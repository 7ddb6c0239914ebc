package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/loyalty/internal/validation"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// ErrInvalidInput - ошибка валидации пользовательского ввода
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Dashboard - данные главного экрана
type Dashboard struct {
	User        *pkgapi.User
	Banners     []pkgapi.Banner // ImageURL заменен на локальный путь, если изображение в кэше
	UnreadCount int
}

// Card - данные экрана карты лояльности
type Card struct {
	Number string
	Holder string
}

// Service предоставляет данные для экранов клиента
type Service struct {
	api    ContentAPI
	images ImageResolver
	logger *slog.Logger
	now    func() time.Time
}

// NewService создает сервис данных. images может быть nil,
// тогда URL баннеров возвращаются без изменений.
func NewService(api ContentAPI, images ImageResolver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:    api,
		images: images,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard загружает профиль, баннеры и количество непрочитанных уведомлений.
// Ошибка профиля прерывает загрузку, баннеры и счетчик необязательны.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		user    *pkgapi.User
		banners []pkgapi.Banner
		stats   *pkgapi.NotificationStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := s.api.Profile(gctx)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	g.Go(func() error {
		b, err := s.api.Banners(gctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Error loading banners", "error", err)
			return nil
		}
		banners = b
		return nil
	})
	g.Go(func() error {
		st, err := s.api.NotificationStats(gctx)
		if err != nil {
			s.logger.WarnContext(ctx, "Error loading notification stats", "error", err)
			return nil
		}
		stats = st
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load dashboard: %w", err)
	}

	d := &Dashboard{
		User:    user,
		Banners: s.resolveImages(ctx, activeBanners(banners)),
	}
	if stats != nil {
		d.UnreadCount = stats.Unread
	}
	return d, nil
}

// activeBanners оставляет активные баннеры, сохраняя порядок сервера
func activeBanners(banners []pkgapi.Banner) []pkgapi.Banner {
	out := make([]pkgapi.Banner, 0, len(banners))
	for _, b := range banners {
		if b.IsActive {
			out = append(out, b)
		}
	}
	return out
}

func (s *Service) resolveImages(ctx context.Context, banners []pkgapi.Banner) []pkgapi.Banner {
	if s.images == nil || len(banners) == 0 {
		return banners
	}

	urls := make([]string, len(banners))
	for i, b := range banners {
		urls[i] = b.ImageURL
	}
	local := s.images.Prefetch(ctx, urls)
	for i := range banners {
		if i < len(local) {
			banners[i].ImageURL = local[i]
		}
	}
	return banners
}

// Card возвращает номер карты и имя владельца
func (s *Service) Card(ctx context.Context) (*Card, error) {
	user, err := s.api.Profile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load card: %w", err)
	}
	return &Card{
		Number: user.CardNumber,
		Holder: user.FullName,
	}, nil
}

// Notifications возвращает страницу уведомлений за последние 4 недели.
// limit <= 0 заменяется на DefaultPageSize.
func (s *Service) Notifications(ctx context.Context, limit, offset int) (*pkgapi.NotificationsResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return nil, fmt.Errorf("%w: limit must not exceed %d", ErrInvalidInput, MaxPageSize)
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}

	resp, err := s.api.Notifications(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	return resp, nil
}

// Notification возвращает одно уведомление
func (s *Service) Notification(ctx context.Context, id int64) (*pkgapi.Notification, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: notification id must be positive", ErrInvalidInput)
	}
	return s.api.Notification(ctx, id)
}

// MarkRead отмечает уведомление прочитанным
func (s *Service) MarkRead(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: notification id must be positive", ErrInvalidInput)
	}
	return s.api.MarkNotificationRead(ctx, id)
}

// MarkAllRead отмечает все уведомления прочитанными
func (s *Service) MarkAllRead(ctx context.Context) error {
	return s.api.MarkAllNotificationsRead(ctx)
}

// Profile возвращает профиль пользователя
func (s *Service) Profile(ctx context.Context) (*pkgapi.User, error) {
	return s.api.Profile(ctx)
}

// UpdateProfile проверяет и нормализует заполненные поля и отправляет их на сервер.
// Пустая строка в необязательном поле очищает его.
func (s *Service) UpdateProfile(ctx context.Context, req pkgapi.UpdateProfileRequest) (*pkgapi.User, error) {
	var errs []error

	if req.FullName != nil {
		name := validation.NormalizeFullName(*req.FullName)
		if err := validation.ValidateFullName(name); err != nil {
			errs = append(errs, err)
		}
		req.FullName = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if err := validation.ValidateEmail(email); err != nil {
				errs = append(errs, err)
			}
		}
		req.Email = &email
	}
	if req.BirthDate != nil {
		date := strings.TrimSpace(*req.BirthDate)
		if date != "" {
			if err := validation.ValidateBirthDate(date, s.now()); err != nil {
				errs = append(errs, err)
			}
		}
		req.BirthDate = &date
	}
	if req.Address != nil {
		addr := strings.TrimSpace(*req.Address)
		req.Address = &addr
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	if req.FullName == nil && req.Email == nil && req.BirthDate == nil && req.Address == nil {
		return nil, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	user, err := s.api.UpdateProfile(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "Profile updated", "user_id", user.ID)
	return user, nil
}

// UpdatePushToken сохраняет push токен устройства на сервере
func (s *Service) UpdatePushToken(ctx context.Context, pushToken string) error {
	pushToken = strings.TrimSpace(pushToken)
	if pushToken == "" {
		return fmt.Errorf("%w: push token is empty", ErrInvalidInput)
	}
	return s.api.UpdatePushToken(ctx, pushToken)
}
