package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iudanet/loyalty/internal/validation"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// Service предоставляет функции входа по номеру телефона
type Service struct {
	api     AuthAPI
	session *Session
	store   StatusReporter
	logger  *slog.Logger
}

// NewService создает новый сервис авторизации
func NewService(api AuthAPI, session *Session, store StatusReporter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		api:     api,
		session: session,
		store:   store,
		logger:  logger,
	}
}

// RequestCode запрашивает отправку одноразового кода на телефон
func (s *Service) RequestCode(ctx context.Context, phone, pushToken string) (*pkgapi.RequestCodeResponse, error) {
	phone = validation.NormalizePhone(phone)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, fmt.Errorf("invalid phone: %w", err)
	}

	resp, err := s.api.RequestCode(ctx, pkgapi.RequestCodeRequest{
		Phone:     phone,
		PushToken: pushToken,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request code: %w", err)
	}

	s.logger.InfoContext(ctx, "Code requested", "is_registered", resp.IsRegistered, "expires_in", resp.ExpiresIn)
	return resp, nil
}

// VerifyCode проверяет код и при успехе сохраняет токены.
// При любой ошибке токены не сохраняются.
func (s *Service) VerifyCode(ctx context.Context, phone, code string) (*pkgapi.User, error) {
	phone = validation.NormalizePhone(phone)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, fmt.Errorf("invalid phone: %w", err)
	}
	if err := validation.ValidateCode(code); err != nil {
		return nil, fmt.Errorf("invalid code: %w", err)
	}

	resp, err := s.api.VerifyCode(ctx, pkgapi.VerifyCodeRequest{
		Phone: phone,
		Code:  code,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	if !resp.Success || resp.Token == "" || resp.RefreshToken == "" {
		return nil, ErrVerificationFailed
	}

	if err := s.session.SaveTokens(ctx, resp.Token, resp.RefreshToken); err != nil {
		return nil, fmt.Errorf("failed to save tokens: %w", err)
	}

	user := resp.User
	return &user, nil
}

// CompleteRegistration задает имя нового пользователя
func (s *Service) CompleteRegistration(ctx context.Context, phone, fullName string) (*pkgapi.User, error) {
	phone = validation.NormalizePhone(phone)
	if err := validation.ValidatePhone(phone); err != nil {
		return nil, fmt.Errorf("invalid phone: %w", err)
	}
	fullName = validation.NormalizeFullName(fullName)
	if err := validation.ValidateFullName(fullName); err != nil {
		return nil, fmt.Errorf("invalid full name: %w", err)
	}

	resp, err := s.api.CompleteRegistration(ctx, pkgapi.CompleteRegistrationRequest{
		Phone:    phone,
		FullName: fullName,
	})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	user := resp.User
	return &user, nil
}

// Logout завершает сессию
func (s *Service) Logout(ctx context.Context) {
	s.session.Logout(ctx)
}

// Status описывает локальное состояние сессии
type Status struct {
	DeviceID          string
	State             State
	TokenVersionValid bool
}

// StatusReporter - дополнительные сведения о хранилище токенов
type StatusReporter interface {
	DeviceID(ctx context.Context) (string, error)
	TokenVersionValid(ctx context.Context) bool
}

// Status перечитывает токены и возвращает состояние сессии
func (s *Service) Status(ctx context.Context) (*Status, error) {
	s.session.Init(ctx)

	st := &Status{State: s.session.State()}
	if s.store == nil {
		return st, nil
	}

	deviceID, err := s.store.DeviceID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get device id: %w", err)
	}
	st.DeviceID = deviceID
	st.TokenVersionValid = s.store.TokenVersionValid(ctx)

	return st, nil
}
