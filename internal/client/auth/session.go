package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
)

// State - состояние сессии
type State int

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateRefreshing
)

// String returns the state name
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateRefreshing:
		return "refreshing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	defaultRefreshTimeout = 30 * time.Second
	defaultRefreshSkew    = 30 * time.Second
	refreshFlightKey      = "refresh"
)

// Session управляет жизненным циклом токенов: сохранение, обновление и выход.
// Одновременно выполняется не больше одного обновления токена,
// все конкурентные вызовы Refresh получают его результат.
type Session struct {
	tokens         Tokens
	refresher      Refresher
	logger         *slog.Logger
	now            func() time.Time
	group          singleflight.Group
	listeners      []func()
	refreshTimeout time.Duration
	refreshSkew    time.Duration
	mu             sync.Mutex
	state          State
}

// SessionOption настраивает Session
type SessionOption func(*Session)

// WithRefreshTimeout задает таймаут запроса обновления токена
func WithRefreshTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.refreshTimeout = d
		}
	}
}

// WithRefreshSkew задает, за сколько до истечения access token обновлять его заранее
func WithRefreshSkew(d time.Duration) SessionOption {
	return func(s *Session) {
		if d >= 0 {
			s.refreshSkew = d
		}
	}
}

// WithClock подменяет источник текущего времени
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession создает менеджер сессии
func NewSession(tokens Tokens, refresher Refresher, logger *slog.Logger, opts ...SessionOption) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		tokens:         tokens,
		refresher:      refresher,
		logger:         logger,
		now:            time.Now,
		refreshTimeout: defaultRefreshTimeout,
		refreshSkew:    defaultRefreshSkew,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init восстанавливает состояние по сохраненным токенам.
// Возвращает true, если оба токена на месте.
func (s *Session) Init(ctx context.Context) bool {
	_, hasAccess := s.tokens.GetAccessToken(ctx)
	_, hasRefresh := s.tokens.GetRefreshToken(ctx)

	ok := hasAccess && hasRefresh
	if ok {
		s.setState(StateAuthenticated)
	} else {
		s.setState(StateUnauthenticated)
	}
	return ok
}

// State возвращает текущее состояние сессии
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnLogout подписывает fn на завершение сессии
func (s *Session) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// SaveTokens сохраняет токены после входа или регистрации
func (s *Session) SaveTokens(ctx context.Context, accessToken, refreshToken string) error {
	if err := s.tokens.SetTokens(ctx, accessToken, refreshToken); err != nil {
		s.logger.ErrorContext(ctx, "Error saving tokens", "error", err)
		return err
	}
	s.setState(StateAuthenticated)
	return nil
}

// AccessToken возвращает текущий access token
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	token, ok := s.tokens.GetAccessToken(ctx)
	if !ok {
		return "", ErrNotAuthenticated
	}
	return token, nil
}

// Refresh обновляет access token, который был отклонен сервером.
// staleToken - токен, с которым запрос получил 401. Если в хранилище уже
// лежит другой токен, значит его обновил кто-то раньше, и он возвращается
// без обращения к серверу. Любая ошибка обновления завершает сессию.
func (s *Session) Refresh(ctx context.Context, staleToken string) (string, error) {
	ch := s.group.DoChan(refreshFlightKey, func() (any, error) {
		// Обновление доводится до конца, даже если вызвавший его запрос отменен
		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.refreshTimeout)
		defer cancel()
		return s.refresh(flightCtx, staleToken)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// EnsureFresh возвращает access token, заранее обновляя его, если JWT
// истекает в пределах refreshSkew. Непрозрачные токены не трогает.
func (s *Session) EnsureFresh(ctx context.Context) (string, error) {
	token, err := s.AccessToken(ctx)
	if err != nil {
		return "", err
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return token, nil
	}
	if claims.ExpiresAt == nil {
		return token, nil
	}

	if claims.ExpiresAt.Sub(s.now()) > s.refreshSkew {
		return token, nil
	}

	s.logger.DebugContext(ctx, "Access token is about to expire, refreshing", "expires_at", claims.ExpiresAt.Time)
	return s.Refresh(ctx, token)
}

// Logout удаляет токены и уведомляет подписчиков
func (s *Session) Logout(ctx context.Context) {
	s.tokens.ClearTokens(ctx)

	s.mu.Lock()
	s.state = StateUnauthenticated
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}

	s.logger.InfoContext(ctx, "Logged out")
}

func (s *Session) refresh(ctx context.Context, staleToken string) (string, error) {
	if staleToken != "" {
		current, ok := s.tokens.GetAccessToken(ctx)
		if !ok {
			// Сессия уже завершена предыдущим обновлением
			s.setState(StateUnauthenticated)
			return "", fmt.Errorf("%w: %w", ErrRefreshFailed, ErrNotAuthenticated)
		}
		if current != staleToken {
			s.logger.DebugContext(ctx, "Access token already refreshed")
			return current, nil
		}
	}

	s.setState(StateRefreshing)

	refreshToken, ok := s.tokens.GetRefreshToken(ctx)
	if !ok {
		return "", s.failRefresh(ctx, ErrNoRefreshToken)
	}

	resp, err := s.refresher.Refresh(ctx, refreshToken)
	if err != nil {
		return "", s.failRefresh(ctx, err)
	}
	if resp == nil || resp.AccessToken == "" {
		return "", s.failRefresh(ctx, errors.New("empty access token in refresh response"))
	}

	// Refresh token переиспользуется, если сервер не выдал новый
	nextRefresh := refreshToken
	if resp.RefreshToken != "" {
		nextRefresh = resp.RefreshToken
	}

	if err := s.tokens.SetTokens(ctx, resp.AccessToken, nextRefresh); err != nil {
		return "", s.failRefresh(ctx, err)
	}

	s.setState(StateAuthenticated)
	s.logger.DebugContext(ctx, "Access token refreshed", "refresh_rotated", resp.RefreshToken != "")
	return resp.AccessToken, nil
}

func (s *Session) failRefresh(ctx context.Context, cause error) error {
	s.logger.ErrorContext(ctx, "Error refreshing access token", "error", cause)
	s.Logout(ctx)
	return fmt.Errorf("%w: %w", ErrRefreshFailed, cause)
}

func (s *Session) setState(state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// ProactiveSource отдает access token через EnsureFresh, чтобы истекающий
// JWT обновлялся до отправки запроса, а не после 401
type ProactiveSource struct {
	*Session
}

// AccessToken returns a token that is not about to expire
func (p ProactiveSource) AccessToken(ctx context.Context) (string, error) {
	return p.EnsureFresh(ctx)
}
