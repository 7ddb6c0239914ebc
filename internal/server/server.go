// Package server собирает HTTP API программы лояльности: маршруты, middleware
// и фоновую очистку просроченных кодов и токенов.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/loyalty/internal/server/handlers"
	"github.com/iudanet/loyalty/internal/server/middleware"
	"github.com/iudanet/loyalty/internal/server/storage"
)

const (
	defaultAuthRateLimit   = 10
	defaultAuthRateWindow  = time.Minute
	defaultCleanupInterval = 10 * time.Minute
	shutdownTimeout        = 10 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

// Storage - все хранилища, нужные серверу
type Storage interface {
	storage.UserStorage
	storage.CodeStorage
	storage.TokenStorage
	storage.ContentStorage
	handlers.Pinger
}

// Config - параметры HTTP сервера
type Config struct {
	Addr            string
	Auth            handlers.AuthConfig
	AuthRateLimit   int           // запросов к /api/auth/* с одного IP за AuthRateWindow
	AuthRateWindow  time.Duration
	CleanupInterval time.Duration
}

// Server - HTTP сервер API
type Server struct {
	store   Storage
	logger  *slog.Logger
	limiter *middleware.RateLimiter
	handler http.Handler
	now     func() time.Time
	cfg     Config
}

// New создает сервер и регистрирует маршруты
func New(cfg Config, store Storage, sender handlers.CodeSender, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AuthRateLimit <= 0 {
		cfg.AuthRateLimit = defaultAuthRateLimit
	}
	if cfg.AuthRateWindow <= 0 {
		cfg.AuthRateWindow = defaultAuthRateWindow
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = defaultCleanupInterval
	}

	s := &Server{
		store:   store,
		logger:  logger,
		limiter: middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateWindow, logger),
		now:     time.Now,
		cfg:     cfg,
	}
	s.handler = s.routes(sender)
	return s
}

// Handler возвращает корневой http.Handler со всеми middleware
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(sender handlers.CodeSender) http.Handler {
	authHandler := handlers.NewAuthHandler(s.logger, s.store, s.store, s.store, sender, s.cfg.Auth)
	userHandler := handlers.NewUserHandler(s.logger, s.store)
	contentHandler := handlers.NewContentHandler(s.logger, s.store)
	healthHandler := handlers.NewHealthHandler(s.logger, s.store)

	limited := middleware.RateLimitMiddleware(s.limiter)
	bearer := middleware.AuthMiddleware(s.logger, s.cfg.Auth.JWT)

	public := func(h http.HandlerFunc) http.Handler { return limited(h) }
	protected := func(h http.HandlerFunc) http.Handler { return bearer(h) }

	mux := http.NewServeMux()

	mux.Handle("POST /api/auth/request-code", public(authHandler.RequestCode))
	mux.Handle("POST /api/auth/verify-code", public(authHandler.VerifyCode))
	mux.Handle("POST /api/auth/refresh", public(authHandler.Refresh))

	mux.Handle("POST /api/user/complete-registration", protected(authHandler.CompleteRegistration))
	mux.Handle("GET /api/user/profile", protected(userHandler.Profile))
	mux.Handle("PUT /api/user/profile", protected(userHandler.UpdateProfile))
	mux.Handle("PUT /api/user/push-token", protected(userHandler.UpdatePushToken))

	mux.Handle("GET /api/user/banners", protected(contentHandler.Banners))
	mux.Handle("GET /api/user/notifications/last-4-weeks", protected(contentHandler.Notifications))
	mux.Handle("GET /api/user/notifications/stats", protected(contentHandler.Stats))
	mux.Handle("GET /api/user/notifications/{id}", protected(contentHandler.Notification))
	mux.Handle("PUT /api/user/notifications/{id}/read", protected(contentHandler.MarkRead))
	mux.Handle("PUT /api/user/notifications/read-all", protected(contentHandler.MarkAllRead))

	mux.HandleFunc("GET /health", healthHandler.Health)

	var h http.Handler = mux
	h = middleware.LoggingWithSkip(s.logger, []string{"/health"})(h)
	h = middleware.RecoveryMiddleware(s.logger)(h)
	h = middleware.RequestID(h)
	return h
}

// Run слушает cfg.Addr до отмены ctx, затем корректно завершает соединения
func (s *Server) Run(ctx context.Context) error {
	defer s.limiter.Stop()

	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("server started", slog.String("addr", s.cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.runCleanup(gctx)
		return nil
	})

	return g.Wait()
}

// runCleanup периодически удаляет просроченные коды и refresh токены
func (s *Server) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpired(ctx)
		}
	}
}

func (s *Server) cleanupExpired(ctx context.Context) {
	now := s.now()

	codes, err := s.store.DeleteExpiredCodes(ctx, now)
	if err != nil {
		s.logger.Warn("failed to delete expired codes", slog.Any("error", err))
	}
	tokens, err := s.store.DeleteExpiredTokens(ctx, now)
	if err != nil {
		s.logger.Warn("failed to delete expired tokens", slog.Any("error", err))
	}

	if codes > 0 || tokens > 0 {
		s.logger.Info("expired records removed",
			slog.Int("codes", codes),
			slog.Int("tokens", tokens))
	}
}
