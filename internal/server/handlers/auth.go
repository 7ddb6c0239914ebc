package handlers

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"time"

	"github.com/iudanet/loyalty/internal/crypto"
	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/storage"
	"github.com/iudanet/loyalty/internal/validation"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// AuthConfig - параметры выдачи кодов и токенов
type AuthConfig struct {
	JWT             JWTConfig
	CodeTTL         time.Duration
	MaxCodeAttempts int
	RotateRefresh   bool
}

// AuthHandler обрабатывает запросы авторизации по одноразовому коду
type AuthHandler struct {
	logger       *slog.Logger
	userStorage  storage.UserStorage
	codeStorage  storage.CodeStorage
	tokenStorage storage.TokenStorage
	sender       CodeSender
	now          func() time.Time
	cfg          AuthConfig
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(
	logger *slog.Logger,
	userStorage storage.UserStorage,
	codeStorage storage.CodeStorage,
	tokenStorage storage.TokenStorage,
	sender CodeSender,
	cfg AuthConfig,
) *AuthHandler {
	return &AuthHandler{
		logger:       logger,
		userStorage:  userStorage,
		codeStorage:  codeStorage,
		tokenStorage: tokenStorage,
		sender:       sender,
		cfg:          cfg,
		now:          time.Now,
	}
}

// RequestCode обрабатывает POST /api/auth/request-code
func (h *AuthHandler) RequestCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.RequestCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode request-code request", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	phone := validation.NormalizePhone(req.Phone)
	if err := validation.ValidatePhone(phone); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	code, err := generateCode()
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate code", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	codeHash, err := crypto.HashCode(code)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to hash code", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	now := h.now()
	authCode := &models.AuthCode{
		Phone:     phone,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(h.cfg.CodeTTL),
		CreatedAt: now,
	}
	if err := h.codeStorage.SaveCode(ctx, authCode); err != nil {
		h.logger.ErrorContext(ctx, "failed to save code", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.sender.SendCode(ctx, phone, code); err != nil {
		h.logger.ErrorContext(ctx, "failed to send code", slog.Any("error", err))
		sendError(h.logger, w, "failed to send code", http.StatusInternalServerError)
		return
	}

	resp := pkgapi.RequestCodeResponse{
		Success:   true,
		Message:   "code sent",
		ExpiresIn: int64(h.cfg.CodeTTL.Seconds()),
	}

	user, err := h.userStorage.GetUserByPhone(ctx, phone)
	switch {
	case err == nil:
		if req.PushToken != "" {
			if err := h.userStorage.UpdatePushToken(ctx, user.ID, req.PushToken); err != nil {
				// Не критично для выдачи кода
				h.logger.WarnContext(ctx, "failed to update push token", slog.Any("error", err))
			}
		}
		apiUser := user.ToAPI()
		resp.User = &apiUser
		resp.IsRegistered = user.IsRegistered()
	case !errors.Is(err, storage.ErrUserNotFound):
		h.logger.WarnContext(ctx, "failed to look up user", slog.Any("error", err))
	}

	h.logger.InfoContext(ctx, "code requested",
		slog.String("phone", validation.MaskPhone(phone)),
		slog.Bool("registered", resp.IsRegistered))

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// VerifyCode обрабатывает POST /api/auth/verify-code.
// При первом входе создает пользователя.
func (h *AuthHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.VerifyCodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode verify-code request", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	phone := validation.NormalizePhone(req.Phone)
	if err := validation.ValidatePhone(phone); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateCode(req.Code); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	stored, err := h.codeStorage.GetCode(ctx, phone)
	if err != nil {
		if errors.Is(err, storage.ErrCodeNotFound) {
			sendError(h.logger, w, "code not found, request a new one", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get code", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if stored.Expired(h.now()) {
		if err := h.codeStorage.DeleteCode(ctx, phone); err != nil {
			h.logger.WarnContext(ctx, "failed to delete expired code", slog.Any("error", err))
		}
		sendError(h.logger, w, "code expired", http.StatusUnauthorized)
		return
	}

	// Попытка списывается атомарно до сравнения кода
	attempts, err := h.codeStorage.ClaimAttempt(ctx, phone, h.cfg.MaxCodeAttempts)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrCodeAttemptsExhausted):
			h.logger.WarnContext(ctx, "code attempts exhausted",
				slog.String("phone", validation.MaskPhone(phone)))
			sendError(h.logger, w, "too many attempts, request a new code", http.StatusTooManyRequests)
		case errors.Is(err, storage.ErrCodeNotFound):
			sendError(h.logger, w, "code not found, request a new one", http.StatusUnauthorized)
		default:
			h.logger.ErrorContext(ctx, "failed to claim attempt", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		}
		return
	}

	ok, err := crypto.VerifyCode(req.Code, stored.CodeHash)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to verify code", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	if !ok {
		h.logger.WarnContext(ctx, "invalid code",
			slog.String("phone", validation.MaskPhone(phone)),
			slog.Int("attempts", attempts))
		sendError(h.logger, w, "invalid code", http.StatusUnauthorized)
		return
	}

	if err := h.codeStorage.DeleteCode(ctx, phone); err != nil {
		h.logger.WarnContext(ctx, "failed to delete used code", slog.Any("error", err))
	}

	user, err := h.getOrCreateUser(ctx, phone)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to get or create user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	accessToken, _, err := GenerateAccessToken(h.cfg.JWT, user.ID, user.Phone)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	refreshToken, err := h.issueRefreshToken(ctx, user.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "user logged in",
		slog.Int64("user_id", user.ID),
		slog.Bool("registered", user.IsRegistered()))

	sendJSON(h.logger, w, pkgapi.VerifyCodeResponse{
		Success:      true,
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         user.ToAPI(),
	}, http.StatusOK)
}

// Refresh обрабатывает POST /api/auth/refresh.
// Refresh token передается в теле запроса.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req pkgapi.RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode refresh request", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.RefreshToken == "" {
		sendError(h.logger, w, "refresh token is required", http.StatusUnauthorized)
		return
	}

	tokenHash := crypto.HashToken(req.RefreshToken)
	stored, err := h.tokenStorage.GetRefreshToken(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			h.logger.WarnContext(ctx, "refresh token not found")
			sendError(h.logger, w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get refresh token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if !h.now().Before(stored.ExpiresAt) {
		h.logger.WarnContext(ctx, "refresh token expired", slog.Int64("user_id", stored.UserID))
		if err := h.tokenStorage.DeleteRefreshToken(ctx, tokenHash); err != nil {
			h.logger.WarnContext(ctx, "failed to delete expired refresh token", slog.Any("error", err))
		}
		sendError(h.logger, w, "refresh token expired", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "invalid refresh token", http.StatusUnauthorized)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	accessToken, _, err := GenerateAccessToken(h.cfg.JWT, user.ID, user.Phone)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate access token", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	resp := pkgapi.RefreshResponse{
		Success:     true,
		AccessToken: accessToken,
	}

	if h.cfg.RotateRefresh {
		newRefresh, err := h.issueRefreshToken(ctx, user.ID)
		if err != nil {
			h.logger.ErrorContext(ctx, "failed to issue refresh token", slog.Any("error", err))
			sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
			return
		}
		if err := h.tokenStorage.DeleteRefreshToken(ctx, tokenHash); err != nil {
			h.logger.WarnContext(ctx, "failed to delete old refresh token", slog.Any("error", err))
		}
		resp.RefreshToken = newRefresh
	}

	h.logger.InfoContext(ctx, "access token refreshed",
		slog.Int64("user_id", user.ID),
		slog.Bool("rotated", h.cfg.RotateRefresh))

	sendJSON(h.logger, w, resp, http.StatusOK)
}

// CompleteRegistration обрабатывает POST /api/user/complete-registration.
// Требует bearer токен; телефон в теле должен совпадать с владельцем токена.
func (h *AuthHandler) CompleteRegistration(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req pkgapi.CompleteRegistrationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode registration request", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	phone := validation.NormalizePhone(req.Phone)
	if err := validation.ValidatePhone(phone); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}
	fullName := validation.NormalizeFullName(req.FullName)
	if err := validation.ValidateFullName(fullName); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			sendError(h.logger, w, "user not found", http.StatusNotFound)
			return
		}
		h.logger.ErrorContext(ctx, "failed to get user", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	if user.Phone != phone {
		h.logger.WarnContext(ctx, "registration phone mismatch", slog.Int64("user_id", userID))
		sendError(h.logger, w, "phone does not match the authenticated user", http.StatusForbidden)
		return
	}

	user, err = h.userStorage.UpdateProfile(ctx, userID, models.ProfileUpdate{FullName: &fullName})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to complete registration", slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "registration completed", slog.Int64("user_id", userID))

	sendJSON(h.logger, w, pkgapi.CompleteRegistrationResponse{
		Success: true,
		Message: "registration completed",
		User:    user.ToAPI(),
	}, http.StatusOK)
}

func (h *AuthHandler) getOrCreateUser(ctx context.Context, phone string) (*models.User, error) {
	user, err := h.userStorage.GetUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		return nil, err
	}

	user, err = h.userStorage.CreateUser(ctx, phone)
	if errors.Is(err, storage.ErrUserAlreadyExists) {
		// Параллельный вход с того же номера
		return h.userStorage.GetUserByPhone(ctx, phone)
	}
	if err != nil {
		return nil, err
	}

	h.logger.InfoContext(ctx, "user created",
		slog.Int64("user_id", user.ID),
		slog.String("card_number", user.CardNumber))
	return user, nil
}

// issueRefreshToken генерирует refresh token и сохраняет его хеш
func (h *AuthHandler) issueRefreshToken(ctx context.Context, userID int64) (string, error) {
	token, expiresAt, err := GenerateRefreshToken(h.cfg.JWT)
	if err != nil {
		return "", err
	}

	err = h.tokenStorage.SaveRefreshToken(ctx, &models.RefreshToken{
		TokenHash: crypto.HashToken(token),
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: h.now(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to save refresh token: %w", err)
	}
	return token, nil
}

// generateCode возвращает случайный код из validation.CodeLength цифр
func generateCode() (string, error) {
	limit := big.NewInt(1)
	for i := 0; i < validation.CodeLength; i++ {
		limit.Mul(limit, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", validation.CodeLength, n.Int64()), nil
}
