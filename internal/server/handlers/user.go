package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/storage"
	"github.com/iudanet/loyalty/internal/validation"
	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// maxAddressLen - максимальная длина адреса в символах
const maxAddressLen = 500

// UserHandler обрабатывает запросы профиля
type UserHandler struct {
	logger      *slog.Logger
	userStorage storage.UserStorage
	now         func() time.Time
}

// NewUserHandler создает новый handler профиля
func NewUserHandler(logger *slog.Logger, userStorage storage.UserStorage) *UserHandler {
	return &UserHandler{
		logger:      logger,
		userStorage: userStorage,
		now:         time.Now,
	}
}

// Profile обрабатывает GET /api/user/profile
func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userStorage.GetUserByID(ctx, userID)
	if err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	sendJSON(h.logger, w, pkgapi.ProfileResponse{Success: true, User: user.ToAPI()}, http.StatusOK)
}

// UpdateProfile обрабатывает PUT /api/user/profile.
// Отсутствующие поля не меняются, пустая строка очищает необязательное поле.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req pkgapi.UpdateProfileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	upd, err := h.profileUpdate(req)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid profile update", slog.Any("error", err))
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	user, err := h.userStorage.UpdateProfile(ctx, userID, upd)
	if err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "profile updated", slog.Int64("user_id", userID))
	sendJSON(h.logger, w, pkgapi.ProfileResponse{Success: true, User: user.ToAPI()}, http.StatusOK)
}

// UpdatePushToken обрабатывает PUT /api/user/push-token
func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := GetUserID(ctx)
	if !ok {
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req pkgapi.PushTokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(req.PushToken)
	if token == "" {
		sendError(h.logger, w, "push token is required", http.StatusBadRequest)
		return
	}

	if err := h.userStorage.UpdatePushToken(ctx, userID, token); err != nil {
		h.handleStorageError(w, r, err)
		return
	}

	sendJSON(h.logger, w, pkgapi.StatusResponse{Success: true, Message: "push token updated"}, http.StatusOK)
}

// profileUpdate нормализует и проверяет запрос изменения профиля
func (h *UserHandler) profileUpdate(req pkgapi.UpdateProfileRequest) (models.ProfileUpdate, error) {
	var (
		upd  models.ProfileUpdate
		errs []error
	)

	if req.FullName != nil {
		name := validation.NormalizeFullName(*req.FullName)
		if err := validation.ValidateFullName(name); err != nil {
			errs = append(errs, err)
		}
		upd.FullName = &name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" {
			if err := validation.ValidateEmail(email); err != nil {
				errs = append(errs, err)
			}
		}
		upd.Email = &email
	}
	if req.BirthDate != nil {
		date := strings.TrimSpace(*req.BirthDate)
		if date != "" {
			if err := validation.ValidateBirthDate(date, h.now()); err != nil {
				errs = append(errs, err)
			}
		}
		upd.BirthDate = &date
	}
	if req.Address != nil {
		address := strings.Join(strings.Fields(*req.Address), " ")
		if len([]rune(address)) > maxAddressLen {
			errs = append(errs, errors.New("address is too long"))
		}
		upd.Address = &address
	}

	if len(errs) > 0 {
		return upd, errors.Join(errs...)
	}
	if upd == (models.ProfileUpdate{}) {
		return upd, errors.New("nothing to update")
	}
	return upd, nil
}

func (h *UserHandler) handleStorageError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrUserNotFound) {
		sendError(h.logger, w, "user not found", http.StatusNotFound)
		return
	}
	h.logger.ErrorContext(r.Context(), "user storage error", slog.Any("error", err))
	sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
}
