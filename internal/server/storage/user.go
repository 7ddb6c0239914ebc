package storage

import (
	"context"

	"github.com/iudanet/loyalty/internal/models"
)

// UserStorage defines interface for user persistence
type UserStorage interface {
	// CreateUser creates a verified user for the phone and assigns a card number
	// Returns ErrUserAlreadyExists if phone is taken
	CreateUser(ctx context.Context, phone string) (*models.User, error)

	// GetUserByPhone retrieves user by phone
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)

	// GetUserByID retrieves user by ID
	// Returns ErrUserNotFound if user doesn't exist
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)

	// UpdateProfile applies non-nil fields of upd and returns the updated user
	// Returns ErrUserNotFound if user doesn't exist
	UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error)

	// UpdatePushToken stores device push token
	// Returns ErrUserNotFound if user doesn't exist
	UpdatePushToken(ctx context.Context, userID int64, pushToken string) error
}
