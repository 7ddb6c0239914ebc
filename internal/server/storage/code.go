package storage

import (
	"context"
	"time"

	"github.com/iudanet/loyalty/internal/models"
)

// CodeStorage defines interface for one-time code persistence
type CodeStorage interface {
	// SaveCode stores a code for the phone replacing the previous one
	// and resetting the attempts counter
	SaveCode(ctx context.Context, code *models.AuthCode) error

	// GetCode retrieves pending code by phone
	// Returns ErrCodeNotFound if there is no code
	GetCode(ctx context.Context, phone string) (*models.AuthCode, error)

	// ClaimAttempt atomically spends one attempt if fewer than maxAttempts
	// were spent and returns the new counter value.
	// Returns ErrCodeNotFound if there is no code and
	// ErrCodeAttemptsExhausted if the limit is reached
	ClaimAttempt(ctx context.Context, phone string, maxAttempts int) (int, error)

	// DeleteCode removes code for the phone; missing code is not an error
	DeleteCode(ctx context.Context, phone string) error

	// DeleteExpiredCodes removes codes expired before now
	// Returns number of deleted codes
	DeleteExpiredCodes(ctx context.Context, now time.Time) (int, error)
}
