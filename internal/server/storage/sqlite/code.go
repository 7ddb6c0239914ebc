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

// SaveCode stores a code for the phone replacing the previous one
func (s *Storage) SaveCode(ctx context.Context, code *models.AuthCode) error {
	query := `
		INSERT INTO auth_codes (phone, code_hash, attempts, expires_at, created_at)
		VALUES (?, ?, 0, ?, ?)
		ON CONFLICT (phone) DO UPDATE SET
			code_hash = excluded.code_hash,
			attempts = 0,
			expires_at = excluded.expires_at,
			created_at = excluded.created_at
	`

	_, err := s.db.ExecContext(ctx, query,
		code.Phone,
		code.CodeHash,
		toMillis(code.ExpiresAt),
		toMillis(code.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save auth code: %w", err)
	}
	return nil
}

// GetCode retrieves pending code by phone
func (s *Storage) GetCode(ctx context.Context, phone string) (*models.AuthCode, error) {
	query := `
		SELECT phone, code_hash, attempts, expires_at, created_at
		FROM auth_codes
		WHERE phone = ?
	`

	var (
		code                 models.AuthCode
		expiresAt, createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, phone).Scan(
		&code.Phone,
		&code.CodeHash,
		&code.Attempts,
		&expiresAt,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCodeNotFound
		}
		return nil, fmt.Errorf("failed to get auth code: %w", err)
	}

	code.ExpiresAt = fromMillis(expiresAt)
	code.CreatedAt = fromMillis(createdAt)
	return &code, nil
}

// ClaimAttempt atomically spends one verification attempt and returns the
// number of attempts used so far. Returns ErrCodeAttemptsExhausted when
// maxAttempts are already spent.
func (s *Storage) ClaimAttempt(ctx context.Context, phone string, maxAttempts int) (int, error) {
	var attempts int
	err := s.db.QueryRowContext(ctx,
		`UPDATE auth_codes SET attempts = attempts + 1
		WHERE phone = ? AND attempts < ?
		RETURNING attempts`,
		phone, maxAttempts,
	).Scan(&attempts)
	if err == nil {
		return attempts, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to claim attempt: %w", err)
	}

	// Строка не обновлена: кода нет или попытки исчерпаны
	var exists int
	err = s.db.QueryRowContext(ctx, `SELECT 1 FROM auth_codes WHERE phone = ?`, phone).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, storage.ErrCodeNotFound
		}
		return 0, fmt.Errorf("failed to check auth code: %w", err)
	}
	return 0, storage.ErrCodeAttemptsExhausted
}

// DeleteCode removes code for the phone
func (s *Storage) DeleteCode(ctx context.Context, phone string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM auth_codes WHERE phone = ?`, phone); err != nil {
		return fmt.Errorf("failed to delete auth code: %w", err)
	}
	return nil
}

// DeleteExpiredCodes removes codes expired before now
func (s *Storage) DeleteExpiredCodes(ctx context.Context, now time.Time) (int, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM auth_codes WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired codes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}
