package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/loyalty/internal/models"
	"github.com/iudanet/loyalty/internal/server/storage"
)

const userColumns = `id, phone, full_name, card_number, birth_date, email, address, push_token, is_verified, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		user                                       models.User
		card, birthDate, email, address, pushToken sql.NullString
		createdAt, updatedAt                       int64
	)
	err := row.Scan(
		&user.ID,
		&user.Phone,
		&user.FullName,
		&card,
		&birthDate,
		&email,
		&address,
		&pushToken,
		&user.IsVerified,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.CardNumber = card.String
	user.BirthDate = stringPtr(birthDate)
	user.Email = stringPtr(email)
	user.Address = stringPtr(address)
	user.PushToken = stringPtr(pushToken)
	user.CreatedAt = fromMillis(createdAt)
	user.UpdatedAt = fromMillis(updatedAt)
	return &user, nil
}

// CreateUser creates a verified user and assigns EAN-13 card number derived from ID
func (s *Storage) CreateUser(ctx context.Context, phone string) (*models.User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := toMillis(s.now())
	res, err := tx.ExecContext(ctx, `
		INSERT INTO users (phone, is_verified, created_at, updated_at)
		VALUES (?, 1, ?, ?)
	`, phone, now, now)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, storage.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get user id: %w", err)
	}

	card, err := models.NewCardNumber(id)
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, `UPDATE users SET card_number = ? WHERE id = ?`, card, id); err != nil {
		return nil, fmt.Errorf("failed to set card number: %w", err)
	}

	user, err := scanUser(tx.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to read created user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return user, nil
}

// GetUserByPhone retrieves user by phone
func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE phone = ?`, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves user by ID
func (s *Storage) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile applies non-nil fields of upd
func (s *Storage) UpdateProfile(ctx context.Context, userID int64, upd models.ProfileUpdate) (*models.User, error) {
	sets := []string{"updated_at = ?"}
	args := []any{toMillis(s.now())}

	if upd.FullName != nil {
		sets = append(sets, "full_name = ?")
		args = append(args, *upd.FullName)
	}
	if upd.Email != nil {
		sets = append(sets, "email = ?")
		args = append(args, nullString(upd.Email))
	}
	if upd.BirthDate != nil {
		sets = append(sets, "birth_date = ?")
		args = append(args, nullString(upd.BirthDate))
	}
	if upd.Address != nil {
		sets = append(sets, "address = ?")
		args = append(args, nullString(upd.Address))
	}
	args = append(args, userID)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if err := s.execOne(ctx, storage.ErrUserNotFound, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return s.GetUserByID(ctx, userID)
}

// UpdatePushToken stores device push token
func (s *Storage) UpdatePushToken(ctx context.Context, userID int64, pushToken string) error {
	err := s.execOne(ctx, storage.ErrUserNotFound,
		`UPDATE users SET push_token = ?, updated_at = ? WHERE id = ?`,
		nullString(&pushToken), toMillis(s.now()), userID)
	if err != nil {
		return fmt.Errorf("failed to update push token: %w", err)
	}
	return nil
}

// execOne выполняет запрос и возвращает notFound, если не затронута ни одна строка
func (s *Storage) execOne(ctx context.Context, notFound error, query string, args ...any) error {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
