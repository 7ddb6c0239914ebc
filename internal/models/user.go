package models

import (
	"time"

	pkgapi "github.com/iudanet/loyalty/pkg/api"
)

// User представляет участника программы лояльности
type User struct {
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	BirthDate  *string   `json:"birth_date"` // YYYY-MM-DD
	Email      *string   `json:"email"`
	Address    *string   `json:"address"`
	PushToken  *string   `json:"push_token"`
	Phone      string    `json:"phone"` // E.164
	FullName   string    `json:"full_name"`
	CardNumber string    `json:"card_number"` // EAN-13
	ID         int64     `json:"id"`
	IsVerified bool      `json:"is_verified"`
}

// IsRegistered возвращает true, если пользователь завершил регистрацию
func (u *User) IsRegistered() bool {
	return u.FullName != ""
}

// ToAPI конвертирует пользователя в DTO ответа
func (u *User) ToAPI() pkgapi.User {
	return pkgapi.User{
		ID:         u.ID,
		Phone:      u.Phone,
		FullName:   u.FullName,
		CardNumber: u.CardNumber,
		BirthDate:  u.BirthDate,
		Email:      u.Email,
		Address:    u.Address,
		IsVerified: u.IsVerified,
	}
}

// ProfileUpdate содержит изменяемые поля профиля.
// nil - поле не меняется, пустая строка очищает необязательное поле.
type ProfileUpdate struct {
	FullName  *string
	Email     *string
	BirthDate *string
	Address   *string
}

// AuthCode представляет одноразовый код подтверждения телефона
type AuthCode struct {
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Phone     string    `json:"phone"`
	CodeHash  string    `json:"code_hash"` // argon2id, см. crypto.HashCode
	Attempts  int       `json:"attempts"`  // число неверных попыток
}

// Expired возвращает true, если код истек к моменту now
func (c *AuthCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// RefreshToken представляет refresh token пользователя
type RefreshToken struct {
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	TokenHash string    `json:"token_hash"` // SHA-256 хеш токена
	UserID    int64     `json:"user_id"`
}
