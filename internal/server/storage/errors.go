package storage

import "errors"

// Common storage errors
var (
	// ErrUserNotFound indicates that user was not found in storage
	ErrUserNotFound = errors.New("user not found")

	// ErrUserAlreadyExists indicates that user with this phone already exists
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrCodeNotFound indicates that there is no pending code for the phone
	ErrCodeNotFound = errors.New("auth code not found")

	// ErrCodeAttemptsExhausted indicates that all verification attempts for the code are spent
	ErrCodeAttemptsExhausted = errors.New("auth code attempts exhausted")

	// ErrTokenNotFound indicates that refresh token was not found
	ErrTokenNotFound = errors.New("refresh token not found")

	// ErrNotificationNotFound indicates that notification was not found for the user
	ErrNotificationNotFound = errors.New("notification not found")
)
