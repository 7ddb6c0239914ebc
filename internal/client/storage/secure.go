package storage

import (
	"context"
)

//go:generate moq -out securestorage_mock.go . SecureStorage

// SecureStorage defines the persistent key-value store used on the device.
// Values are stored as-is: callers that need confidentiality encrypt before Set.
type SecureStorage interface {
	// Get returns the value stored under key.
	// Returns ErrKeyNotFound if nothing is stored under key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key, replacing any previous value
	Set(ctx context.Context, key, value string) error

	// SetMany stores all items in a single transaction: either every value
	// is written or none is.
	SetMany(ctx context.Context, items map[string]string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
