package storage

import "errors"

// Common client storage errors
var (
	// ErrKeyNotFound indicates that nothing is stored under the requested key
	ErrKeyNotFound = errors.New("key not found")

	// ErrStorage wraps any read/write/delete failure of the secure store
	ErrStorage = errors.New("secure storage failure")

	// ErrStorageClosed indicates that storage is closed; always wrapped together with ErrStorage
	ErrStorageClosed = errors.New("storage is closed")
)
