package boltdb

import (
	"context"
	"errors"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/loyalty/internal/client/storage"
)

// Compile-time check that Storage implements SecureStorage
var _ storage.SecureStorage = (*Storage)(nil)

var errBucketNotFound = errors.New("secure bucket not found")

// Get returns the value stored under key
func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return "", errClosed()
	}

	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSecure)
		if bucket == nil {
			return errBucketNotFound
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrKeyNotFound
		}

		// Копируем: data валиден только внутри транзакции
		value = string(data)
		return nil
	})
	if err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return "", err
		}
		return "", fmt.Errorf("%w: get %q: %w", storage.ErrStorage, key, err)
	}

	return value, nil
}

// Set stores value under key
func (s *Storage) Set(ctx context.Context, key, value string) error {
	return s.SetMany(ctx, map[string]string{key: value})
}

// SetMany stores all items in one transaction
func (s *Storage) SetMany(ctx context.Context, items map[string]string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return errClosed()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSecure)
		if bucket == nil {
			return errBucketNotFound
		}

		for key, value := range items {
			if err := bucket.Put([]byte(key), []byte(value)); err != nil {
				return fmt.Errorf("put %q: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %w", storage.ErrStorage, err)
	}

	return nil
}

// Delete removes key; a missing key is not an error
func (s *Storage) Delete(ctx context.Context, key string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil {
		return errClosed()
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSecure)
		if bucket == nil {
			return errBucketNotFound
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: delete %q: %w", storage.ErrStorage, key, err)
	}

	return nil
}
