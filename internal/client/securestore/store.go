package securestore

import (
	"context"
	"fmt"

	"github.com/olyox/partner-cli/internal/client/storage"
	"github.com/olyox/partner-cli/internal/crypto"
)

// Store is the encryption layer between the session manager and raw storage.
// It seals the token with a device-local key before saving and opens it when
// retrieving; everything else in AuthData is stored as-is.
type Store struct {
	storage storage.AuthStorage
	key     []byte
}

// Compile-time check that Store satisfies the raw interface shape too
var _ storage.AuthStorage = (*Store)(nil)

// New creates a Store over the raw storage layer.
// key must be exactly crypto.KeySize bytes (the device key file contents).
func New(raw storage.AuthStorage, key []byte) (*Store, error) {
	if len(key) != crypto.KeySize {
		return nil, fmt.Errorf("device key must be %d bytes, got %d", crypto.KeySize, len(key))
	}
	return &Store{storage: raw, key: key}, nil
}

// SaveAuth seals the token and hands the record to raw storage
func (s *Store) SaveAuth(ctx context.Context, auth *storage.AuthData) error {
	if auth == nil {
		return fmt.Errorf("auth data is nil")
	}

	sealed, err := crypto.EncryptToBase64([]byte(auth.Token), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	// Copy so the caller's plaintext record is left untouched
	record := *auth
	record.Token = sealed

	return s.storage.SaveAuth(ctx, &record)
}

// GetAuth loads the record from raw storage and opens the token
func (s *Store) GetAuth(ctx context.Context) (*storage.AuthData, error) {
	stored, err := s.storage.GetAuth(ctx)
	if err != nil {
		return nil, err
	}

	plaintext, err := crypto.DecryptFromBase64(stored.Token, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt token: %w", err)
	}

	record := *stored
	record.Token = string(plaintext)

	return &record, nil
}

// DeleteAuth removes the stored record
func (s *Store) DeleteAuth(ctx context.Context) error {
	return s.storage.DeleteAuth(ctx)
}
