package storage

import (
	"context"
)

// AuthStorage defines the raw persistence layer for the session credentials.
// It stores data as-is (the token arrives already encrypted) and performs no
// crypto itself. Callers must treat read failures as "no token" rather than
// crash: a broken local store never blocks app startup.
type AuthStorage interface {
	// SaveAuth stores session data as-is (token should already be encrypted)
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves stored session data as-is.
	// Returns ErrAuthNotFound if nothing is stored.
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes stored session data (logout)
	DeleteAuth(ctx context.Context) error
}

// AuthData is the single durable record this client keeps.
// The Token field is plaintext in memory and ciphertext (base64) at rest;
// the securestore layer converts between the two.
type AuthData struct {
	Token   string `json:"token"`
	BhID    string `json:"bh_id"`
	NodeID  string `json:"node_id"`
	SavedAt int64  `json:"saved_at"` // unix seconds
}
