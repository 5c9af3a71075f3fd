package crypto

import (
	"crypto/rand"
	"fmt"
	"os"
)

// GenerateKey returns a new random encryption key
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// LoadOrCreateKeyFile reads the device key from path, creating it with a fresh
// random key (mode 0600) on first use. The key never leaves the device; it only
// protects the locally stored session token.
func LoadOrCreateKeyFile(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != KeySize {
			return nil, fmt.Errorf("device key file %s is corrupt: expected %d bytes, got %d", path, KeySize, len(key))
		}
		return key, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read device key file: %w", err)
	}

	key, err = GenerateKey()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write device key file: %w", err)
	}
	return key, nil
}
