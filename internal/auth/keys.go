// Package auth issues and verifies the PASETO tokens returned by the login
// mutation, and carries the authenticated principal through request contexts.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PASETO v4.local requires a 256-bit symmetric key, stored hex-encoded.
const (
	keyLength    = 32
	keyHexLength = 64
	keyFileName  = "auth.key"
)

// LoadOrGenerateKey returns the token signing key, reading it from
// <dataPath>/auth.key or generating and persisting a fresh one on first
// start. Tokens survive restarts because the key does.
func LoadOrGenerateKey(dataPath string) ([]byte, error) {
	keyPath := filepath.Join(dataPath, keyFileName)

	//#nosec G304 -- key path is derived from the validated data path
	raw, err := os.ReadFile(keyPath)
	if err == nil {
		return decodeKey(strings.TrimSpace(string(raw)))
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate auth key: %w", err)
	}

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("save auth key: %w", err)
	}

	return key, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	if len(keyHex) != keyHexLength {
		return nil, fmt.Errorf("invalid auth key length: expected %d hex chars, got %d", keyHexLength, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid auth key: not valid hex: %w", err)
	}
	return key, nil
}
