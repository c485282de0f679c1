package auth

import (
	"encoding/hex"
	"encoding/json/v2"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
	"github.com/shelfgraph/shelfgraph-server/internal/errors"
)

const (
	tokenIssuer   = "shelfgraph-server"
	tokenAudience = "shelfgraph-client"

	// PASETO v4 symmetric key requirements.
	keyBytesSize = 32 // 256 bits
	keyHexSize   = 64 // 32 bytes as hex string
)

// TokenService issues and verifies PASETO v4.local tokens carrying a
// principal's minimal identity claims. Tokens always carry an expiry;
// verification failure is reported as an invalid-credentials error that
// callers fold into an anonymous context rather than a fault.
type TokenService struct {
	symmetricKey paseto.V4SymmetricKey
	duration     time.Duration
}

// NewTokenService creates a token service from a hex-encoded 256-bit key.
func NewTokenService(keyHex string, duration time.Duration) (*TokenService, error) {
	if len(keyHex) != keyHexSize {
		return nil, fmt.Errorf("PASETO v4 key must be exactly %d hex characters (%d bytes), got %d", keyHexSize, keyBytesSize, len(keyHex))
	}

	keyBytes, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string for PASETO key: %w", err)
	}

	key, err := paseto.V4SymmetricKeyFromBytes(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to create PASETO symmetric key: %w", err)
	}

	return &TokenService{
		symmetricKey: key,
		duration:     duration,
	}, nil
}

// Issue creates a new encrypted access token for the user.
func (s *TokenService) Issue(user *domain.User) (string, error) {
	now := time.Now()

	token := paseto.NewToken()

	token.SetIssuer(tokenIssuer)
	token.SetSubject(user.ID)
	token.SetAudience(tokenAudience)
	token.SetIssuedAt(now)
	token.SetNotBefore(now)
	token.SetExpiration(now.Add(s.duration))

	// The principal's identity claims
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("username", user.Username)
	//nolint:errcheck // Token.Set only errors on invalid types, which we control
	_ = token.Set("id", user.ID)

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// Verify parses and validates an access token.
// Returns the claims if valid, or an invalid-credentials error for anything
// malformed, forged, or expired. Never panics; callers decide whether the
// failure means "anonymous" or an explicit authentication error.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	parser := paseto.NewParser()

	parser.AddRule(paseto.ForAudience(tokenAudience))
	parser.AddRule(paseto.IssuedBy(tokenIssuer))
	parser.AddRule(paseto.NotExpired())
	parser.AddRule(paseto.ValidAt(time.Now()))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenString, nil)
	if err != nil {
		return nil, errors.InvalidCredentials("invalid token").WithCause(err)
	}

	var claims Claims
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil, errors.InvalidCredentials("malformed token claims").WithCause(err)
	}

	return &claims, nil
}

// Duration returns the configured token lifetime.
func (s *TokenService) Duration() time.Duration {
	return s.duration
}
