package auth

import "time"

// Claims represents the claims stored in a PASETO access token: the
// principal's minimal identity (username + user ID) plus the standard
// validity claims. Encrypted in v4.local tokens, so not readable without
// the key.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"id"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
}
