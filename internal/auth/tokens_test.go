package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfgraph/shelfgraph-server/internal/domain"
	domainerrors "github.com/shelfgraph/shelfgraph-server/internal/errors"
)

const testKeyHex = "707172737475767778797a7b7c7d7e7f808182838485868788898a8b8c8d8e8f"

func testUser() *domain.User {
	u := &domain.User{Username: "mluukkai", FavoriteGenre: "refactoring"}
	u.ID = "user_abc123"
	u.InitTimestamps()
	return u
}

func TestNewTokenService_InvalidKey(t *testing.T) {
	_, err := NewTokenService("deadbeef", 12*time.Hour)
	assert.Error(t, err)

	_, err = NewTokenService(strings.Repeat("zz", 32), 12*time.Hour)
	assert.Error(t, err)
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, 12*time.Hour)
	require.NoError(t, err)

	user := testUser()
	tokenString, err := svc.Issue(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(tokenString, "v4.local."))

	claims, err := svc.Verify(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "mluukkai", claims.Username)
	assert.Equal(t, "user_abc123", claims.UserID)
	assert.WithinDuration(t, time.Now().Add(12*time.Hour), claims.Expiration, time.Minute)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, -time.Minute)
	require.NoError(t, err)

	tokenString, err := svc.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestVerifyGarbageToken(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, 12*time.Hour)
	require.NoError(t, err)

	_, err = svc.Verify("v4.local.not-a-real-token")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestVerifyTokenFromDifferentKey(t *testing.T) {
	svc, err := NewTokenService(testKeyHex, 12*time.Hour)
	require.NoError(t, err)

	otherKey := "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
	other, err := NewTokenService(otherKey, 12*time.Hour)
	require.NoError(t, err)

	tokenString, err := other.Issue(testUser())
	require.NoError(t, err)

	_, err = svc.Verify(tokenString)
	assert.Error(t, err)
}
