package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	raw, err := NewAccessToken(secret, 42, RoleStaff, time.Hour)
	require.NoError(t, err)

	claims, err := ParseAccessToken(secret, raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.True(t, claims.IsStaff())
}

func TestParseAccessTokenRejects(t *testing.T) {
	expired, err := NewAccessToken(secret, 1, RoleCustomer, -time.Minute)
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	good, err := NewAccessToken(secret, 1, RoleCustomer, time.Hour)
	require.NoError(t, err)
	_, err = ParseAccessToken("other-secret", good)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": RoleStaff}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, noSub)
	assert.ErrorIs(t, err, ErrInvalidSubject)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{"sub": "1"}).SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseAccessToken(secret, hs512)
	assert.Error(t, err)
}

func TestIsStaff(t *testing.T) {
	assert.True(t, Claims{Role: "admin"}.IsStaff())
	assert.True(t, Claims{Role: RoleStaff}.IsStaff())
	assert.False(t, Claims{Role: RoleCustomer}.IsStaff())
	assert.False(t, Claims{}.IsStaff())
}
