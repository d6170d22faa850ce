package utils // package utils holds access-token helpers shared by middleware and tooling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles carried in the "role" claim.  STAFF and ADMIN may edit the
// catalog.
const (
	RoleCustomer = "CUSTOMER"
	RoleStaff    = "STAFF"
	RoleAdmin    = "ADMIN"
)

// Claims are the access-token claims this service understands: the user id
// in "sub" and a role.
type Claims struct {
	Role   string `json:"role"`
	UserID uint64 `json:"-"`
	jwt.RegisteredClaims
}

// IsStaff reports whether the role grants catalog write access.
func (c Claims) IsStaff() bool {
	switch strings.ToUpper(c.Role) {
	case RoleStaff, RoleAdmin:
		return true
	}
	return false
}

var ErrInvalidSubject = errors.New("token subject is not a user id")

// ParseAccessToken verifies an HS256 token signed with secret and returns
// its claims.  Expiry is enforced when the token carries "exp".
func ParseAccessToken(secret, raw string) (Claims, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Claims{}, err
	}
	if !tok.Valid {
		return Claims{}, jwt.ErrTokenInvalidClaims
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return Claims{}, ErrInvalidSubject
	}
	claims.UserID = id
	return claims, nil
}

// NewAccessToken signs an HS256 token for a user.  The service never
// issues tokens over HTTP; cmd/seed and tests use this to mint them.
func NewAccessToken(secret string, userID uint64, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
