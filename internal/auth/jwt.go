// Package auth issues and checks the session tokens handed out on login.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the token lifetime used when none is configured.
const DefaultTTL = 24 * time.Hour

var ErrInvalidToken = errors.New("invalid token")

// Claims carries the subject (user id) in a payload claim next to the
// registered claims.
type Claims struct {
	Payload string `json:"payload"`
	jwt.RegisteredClaims
}

// GenerateJWT signs an HS256 token for payload that expires after ttl.
func GenerateJWT(payload, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("auth: empty secret")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	claims := Claims{
		Payload: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return s, nil
}

// ParseJWT validates token and returns its payload. Only HS256 tokens
// signed with secret and not yet expired are accepted.
func ParseJWT(token, secret string) (string, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims.Payload, nil
}

// IsTokenValid reports whether token passes ParseJWT.
func IsTokenValid(token, secret string) (bool, error) {
	if _, err := ParseJWT(token, secret); err != nil {
		return false, err
	}
	return true, nil
}
