package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenExpiry reads the exp claim of a JWT credential without verifying its
// signature; the backend stays the authority. ok is false for opaque tokens
// or tokens without exp.
func TokenExpiry(token string) (exp time.Time, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// TokenExpiry returns the expiry of the attached credential, if it carries one.
func (s *Store) TokenExpiry() (time.Time, bool) {
	return TokenExpiry(s.Credential())
}
