package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expired reports whether token is a JWT whose expiry has passed at now.
// The signature is not checked; the server remains the authority. Tokens
// that are not JWTs, or carry no expiry, are never reported expired.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	if !ok {
		return false
	}
	return !now.Before(exp)
}

// ExpiresAt returns the expiry encoded in a JWT's "exp" claim, or in the
// legacy "expires" claim some backends issue.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		return exp.Time, true
	}
	if v, ok := claims["expires"].(float64); ok {
		return time.Unix(int64(v), 0), true
	}
	return time.Time{}, false
}
