package jwtutil

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims identify an anonymous analysis session. Subject is the
// session ID.
type SessionClaims struct {
	Kind string `json:"knd"`
	jwt.RegisteredClaims
}

const kindSession = "session"

func NewSessionClaims(sessionID, jti string, now time.Time, ttl time.Duration) SessionClaims {
	return SessionClaims{
		Kind: kindSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sessionID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
}
