package jwtutil

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Issuer struct {
	cfg Config
	now func() time.Time
}

func NewIssuer(cfg Config) *Issuer {
	return &Issuer{cfg: cfg, now: time.Now}
}

func (i *Issuer) TTL() time.Duration { return i.cfg.SessionTTL }

// SignSession returns the HS256 token and its expiry.
func (i *Issuer) SignSession(sessionID string) (string, time.Time, error) {
	jti, err := randJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := i.now()
	claims := NewSessionClaims(sessionID, jti, now, i.cfg.SessionTTL)
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.cfg.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return s, claims.ExpiresAt.Time, nil
}

// ParseSession verifies signature, expiry (with leeway) and kind.
func (i *Issuer) ParseSession(tokenStr string) (*SessionClaims, error) {
	parser := jwt.NewParser(
		jwt.WithLeeway(i.cfg.ClockSkew),
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(i.now),
	)
	token, err := parser.ParseWithClaims(tokenStr, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		return i.cfg.Secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.Kind != kindSession || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func randJTI() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
