// Package fingerprint derives stable, non-reversible identifiers for
// passwords so history can be de-duplicated without storing them.
package fingerprint

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
)

const MinPepperLen = 16

var ErrShortPepper = errors.New("fingerprint: pepper must be at least 16 bytes")

type Keyed struct {
	pepper []byte
}

func New(pepper []byte) (*Keyed, error) {
	if len(pepper) < MinPepperLen {
		return nil, ErrShortPepper
	}
	return &Keyed{pepper: append([]byte(nil), pepper...)}, nil
}

// FromEnv uses HISTORY_PEPPER, falling back to AUTH_JWT_SECRET.
func FromEnv() (*Keyed, error) {
	p := os.Getenv("HISTORY_PEPPER")
	if p == "" {
		p = os.Getenv("AUTH_JWT_SECRET")
	}
	return New([]byte(p))
}

// Sum is HMAC-SHA256(pepper, scope || 0x00 || secret), hex encoded. Scoping by
// session keeps equal passwords unlinkable across sessions.
func (k *Keyed) Sum(scope, secret string) string {
	m := hmac.New(sha256.New, k.pepper)
	m.Write([]byte(scope))
	m.Write([]byte{0})
	m.Write([]byte(secret))
	return hex.EncodeToString(m.Sum(nil))
}
