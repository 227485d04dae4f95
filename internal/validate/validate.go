package validate

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrInvalid = errors.New("invalid")
	ErrTooLong = errors.New("too long")
)

// Bits parses a non-negative, finite entropy value.
func Bits(raw string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, ErrInvalid
	}
	return f, nil
}

// Words parses an optional word count. ok is false when raw is empty.
func Words(raw string) (n int, ok bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	n, err = strconv.Atoi(raw)
	if err != nil {
		return 0, true, ErrInvalid
	}
	return n, true, nil
}

// MaxRunes rejects s when it holds more than max runes. max <= 0 disables
// the check. Passwords are never trimmed: whitespace counts.
func MaxRunes(s string, max int) error {
	if max > 0 && utf8.RuneCountInString(s) > max {
		return ErrTooLong
	}
	return nil
}

// PositiveInt parses raw, falling back to def when empty or not positive.
func PositiveInt(raw string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && v > 0 {
		return v
	}
	return def
}
