package password

import (
	"errors"
	"strings"

	"github.com/5w1tchy/strength-api/internal/strength"
)

const (
	MinLen   = 16
	MinScore = 60
)

var (
	ErrTooShort = errors.New("weak_key.length")
	ErrWeak     = errors.New("weak_key.score")
)

type Warning struct {
	Score       int      `json:"score"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions"`
}

// CheckKey trims an admin key and rejects it when it is shorter than MinLen or
// scores below MinScore. The returned Warning carries the analyzer's
// suggestions whenever the score is below 80.
func CheckKey(a *strength.Analyzer, key string) (trimmed string, warn *Warning, err error) {
	trimmed = strings.TrimSpace(key)
	if len([]rune(trimmed)) < MinLen {
		return trimmed, nil, ErrTooShort
	}
	res := a.Analyze(trimmed)
	if res.Score < 80 {
		warn = &Warning{Score: res.Score, Message: "Key could be stronger.", Suggestions: res.Suggestions}
	}
	if res.Score < MinScore {
		warn.Message = "Key is too predictable."
		return trimmed, warn, ErrWeak
	}
	return trimmed, warn, nil
}
