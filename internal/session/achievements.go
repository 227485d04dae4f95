package session

import (
	"slices"

	"github.com/5w1tchy/strength-api/internal/strength"
)

const (
	PerfectScore = "Perfect Score"
	HighEntropy  = "High Entropy"
	Unbreakable  = "Unbreakable"
)

// HighEntropyBits is the strict lower bound for HighEntropy.
const HighEntropyBits = 100.0

var achievementOrder = []string{PerfectScore, HighEntropy, Unbreakable}

// Evaluate returns the achievements r earns that are not already unlocked,
// in canonical order.
func Evaluate(already []string, r strength.Result) []string {
	earned := map[string]bool{
		PerfectScore: r.Score == 100,
		HighEntropy:  r.EntropyBits > HighEntropyBits,
		Unbreakable:  r.BruteForceTime == strength.BucketCenturies,
	}
	var out []string
	for _, name := range achievementOrder {
		if earned[name] && !slices.Contains(already, name) {
			out = append(out, name)
		}
	}
	return out
}

// SortAchievements orders names canonically and drops unknown or repeated ones.
func SortAchievements(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range achievementOrder {
		if slices.Contains(names, name) {
			out = append(out, name)
		}
	}
	return out
}
