// Package passphrase hands out example passphrases and builds random ones
// from an embedded word pool.
package passphrase

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"fmt"
	"math/big"
	"strings"
)

const (
	MinWords     = 3
	MaxWords     = 12
	DefaultWords = 4
)

var samples = []string{
	"correct horse battery staple",
	"uncommon words strung together",
	"four random common words",
	"unique phrase you remember",
	"long sentence as passphrase",
}

//go:embed words.txt
var wordsFile string

var pool = loadPool(wordsFile)

func loadPool(src string) []string {
	var out []string
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		if w := strings.TrimSpace(sc.Text()); w != "" && !strings.HasPrefix(w, "#") {
			out = append(out, w)
		}
	}
	return out
}

// Samples returns a copy of the fixed example list.
func Samples() []string { return append([]string(nil), samples...) }

// PoolSize is the number of words Generate draws from.
func PoolSize() int { return len(pool) }

// Sample picks one example passphrase uniformly.
func Sample() (string, error) {
	i, err := randIndex(len(samples))
	if err != nil {
		return "", err
	}
	return samples[i], nil
}

// ClampWords bounds n to [MinWords, MaxWords].
func ClampWords(n int) int {
	return min(max(n, MinWords), MaxWords)
}

// Generate joins n words drawn uniformly (with replacement) from the pool.
// n is clamped with ClampWords.
func Generate(n int) (string, error) {
	n = ClampWords(n)
	words := make([]string, n)
	for i := range words {
		j, err := randIndex(len(pool))
		if err != nil {
			return "", err
		}
		words[i] = pool[j]
	}
	return strings.Join(words, " "), nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("passphrase: random: %w", err)
	}
	return int(v.Int64()), nil
}
