package session

import "strings"

const maxMaskStars = 12

// Mask keeps the first and last rune of inputs longer than four runes and
// stars the rest. The star count is capped so labels stay short.
func Mask(s string) string {
	r := []rune(s)
	n := len(r)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	stars := n - 2
	if stars > maxMaskStars {
		stars = maxMaskStars
	}
	return string(r[0]) + strings.Repeat("*", stars) + string(r[n-1])
}
