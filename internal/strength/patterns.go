package strength

import (
	"github.com/status-im/zxcvbn-go/match"
	"github.com/status-im/zxcvbn-go/matching"
)

// only inverts a zxcvbn filter so Omnimatch runs the one matcher it names.
func only(is func(match.Matcher) bool) func(match.Matcher) bool {
	return func(m match.Matcher) bool { return !is(m) }
}

// dropAll skips every built-in matcher, leaving the user-input dictionary.
func dropAll(match.Matcher) bool { return true }

var (
	repeatOnly   = only(matching.FilterRepeatMatcher)
	sequenceOnly = only(matching.FilterSequenceMatcher)
)

// runs reports sequential and repeated runs of at least n characters in a
// folded password. Repeats are case-insensitive.
func runs(folded string, n int) (sequential, repeated bool) {
	if n < 3 || folded == "" {
		return false, false
	}
	for _, m := range matching.Omnimatch(folded, nil, repeatOnly) {
		if m.Pattern == "repeat" && m.J-m.I+1 >= n {
			repeated = true
			break
		}
	}
	for _, seg := range seqSegments(folded, n) {
		if hasSequence(seg, n) {
			sequential = true
			break
		}
	}
	return sequential, repeated
}

func hasSequence(seg string, n int) bool {
	for _, m := range matching.Omnimatch(seg, nil, sequenceOnly) {
		if m.Pattern == "sequence" && m.J-m.I+1 >= n {
			return true
		}
	}
	return false
}

// seqSegments splits s into maximal runs of a-z or 0-9 at least n long.
// Letters and digits never share a segment.
func seqSegments(s string, n int) []string {
	var out []string
	start, fam := -1, 0
	flush := func(end int) {
		if start >= 0 && end-start >= n {
			out = append(out, s[start:end])
		}
		start, fam = -1, 0
	}
	for i := 0; i < len(s); i++ {
		f := seqFamily(s[i])
		if f == 0 || f != fam {
			flush(i)
		}
		if f != 0 && start < 0 {
			start, fam = i, f
		}
	}
	flush(len(s))
	return out
}

func seqFamily(c byte) int {
	switch {
	case c >= 'a' && c <= 'z':
		return 1
	case c >= '0' && c <= '9':
		return 2
	}
	return 0
}

// isSimpleCharset: only digits, or only lowercase letters.
func isSimpleCharset(b Breakdown) bool {
	total := b.Total()
	if total == 0 {
		return false
	}
	return b.Digit == total || b.Lowercase == total
}
