package strength

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	BucketInstant   = "instantly"
	BucketCenturies = "centuries"

	secondsPerMinute = 60.0
	secondsPerHour   = 3600.0
	secondsPerDay    = 86400.0
	secondsPerYear   = 365.25 * secondsPerDay
)

// FormatCrackTime runs the default analyzer's formatter.
func FormatCrackTime(bits float64) string { return std.FormatCrackTime(bits) }

// CrackSeconds is the expected time to search half of a 2^bits keyspace at
// GuessesPerSecond, computed in log2 space. ok is false once the value would
// exceed the centuries threshold (or overflow float64).
func (a *Analyzer) CrackSeconds(bits float64) (seconds float64, ok bool) {
	if math.IsNaN(bits) || bits < 0 {
		bits = 0
	}
	log2s := bits - 1 - math.Log2(a.params.GuessesPerSecond)
	if log2s >= math.Log2(a.params.CenturyYears*secondsPerYear) {
		return 0, false
	}
	return math.Exp2(log2s), true
}

// FormatCrackTime buckets the brute-force time for an entropy estimate into
// "instantly", seconds, minutes, hours, days, years or "centuries".
func (a *Analyzer) FormatCrackTime(bits float64) string {
	s, ok := a.CrackSeconds(bits)
	if !ok {
		return BucketCenturies
	}
	switch {
	case s < 1:
		return BucketInstant
	case s < secondsPerMinute:
		return plural(s, "second")
	case s < secondsPerHour:
		return plural(s/secondsPerMinute, "minute")
	case s < secondsPerDay:
		return plural(s/secondsPerHour, "hour")
	case s < secondsPerYear:
		return plural(s/secondsPerDay, "day")
	default:
		return plural(s/secondsPerYear, "year")
	}
}

func plural(v float64, unit string) string {
	n := int64(math.Floor(v))
	if n < 1 {
		n = 1
	}
	// message.Printer keeps digit grouping stable ("1,000 years")
	p := message.NewPrinter(language.English)
	if n == 1 {
		return p.Sprintf("%d %s", n, unit)
	}
	return p.Sprintf("%d %ss", n, unit)
}
