package strength

import "math"

// charset resolves runes to classes and sizes the alphabet.
type charset struct {
	symbols   map[rune]struct{}
	otherPool int
}

func newCharset(symbols string, otherPool int) charset {
	set := make(map[rune]struct{}, len(symbols))
	for _, r := range symbols {
		// letters and digits keep their own class even if listed
		if isASCIILetterOrDigit(r) {
			continue
		}
		set[r] = struct{}{}
	}
	return charset{symbols: set, otherPool: otherPool}
}

func isASCIILetterOrDigit(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func (cs charset) classify(r rune) Class {
	switch {
	case r >= 'a' && r <= 'z':
		return Lowercase
	case r >= 'A' && r <= 'Z':
		return Uppercase
	case r >= '0' && r <= '9':
		return Digit
	}
	if _, ok := cs.symbols[r]; ok {
		return Symbol
	}
	return Other
}

func (cs charset) breakdown(runes []rune) Breakdown {
	var b Breakdown
	for _, r := range runes {
		b.add(cs.classify(r))
	}
	return b
}

func (cs charset) pool(c Class) int {
	switch c {
	case Lowercase, Uppercase:
		return 26
	case Digit:
		return 10
	case Symbol:
		return len(cs.symbols)
	default:
		return cs.otherPool
	}
}

// alphabetSize sums the pools of the classes present, minimum 1.
func (cs charset) alphabetSize(b Breakdown) int {
	size := 0
	for _, c := range Classes {
		if b.Count(c) > 0 {
			size += cs.pool(c)
		}
	}
	if size < 1 {
		size = 1
	}
	return size
}

// entropyBits is length * log2(alphabet): the uniform-selection upper bound.
func entropyBits(length, alphabet int) float64 {
	if length == 0 || alphabet <= 1 {
		return 0
	}
	return float64(length) * math.Log2(float64(alphabet))
}
