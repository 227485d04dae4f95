package strength

// Class is the character class a single rune falls into.
type Class int

const (
	Lowercase Class = iota
	Uppercase
	Digit
	Symbol
	Other
)

// Classes lists every class in checklist order.
var Classes = [...]Class{Lowercase, Uppercase, Digit, Symbol, Other}

func (c Class) String() string {
	switch c {
	case Lowercase:
		return "lowercase"
	case Uppercase:
		return "uppercase"
	case Digit:
		return "digit"
	case Symbol:
		return "symbol"
	default:
		return "other"
	}
}

// Breakdown counts runes per class. Fields always sum to the rune count.
type Breakdown struct {
	Lowercase int `json:"lowercase"`
	Uppercase int `json:"uppercase"`
	Digit     int `json:"digit"`
	Symbol    int `json:"symbol"`
	Other     int `json:"other"`
}

func (b Breakdown) Count(c Class) int {
	switch c {
	case Lowercase:
		return b.Lowercase
	case Uppercase:
		return b.Uppercase
	case Digit:
		return b.Digit
	case Symbol:
		return b.Symbol
	default:
		return b.Other
	}
}

func (b *Breakdown) add(c Class) {
	switch c {
	case Lowercase:
		b.Lowercase++
	case Uppercase:
		b.Uppercase++
	case Digit:
		b.Digit++
	case Symbol:
		b.Symbol++
	default:
		b.Other++
	}
}

// Total is the number of runes counted.
func (b Breakdown) Total() int {
	return b.Lowercase + b.Uppercase + b.Digit + b.Symbol + b.Other
}

// ClassCount is the number of distinct classes present.
func (b Breakdown) ClassCount() int {
	n := 0
	for _, c := range Classes {
		if b.Count(c) > 0 {
			n++
		}
	}
	return n
}

// Map returns the breakdown keyed by class name (for charting callers).
func (b Breakdown) Map() map[string]int {
	out := make(map[string]int, len(Classes))
	for _, c := range Classes {
		out[c.String()] = b.Count(c)
	}
	return out
}

// Pattern is a category of structurally weak input.
type Pattern string

const (
	PatternSequential    Pattern = "sequential"
	PatternRepeated      Pattern = "repeated"
	PatternDictionary    Pattern = "dictionary"
	PatternSimpleCharset Pattern = "simple_charset"
)

// patternOrder is the fixed order penalties are checked and reported in.
var patternOrder = [...]Pattern{PatternSequential, PatternRepeated, PatternDictionary, PatternSimpleCharset}

// Result is the full analysis of one password. It holds no reference to the
// password itself.
type Result struct {
	Score              int       `json:"score"`       // 0..100
	EntropyBits        float64   `json:"entropyBits"` // length * log2(alphabet)
	BruteForceTime     string    `json:"bruteForceTime"`
	Feedback           []string  `json:"feedback"`
	Suggestions        []string  `json:"suggestions"`
	CharacterBreakdown Breakdown `json:"characterBreakdown"`

	Length       int       `json:"length"`
	AlphabetSize int       `json:"alphabetSize"`
	ClassCount   int       `json:"classCount"`
	Patterns     []Pattern `json:"patterns"`
	ExactMatch   bool      `json:"exactDictionaryMatch,omitempty"`
}

// Has reports whether pattern p was detected.
func (r Result) Has(p Pattern) bool {
	for _, got := range r.Patterns {
		if got == p {
			return true
		}
	}
	return false
}
