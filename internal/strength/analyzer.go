// Package strength scores passwords and passphrases.
//
// The model is deliberately simple and reproducible: entropy is the
// uniform-selection bound length*log2(alphabet) over the character classes
// present, and structural weaknesses (runs, dictionary words, single-class
// input) are charged as fixed score penalties rather than folded into the
// entropy figure. Every exported function is pure; an *Analyzer is immutable
// and safe for concurrent use.
package strength

import (
	"fmt"
	"math"
)

type Analyzer struct {
	params Params
	cs     charset
	dict   *Dictionary
}

type Option func(*Analyzer)

// WithParams replaces the default tunables.
func WithParams(p Params) Option {
	return func(a *Analyzer) { a.params = p }
}

// WithDictionary replaces the embedded wordlist. A nil dictionary disables
// dictionary checks.
func WithDictionary(d *Dictionary) Option {
	return func(a *Analyzer) { a.dict = d }
}

func New(opts ...Option) (*Analyzer, error) {
	a := &Analyzer{params: DefaultParams(), dict: DefaultDictionary()}
	for _, o := range opts {
		o(a)
	}
	if err := a.params.Validate(); err != nil {
		return nil, err
	}
	a.cs = newCharset(a.params.Symbols, a.params.OtherPool)
	return a, nil
}

var std = mustNew()

func mustNew(opts ...Option) *Analyzer {
	a, err := New(opts...)
	if err != nil {
		panic(fmt.Sprintf("strength: default analyzer: %v", err))
	}
	return a
}

// Default returns the analyzer built from DefaultParams and the embedded
// wordlist.
func Default() *Analyzer { return std }

// Analyze runs the default analyzer.
func Analyze(password string) Result { return std.Analyze(password) }

func (a *Analyzer) Params() Params          { return a.params }
func (a *Analyzer) Dictionary() *Dictionary { return a.dict }

// Analyze never fails; any string, including empty or non-UTF-8 text, yields a
// valid Result.
func (a *Analyzer) Analyze(password string) Result {
	runes := []rune(password)
	b := a.cs.breakdown(runes)
	alphabet := a.cs.alphabetSize(b)
	bits := entropyBits(len(runes), alphabet)

	patterns, exact := a.detect(fold(password), len(runes), b)

	res := Result{
		EntropyBits:        bits,
		BruteForceTime:     a.FormatCrackTime(bits),
		CharacterBreakdown: b,
		Length:             len(runes),
		AlphabetSize:       alphabet,
		ClassCount:         b.ClassCount(),
		Patterns:           patterns,
		ExactMatch:         exact,
	}
	if len(runes) == 0 {
		res.AlphabetSize = 0
	}
	res.Score = a.score(bits, res.ClassCount, res.Length, a.penalty(patterns), exact)
	res.Feedback, res.Suggestions = a.checklist(res)
	return res
}

// detect returns fired pattern categories in fixed order, each at most once.
func (a *Analyzer) detect(folded string, length int, b Breakdown) ([]Pattern, bool) {
	out := make([]Pattern, 0, len(patternOrder))
	seq, rep := runs(folded, a.params.RunLength)
	var exact bool
	for _, p := range patternOrder {
		var hit bool
		switch p {
		case PatternSequential:
			hit = seq
		case PatternRepeated:
			hit = rep
		case PatternDictionary:
			hit, exact = a.dict.match(folded)
		case PatternSimpleCharset:
			hit = isSimpleCharset(b) && length < a.params.SimpleCharsetMinLength
		}
		if hit {
			out = append(out, p)
		}
	}
	return out, exact
}

func (a *Analyzer) penalty(patterns []Pattern) int {
	total := 0
	for _, p := range patterns {
		switch p {
		case PatternSequential:
			total += a.params.SequentialPenalty
		case PatternRepeated:
			total += a.params.RepeatedPenalty
		case PatternDictionary:
			total += a.params.DictionaryPenalty
		case PatternSimpleCharset:
			total += a.params.SimpleCharsetPenalty
		}
	}
	if total > a.params.MaxPenalty {
		total = a.params.MaxPenalty
	}
	return total
}

// base maps entropy onto the 0..100 scale: linear up to ReferenceBits, then
// an exponential approach to 100.
func (a *Analyzer) base(bits float64) float64 {
	p := a.params
	linearTop := 100 - p.TailPoints
	if bits <= p.ReferenceBits {
		return bits * linearTop / p.ReferenceBits
	}
	return linearTop + p.TailPoints*(1-math.Exp(-(bits-p.ReferenceBits)/p.TailScaleBits))
}

func (a *Analyzer) score(bits float64, classes, length, penalty int, exact bool) int {
	if length == 0 || exact {
		return 0
	}
	p := a.params
	raw := a.base(bits)
	if classes >= p.DiversityMin {
		raw += float64(p.DiversityBonus)
	}
	raw -= float64(penalty)
	if length < p.MinLength && raw > float64(p.ShortCap) {
		raw = float64(p.ShortCap)
	}

	s := int(math.Round(raw))
	if s > 100 {
		s = 100
	}
	if s < 0 {
		s = 0
	}
	if length >= p.MinLength && s < p.FloorScore {
		s = p.FloorScore
	}
	return s
}

const (
	msgNoPatterns  = "No common patterns detected"
	msgHasLower    = "Contains lowercase letters"
	msgHasUpper    = "Contains uppercase letters"
	msgHasDigit    = "Contains numbers"
	msgHasSymbol   = "Contains special characters"
	msgHasOther    = "Contains non-ASCII characters"
	msgAddLower    = "Add a lowercase letter"
	msgAddUpper    = "Add an uppercase letter"
	msgAddDigit    = "Add a number"
	msgAddSymbol   = "Add a special character"
	msgSequential  = "Avoid sequences like abc or 123"
	msgRepeated    = "Avoid repeated characters like aaa"
	msgDictionary  = "Avoid common passwords and dictionary words"
	msgSimpleChars = "Mix character types instead of only numbers or lowercase letters"
)

var patternSuggestion = map[Pattern]string{
	PatternSequential:    msgSequential,
	PatternRepeated:      msgRepeated,
	PatternDictionary:    msgDictionary,
	PatternSimpleCharset: msgSimpleChars,
}

// checklist splits one fixed list of criteria into satisfied (feedback) and
// unmet (suggestions). No criterion lands in both.
func (a *Analyzer) checklist(r Result) (feedback, suggestions []string) {
	feedback, suggestions = []string{}, []string{}
	add := func(ok bool, pos, neg string) {
		if ok {
			feedback = append(feedback, pos)
		} else {
			suggestions = append(suggestions, neg)
		}
	}

	for _, n := range []int{a.params.MinLength, a.params.RecommendedLength} {
		add(r.Length >= n, fmt.Sprintf("At least %d characters", n), fmt.Sprintf("Use at least %d characters", n))
	}
	b := r.CharacterBreakdown
	add(b.Lowercase > 0, msgHasLower, msgAddLower)
	add(b.Uppercase > 0, msgHasUpper, msgAddUpper)
	add(b.Digit > 0, msgHasDigit, msgAddDigit)
	add(b.Symbol > 0, msgHasSymbol, msgAddSymbol)
	if b.Other > 0 {
		feedback = append(feedback, msgHasOther)
	}

	if r.Length == 0 {
		return feedback, suggestions
	}
	if len(r.Patterns) == 0 {
		feedback = append(feedback, msgNoPatterns)
	}
	for _, p := range r.Patterns {
		suggestions = append(suggestions, patternSuggestion[p])
	}
	return feedback, suggestions
}
