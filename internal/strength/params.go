package strength

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultSymbols is every printable ASCII character that is not a letter or a
// digit, space included.
const DefaultSymbols = " !\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Params holds every tunable of the scoring model. Zero values in a YAML file
// keep the defaults.
type Params struct {
	Symbols   string `yaml:"symbols"`
	OtherPool int    `yaml:"other_pool"` // alphabet contribution of non-ASCII runes

	MinLength              int `yaml:"min_length"`
	RecommendedLength      int `yaml:"recommended_length"`
	SimpleCharsetMinLength int `yaml:"simple_charset_min_length"`

	ReferenceBits  float64 `yaml:"reference_bits"` // linear region of the base curve
	TailPoints     float64 `yaml:"tail_points"`
	TailScaleBits  float64 `yaml:"tail_scale_bits"`
	DiversityBonus int     `yaml:"diversity_bonus"`
	DiversityMin   int     `yaml:"diversity_min_classes"`

	SequentialPenalty    int `yaml:"sequential_penalty"`
	RepeatedPenalty      int `yaml:"repeated_penalty"`
	DictionaryPenalty    int `yaml:"dictionary_penalty"`
	SimpleCharsetPenalty int `yaml:"simple_charset_penalty"`
	MaxPenalty           int `yaml:"max_penalty"`
	RunLength            int `yaml:"run_length"`

	ShortCap   int `yaml:"short_cap"`
	FloorScore int `yaml:"floor_score"`

	GuessesPerSecond float64 `yaml:"guesses_per_second"`
	CenturyYears     float64 `yaml:"century_years"` // "centuries" past this many years
}

// DefaultParams is calibrated so that a random 12-char mixed password lands
// near 90 and long lowercase passphrases stay in the upper half.
func DefaultParams() Params {
	return Params{
		Symbols:   DefaultSymbols,
		OtherPool: 64,

		MinLength:              8,
		RecommendedLength:      12,
		SimpleCharsetMinLength: 12,

		ReferenceBits:  80,
		TailPoints:     20,
		TailScaleBits:  40,
		DiversityBonus: 10,
		DiversityMin:   3,

		SequentialPenalty:    15,
		RepeatedPenalty:      15,
		DictionaryPenalty:    25,
		SimpleCharsetPenalty: 10,
		MaxPenalty:           50,
		RunLength:            3,

		ShortCap:   40,
		FloorScore: 5,

		GuessesPerSecond: 1e10,
		CenturyYears:     1000,
	}
}

// LoadParams reads YAML tunables from path on top of the defaults.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("strength: read params: %w", err)
	}
	var fromFile Params
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return p, fmt.Errorf("strength: parse params %s: %w", path, err)
	}
	p.merge(fromFile)
	return p, p.Validate()
}

func (p *Params) merge(o Params) {
	if o.Symbols != "" {
		p.Symbols = o.Symbols
	}
	setInt(&p.OtherPool, o.OtherPool)
	setInt(&p.MinLength, o.MinLength)
	setInt(&p.RecommendedLength, o.RecommendedLength)
	setInt(&p.SimpleCharsetMinLength, o.SimpleCharsetMinLength)
	setFloat(&p.ReferenceBits, o.ReferenceBits)
	setFloat(&p.TailPoints, o.TailPoints)
	setFloat(&p.TailScaleBits, o.TailScaleBits)
	setInt(&p.DiversityBonus, o.DiversityBonus)
	setInt(&p.DiversityMin, o.DiversityMin)
	setInt(&p.SequentialPenalty, o.SequentialPenalty)
	setInt(&p.RepeatedPenalty, o.RepeatedPenalty)
	setInt(&p.DictionaryPenalty, o.DictionaryPenalty)
	setInt(&p.SimpleCharsetPenalty, o.SimpleCharsetPenalty)
	setInt(&p.MaxPenalty, o.MaxPenalty)
	setInt(&p.RunLength, o.RunLength)
	setInt(&p.ShortCap, o.ShortCap)
	setInt(&p.FloorScore, o.FloorScore)
	setFloat(&p.GuessesPerSecond, o.GuessesPerSecond)
	setFloat(&p.CenturyYears, o.CenturyYears)
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

// ApplyEnv overrides the attack model and length threshold from the
// environment; malformed values are ignored.
func (p *Params) ApplyEnv() {
	if v := os.Getenv("STRENGTH_GUESSES_PER_SECOND"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			p.GuessesPerSecond = f
		}
	}
	if v := os.Getenv("STRENGTH_MIN_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			p.MinLength = n
		}
	}
}

var ErrInvalidParams = errors.New("strength: invalid params")

func (p Params) Validate() error {
	switch {
	case p.Symbols == "":
		return fmt.Errorf("%w: empty symbol set", ErrInvalidParams)
	case p.OtherPool < 1:
		return fmt.Errorf("%w: other_pool must be >= 1", ErrInvalidParams)
	case p.MinLength < 1 || p.RecommendedLength < p.MinLength:
		return fmt.Errorf("%w: need 1 <= min_length <= recommended_length", ErrInvalidParams)
	case p.ReferenceBits <= 0 || p.TailScaleBits <= 0 || p.TailPoints < 0:
		return fmt.Errorf("%w: score curve must be positive", ErrInvalidParams)
	case p.RunLength < 3 || p.RunLength > 32:
		return fmt.Errorf("%w: run_length must be in [3, 32]", ErrInvalidParams)
	case p.MaxPenalty < 0 || p.FloorScore < 0 || p.ShortCap < 0 || p.ShortCap > 100:
		return fmt.Errorf("%w: penalty bounds out of range", ErrInvalidParams)
	case p.GuessesPerSecond <= 0 || p.CenturyYears <= 0:
		return fmt.Errorf("%w: attack model must be positive", ErrInvalidParams)
	}
	return nil
}
