package strength

import (
	"fmt"
	"os"
)

// LoadDictionaryFile parses a wordlist file in ParseDictionary format.
func LoadDictionaryFile(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("strength: open wordlist: %w", err)
	}
	defer f.Close()
	return ParseDictionary(f)
}

// Load builds an analyzer from an optional YAML params file (empty path keeps
// the defaults), the STRENGTH_* env overrides, and the embedded wordlist
// merged with any extra dictionaries.
func Load(paramsPath string, extra ...*Dictionary) (*Analyzer, error) {
	p := DefaultParams()
	if paramsPath != "" {
		var err error
		if p, err = LoadParams(paramsPath); err != nil {
			return nil, err
		}
	}
	p.ApplyEnv()

	dict := DefaultDictionary()
	for _, d := range extra {
		dict = dict.Merge(d)
	}
	return New(WithParams(p), WithDictionary(dict))
}
