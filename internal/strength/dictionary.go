package strength

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/status-im/zxcvbn-go/matching"
	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed wordlist.txt
var defaultWordlist string

// Entries outside [minEntryRunes, maxEntryRunes] are dropped.
const (
	minEntryRunes = 4
	maxEntryRunes = 64
)

// minWindow is the smallest rune window handed to the substring matcher.
const minWindow = 32

// Dictionary is an immutable set of case-folded common passwords and words.
type Dictionary struct {
	entries []string // folded, sorted, unique
	set     map[string]struct{}
	longest int // in runes
}

var defaultDictionary = mustParseDefault()

func mustParseDefault() *Dictionary {
	d, err := ParseDictionary(strings.NewReader(defaultWordlist))
	if err != nil {
		panic(fmt.Sprintf("strength: embedded wordlist: %v", err))
	}
	return d
}

// DefaultDictionary returns the embedded wordlist.
func DefaultDictionary() *Dictionary { return defaultDictionary }

// ParseDictionary reads one entry per line; blank lines and lines starting
// with '#' are skipped.
func ParseDictionary(r io.Reader) (*Dictionary, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("strength: read dictionary: %w", err)
	}
	return NewDictionary(words...), nil
}

// NewDictionary folds and deduplicates words.
func NewDictionary(words ...string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(words))}
	for _, w := range words {
		d.insert(w)
	}
	d.finish()
	return d
}

func (d *Dictionary) insert(w string) {
	f := fold(strings.TrimSpace(w))
	n := utf8.RuneCountInString(f)
	if n < minEntryRunes || n > maxEntryRunes {
		return
	}
	if _, ok := d.set[f]; ok {
		return
	}
	d.set[f] = struct{}{}
	d.entries = append(d.entries, f)
	if n > d.longest {
		d.longest = n
	}
}

func (d *Dictionary) finish() { sort.Strings(d.entries) }

// Merge returns a new dictionary holding the entries of both.
func (d *Dictionary) Merge(o *Dictionary) *Dictionary {
	out := &Dictionary{set: make(map[string]struct{}, d.Len()+o.Len())}
	for _, src := range []*Dictionary{d, o} {
		if src == nil {
			continue
		}
		for _, e := range src.entries {
			out.insert(e)
		}
	}
	out.finish()
	return out
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// match reports whether any variant of a folded password contains an entry,
// and whether one variant equals an entry outright.
func (d *Dictionary) match(folded string) (found, exact bool) {
	if d.Len() == 0 || folded == "" {
		return false, false
	}
	for _, v := range variants(folded) {
		if _, ok := d.set[v]; ok {
			return true, true
		}
		if !found {
			found = d.contains(v)
		}
	}
	return found, false
}

// contains runs the zxcvbn dictionary matcher with the entries as user
// inputs. The matcher is cubic in input length, so long input is scanned in
// overlapping windows wide enough that every entry fits inside one of them.
func (d *Dictionary) contains(s string) bool {
	runes := []rune(s)
	size := 2 * d.longest
	if size < minWindow {
		size = minWindow
	}
	step := size - d.longest + 1
	for lo := 0; lo < len(runes); lo += step {
		hi := lo + size
		if hi > len(runes) {
			hi = len(runes)
		}
		if len(matching.Omnimatch(string(runes[lo:hi]), d.entries, dropAll)) > 0 {
			return true
		}
		if hi == len(runes) {
			break
		}
	}
	return false
}

// fold case-folds s and strips combining marks, so "Pässwörd" and
// "password" compare equal. Casers and transform chains hold state, so both
// are built per call.
func fold(s string) string {
	t := transform.Chain(
		norm.NFKD,
		transform.RemoveFunc(func(r rune) bool { return unicode.Is(unicode.Mn, r) }),
		norm.NFC,
	)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

var (
	leetI = strings.NewReplacer("0", "o", "1", "i", "3", "e", "4", "a", "5", "s", "7", "t", "@", "a", "$", "s", "!", "i")
	leetL = strings.NewReplacer("0", "o", "1", "l", "3", "e", "4", "a", "5", "s", "7", "t", "@", "a", "$", "s", "!", "l")
)

// variants yields the folded input plus its leet-decoded forms, deduplicated.
func variants(folded string) []string {
	out := []string{folded}
	for _, r := range []*strings.Replacer{leetI, leetL} {
		v := r.Replace(folded)
		dup := false
		for _, seen := range out {
			if seen == v {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}
