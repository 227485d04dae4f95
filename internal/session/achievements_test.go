package session

import (
	"testing"

	"github.com/5w1tchy/strength-api/internal/strength"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name    string
		already []string
		res     strength.Result
		want    []string
	}{
		{"nothing", nil, strength.Result{Score: 40, EntropyBits: 30, BruteForceTime: "2 hours"}, nil},
		{"entropy boundary is strict", nil, strength.Result{EntropyBits: 100}, nil},
		{"all", nil, strength.Result{Score: 100, EntropyBits: 131, BruteForceTime: strength.BucketCenturies},
			[]string{PerfectScore, HighEntropy, Unbreakable}},
		{"skips unlocked", []string{HighEntropy}, strength.Result{EntropyBits: 101, BruteForceTime: strength.BucketCenturies},
			[]string{Unbreakable}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Evaluate(tc.already, tc.res)
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestSortAchievements(t *testing.T) {
	got := SortAchievements([]string{Unbreakable, "bogus", PerfectScore, Unbreakable})
	if len(got) != 2 || got[0] != PerfectScore || got[1] != Unbreakable {
		t.Fatalf("got %v", got)
	}
}

func TestMask(t *testing.T) {
	cases := map[string]string{
		"":                            "",
		"abcd":                        "****",
		"abcde":                       "a***e",
		"héllo":                       "h***o",
		"a-very-long-passphrase-here": "a************e",
	}
	for in, want := range cases {
		if got := Mask(in); got != want {
			t.Errorf("Mask(%q) = %q, want %q", in, got, want)
		}
	}
}
