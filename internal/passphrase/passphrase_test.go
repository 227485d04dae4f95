package passphrase

import (
	"slices"
	"strings"
	"testing"
)

func TestSample_FromFixedList(t *testing.T) {
	for i := 0; i < 20; i++ {
		s, err := Sample()
		if err != nil {
			t.Fatal(err)
		}
		if !slices.Contains(samples, s) {
			t.Fatalf("unexpected sample %q", s)
		}
	}
}

func TestSamples_ReturnsCopy(t *testing.T) {
	got := Samples()
	got[0] = "mutated"
	if samples[0] != "correct horse battery staple" {
		t.Fatal("Samples must not expose the backing array")
	}
}

func TestClampWords(t *testing.T) {
	cases := map[int]int{-1: 3, 0: 3, 3: 3, 7: 7, 12: 12, 99: 12}
	for in, want := range cases {
		if got := ClampWords(in); got != want {
			t.Errorf("ClampWords(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestGenerate(t *testing.T) {
	if PoolSize() < 200 {
		t.Fatalf("pool too small: %d", PoolSize())
	}
	for _, n := range []int{1, 4, 12, 40} {
		p, err := Generate(n)
		if err != nil {
			t.Fatal(err)
		}
		words := strings.Split(p, " ")
		if len(words) != ClampWords(n) {
			t.Fatalf("Generate(%d) gave %d words", n, len(words))
		}
		for _, w := range words {
			if !slices.Contains(pool, w) {
				t.Fatalf("word %q not in pool", w)
			}
		}
	}
}
