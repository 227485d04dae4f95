package strength_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/5w1tchy/strength-api/internal/strength"
)

func TestLoad_DefaultsAndExtraWords(t *testing.T) {
	t.Setenv("STRENGTH_MIN_LENGTH", "")
	t.Setenv("STRENGTH_GUESSES_PER_SECOND", "")

	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("# house words\nzyxwquartz\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	extra, err := strength.LoadDictionaryFile(path)
	if err != nil {
		t.Fatal(err)
	}

	a, err := strength.Load("", extra)
	if err != nil {
		t.Fatal(err)
	}
	if a.Params() != strength.DefaultParams() {
		t.Errorf("params changed without a file: %+v", a.Params())
	}
	if !a.Analyze("Zyxwquartz!9").Has(strength.PatternDictionary) {
		t.Error("extra word not matched")
	}
	if a.Dictionary().Len() != strength.DefaultDictionary().Len()+1 {
		t.Errorf("merged len = %d", a.Dictionary().Len())
	}
}

func TestLoad_ParamsFileAndEnv(t *testing.T) {
	t.Setenv("STRENGTH_MIN_LENGTH", "10")
	a, err := strength.Load(writeFile(t, "recommended_length: 14\n"))
	if err != nil {
		t.Fatal(err)
	}
	if a.Params().MinLength != 10 || a.Params().RecommendedLength != 14 {
		t.Errorf("got %+v", a.Params())
	}
}

func TestLoadDictionaryFile_Missing(t *testing.T) {
	if _, err := strength.LoadDictionaryFile(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error")
	}
}
