package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/strength-api/internal/passphrase"
	"github.com/5w1tchy/strength-api/internal/strength"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyze_Text(t *testing.T) {
	out, _, err := execute(t, "", "analyze", "Tq8#vW2!mZ5&kR9@pL4*")
	require.NoError(t, err)
	assert.Contains(t, out, "Score:        100/100")
	assert.Contains(t, out, "Crack time:   centuries")
}

func TestAnalyze_StdinJSON(t *testing.T) {
	out, _, err := execute(t, "password\r\n", "analyze", "--json")
	require.NoError(t, err)

	var res strength.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 8, res.Length)
	assert.Equal(t, 0, res.Score)
	assert.True(t, res.ExactMatch)
}

func TestAnalyze_BadParamsFile(t *testing.T) {
	_, _, err := execute(t, "", "analyze", "--params", "/does/not/exist.yaml", "x")
	assert.Error(t, err)
}

func TestCrackTime(t *testing.T) {
	out, _, err := execute(t, "", "crack-time", "0")
	require.NoError(t, err)
	assert.Equal(t, "instantly\n", out)

	_, _, err = execute(t, "", "crack-time", "-3")
	assert.Error(t, err)
}

func TestPassphrase(t *testing.T) {
	out, _, err := execute(t, "", "passphrase")
	require.NoError(t, err)
	assert.Contains(t, passphrase.Samples(), strings.TrimSpace(out))

	out, _, err = execute(t, "", "passphrase", "--words", "5")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 5)
}

func TestHashKey(t *testing.T) {
	t.Setenv("ARGON2_MEMORY", "8192")
	t.Setenv("ARGON2_ITER", "1")

	_, _, err := execute(t, "", "hash-key", "short")
	assert.ErrorContains(t, err, "at least")

	_, stderr, err := execute(t, "", "hash-key", "passwordpassword")
	assert.ErrorContains(t, err, "scores below")
	assert.Contains(t, stderr, "too predictable")

	key := "Tq8#vW2!mZ5&kR9@pL4*"
	out, _, err := execute(t, key+"\n", "hash-key")
	require.NoError(t, err)
	ok, err := argon2id.ComparePasswordAndHash(key, strings.TrimSpace(out))
	require.NoError(t, err)
	assert.True(t, ok)
}
