package analysis_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/strength-api/internal/api/handlers/analysis"
	"github.com/5w1tchy/strength-api/internal/api/middlewares"
	"github.com/5w1tchy/strength-api/internal/passphrase"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/store/history"
	"github.com/5w1tchy/strength-api/internal/strength"
)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.Equal(t, "success", env.Status)
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

type fp struct{}

func (fp) Sum(scope, secret string) string { return scope + secret }

func newHandler() *analysis.Handler {
	a := strength.Default()
	return &analysis.Handler{
		Analyzer: a,
		Sessions: session.NewService(a, history.NewMemory(), fp{}, 0),
		MaxRunes: 64,
	}
}

func TestAnalyze(t *testing.T) {
	h := newHandler()
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"password":"Ab1!Qz9"}`))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]any
	decode(t, rec, &got)
	assert.EqualValues(t, 40, got["score"])
	assert.Contains(t, got, "entropyBits")
	assert.Contains(t, got, "bruteForceTime")
	assert.Contains(t, got, "characterBreakdown")
	assert.NotContains(t, got, "unlocked")
}

func TestAnalyze_EmptyPasswordIsValid(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler().Analyze(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"password":""}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got strength.Result
	decode(t, rec, &got)
	assert.Equal(t, 0, got.Score)
	assert.NotNil(t, got.Feedback)
}

func TestAnalyze_Rejections(t *testing.T) {
	cases := map[string]string{
		"too long":  `{"password":"` + strings.Repeat("x", 65) + `"}`,
		"bad json":  `{"password":`,
		"extra key": `{"password":"a","pw":"b"}`,
	}
	for name, body := range cases {
		rec := httptest.NewRecorder()
		newHandler().Analyze(rec, httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(body)))
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
		assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"), name)
	}
}

func TestAnalyze_WithSessionUnlocks(t *testing.T) {
	h := newHandler()
	req := httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"password":"Tq8#vW2!mZ5&kR9@pL4*"}`))
	req = req.WithContext(middlewares.WithSessionID(req.Context(), "s1"))
	rec := httptest.NewRecorder()

	h.Analyze(rec, req)

	var got struct {
		Score    int      `json:"score"`
		Unlocked []string `json:"unlocked"`
	}
	decode(t, rec, &got)
	assert.Equal(t, 100, got.Score)
	assert.Equal(t, []string{session.PerfectScore, session.HighEntropy, session.Unbreakable}, got.Unlocked)

	names, err := h.Sessions.Achievements(req.Context(), "s1")
	require.NoError(t, err)
	assert.Len(t, names, 3)
}

func TestCrackTime(t *testing.T) {
	h := newHandler()

	rec := httptest.NewRecorder()
	h.CrackTime(rec, httptest.NewRequest(http.MethodGet, "/v1/crack-time?bits=128", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Bits           float64 `json:"bits"`
		BruteForceTime string  `json:"bruteForceTime"`
	}
	decode(t, rec, &got)
	assert.Equal(t, 128.0, got.Bits)
	assert.Equal(t, strength.BucketCenturies, got.BruteForceTime)

	for _, q := range []string{"", "?bits=abc", "?bits=-1", "?bits=NaN", "?bits=Inf"} {
		rec := httptest.NewRecorder()
		h.CrackTime(rec, httptest.NewRequest(http.MethodGet, "/v1/crack-time"+q, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Contains(t, rec.Body.String(), "invalid_bits", q)
	}
}

func TestPassphrase(t *testing.T) {
	h := newHandler()

	rec := httptest.NewRecorder()
	h.Passphrase(rec, httptest.NewRequest(http.MethodGet, "/v1/passphrase", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var sample struct {
		Passphrase string          `json:"passphrase"`
		Analysis   strength.Result `json:"analysis"`
	}
	decode(t, rec, &sample)
	assert.Contains(t, passphrase.Samples(), sample.Passphrase)
	assert.Equal(t, len([]rune(sample.Passphrase)), sample.Analysis.Length)

	rec = httptest.NewRecorder()
	h.Passphrase(rec, httptest.NewRequest(http.MethodGet, "/v1/passphrase?words=50", nil))
	var gen struct {
		Passphrase string `json:"passphrase"`
	}
	decode(t, rec, &gen)
	assert.Len(t, strings.Fields(gen.Passphrase), passphrase.MaxWords)

	rec = httptest.NewRecorder()
	h.Passphrase(rec, httptest.NewRequest(http.MethodGet, "/v1/passphrase?words=four", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
