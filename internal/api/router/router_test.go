package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/5w1tchy/strength-api/internal/api/router"
	jwtutil "github.com/5w1tchy/strength-api/internal/security/jwt"
	"github.com/5w1tchy/strength-api/internal/security/password"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/store/history"
	"github.com/5w1tchy/strength-api/internal/strength"
)

type fp struct{}

func (fp) Sum(scope, secret string) string { return scope + ":" + secret }

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example")
	a := strength.Default()
	deps := router.Deps{
		Analyzer: a,
		Sessions: session.NewService(a, history.NewMemory(), fp{}, 10),
		Issuer:   jwtutil.NewIssuer(jwtutil.Config{Secret: []byte("0123456789abcdef0123456789abcdef"), SessionTTL: time.Hour}),
		Hasher:   password.NewHasher(password.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}),
	}
	srv := httptest.NewServer(router.Secure(router.Router(deps), nil))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(res.Body).Decode(&out)
	return res, out
}

func TestRouter_EndToEnd(t *testing.T) {
	srv := newServer(t)

	res, _ := do(t, http.MethodGet, srv.URL+"/healthz", "", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.NotEmpty(t, res.Header.Get("X-Request-ID"))
	assert.NotEmpty(t, res.Header.Get("X-Response-Time"))
	assert.Equal(t, "nosniff", res.Header.Get("X-Content-Type-Options"))

	res, body := do(t, http.MethodPost, srv.URL+"/v1/analyze", "", `{"password":"password"}`)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.EqualValues(t, 0, body["data"].(map[string]any)["score"])

	res, body = do(t, http.MethodPost, srv.URL+"/v1/sessions", "", "")
	require.Equal(t, http.StatusCreated, res.StatusCode)
	token := body["data"].(map[string]any)["token"].(string)

	res, _ = do(t, http.MethodGet, srv.URL+"/v1/sessions/history", "", "")
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)

	res, _ = do(t, http.MethodPost, srv.URL+"/v1/sessions/history", token, `{"password":"Tq8#vW2!mZ5&kR9@pL4*"}`)
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res, body = do(t, http.MethodGet, srv.URL+"/v1/sessions/achievements", token, "")
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, []any{session.PerfectScore, session.HighEntropy, session.Unbreakable}, body["data"])

	res, _ = do(t, http.MethodPost, srv.URL+"/v1/sessions/export", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res, _ = do(t, http.MethodGet, srv.URL+"/v1/admin/stats", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, res.StatusCode)

	res, _ = do(t, http.MethodGet, srv.URL+"/v1/crack-time?bits=10", "", "")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, _ = do(t, http.MethodDelete, srv.URL+"/v1/analyze", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)
}

func TestRouter_OversizedBody(t *testing.T) {
	t.Setenv("MAX_BODY_SIZE", "256")
	srv := newServer(t)

	res, _ := do(t, http.MethodPost, srv.URL+"/v1/analyze", "", `{"password":"`+strings.Repeat("a", 1024)+`"}`)
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestChain_Order(t *testing.T) {
	var order []string
	mk := func(name string) router.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := router.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mk("a"), mk("b"), mk("c"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"a", "b", "c"}, order)
}
