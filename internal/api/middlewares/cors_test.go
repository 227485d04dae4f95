package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"

	mw "github.com/5w1tchy/strength-api/internal/api/middlewares"
)

func TestCors(t *testing.T) {
	h := mw.Cors([]string{"https://app.example"})(okHandler())

	req := httptest.NewRequest("GET", "/v1/crack-time", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "https://app.example" {
		t.Errorf("allowed origin: %d %q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("GET", "/v1/crack-time", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("blocked origin: got %d", rec.Code)
	}

	req = httptest.NewRequest("OPTIONS", "/v1/analyze", nil)
	req.Header.Set("Origin", "https://app.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight: got %d", rec.Code)
	}

	// no Origin: same-origin or non-browser clients pass through
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("no origin: %d %q", rec.Code, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestOriginsFromEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example/ ,https://b.example,, ")
	got := mw.OriginsFromEnv()
	if !slices.Equal(got, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("got %v", got)
	}

	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	if len(mw.OriginsFromEnv()) == 0 {
		t.Error("expected development defaults")
	}
}
