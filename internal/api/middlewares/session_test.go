package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mw "github.com/5w1tchy/strength-api/internal/api/middlewares"
	jwtutil "github.com/5w1tchy/strength-api/internal/security/jwt"
)

func testIssuer() *jwtutil.Issuer {
	return jwtutil.NewIssuer(jwtutil.Config{
		Secret:     []byte("0123456789abcdef0123456789abcdef"),
		ClockSkew:  time.Minute,
		SessionTTL: time.Hour,
	})
}

func echoSession() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, ok := mw.SessionIDFrom(r.Context())
		if !ok {
			sid = "anonymous"
		}
		w.Write([]byte(sid))
	})
}

func TestRequireSession(t *testing.T) {
	iss := testIssuer()
	tok, _, err := iss.SignSession("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	other := jwtutil.NewIssuer(jwtutil.Config{Secret: []byte("another-secret-another-secret-xx"), SessionTTL: time.Hour})
	forged, _, _ := other.SignSession("sess-1")

	cases := []struct {
		name   string
		header string
		code   int
		body   string
	}{
		{"valid", "Bearer " + tok, http.StatusOK, "sess-1"},
		{"lowercase scheme", "bearer " + tok, http.StatusOK, "sess-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, ""},
		{"empty token", "Bearer ", http.StatusUnauthorized, ""},
		{"foreign signature", "Bearer " + forged, http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/sessions/history", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			mw.RequireSession(iss)(echoSession()).ServeHTTP(rec, req)

			if rec.Code != tc.code {
				t.Fatalf("code %d, want %d", rec.Code, tc.code)
			}
			if tc.body != "" && rec.Body.String() != tc.body {
				t.Errorf("body %q, want %q", rec.Body.String(), tc.body)
			}
		})
	}
}

func TestOptionalSession(t *testing.T) {
	iss := testIssuer()
	tok, _, _ := iss.SignSession("sess-2")

	for header, want := range map[string]string{
		"":               "anonymous",
		"Bearer garbage": "anonymous",
		"Bearer " + tok:  "sess-2",
	} {
		req := httptest.NewRequest("POST", "/v1/analyze", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		mw.OptionalSession(iss)(echoSession()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || rec.Body.String() != want {
			t.Errorf("header %q: got %d %q, want %q", header, rec.Code, rec.Body.String(), want)
		}
	}
}
