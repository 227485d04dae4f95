package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
	mw "github.com/5w1tchy/strength-api/internal/api/middlewares"
)

func TestRecovery(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	})

	handler := mw.Recovery(panicHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	var p apperr.Problem
	if err := json.NewDecoder(rec.Body).Decode(&p); err != nil {
		t.Fatalf("expected problem body: %v", err)
	}
	if p.Title != "Internal Server Error" || p.Detail != "" {
		t.Errorf("panic details leaked or title wrong: %+v", p)
	}
}

func TestRecoveryWithRequestID(t *testing.T) {
	panicHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("panic with request ID")
	})

	handler := mw.RequestID(mw.Recovery(panicHandler))

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set("X-Request-ID", "rid-42")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	var p apperr.Problem
	_ = json.NewDecoder(rec.Body).Decode(&p)
	if p.RequestID != "rid-42" {
		t.Errorf("Expected request id in problem, got %q", p.RequestID)
	}
}

func TestRecoveryDoesNotInterceptNormalRequests(t *testing.T) {
	normalHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("success"))
	})

	handler := mw.Recovery(normalHandler)

	req := httptest.NewRequest("GET", "/test", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", rec.Code)
	}
	if rec.Body.String() != "success" {
		t.Errorf("Expected 'success', got: %s", rec.Body.String())
	}
}
