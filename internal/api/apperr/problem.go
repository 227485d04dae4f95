package apperr

import (
	"encoding/json"
	"net/http"
)

type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`    // "required", "unique", "too_long", "invalid", ...
	Message string `json:"message"` // human readable
}

// Problem is an RFC 7807 problem document.
type Problem struct {
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title"`
	Status      int          `json:"status"`
	Detail      string       `json:"detail,omitempty"`
	Instance    string       `json:"instance,omitempty"`
	RequestID   string       `json:"request_id,omitempty"`
	FieldErrors []FieldError `json:"field_errors,omitempty"`
	Retryable   bool         `json:"retryable,omitempty"`
}

func Write(w http.ResponseWriter, r *http.Request, p Problem) {
	if p.Status == 0 {
		p.Status = http.StatusInternalServerError
	}
	if p.Title == "" {
		p.Title = http.StatusText(p.Status)
	}
	if r != nil {
		if p.Instance == "" {
			p.Instance = r.URL.Path
		}
		// set by the RequestID middleware
		if p.RequestID == "" {
			p.RequestID = r.Header.Get("X-Request-ID")
		}
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}

// WriteStatus is Write with just status, title and detail.
func WriteStatus(w http.ResponseWriter, r *http.Request, status int, title, detail string) {
	Write(w, r, Problem{Status: status, Title: title, Detail: detail})
}
