package apperr

import (
	"errors"
	"net/http"

	"github.com/5w1tchy/strength-api/internal/session"
)

// ErrPasswordTooLong is returned by handlers for inputs above the rune cap.
var ErrPasswordTooLong = errors.New("password too long")

// FromDomain maps session and input errors to problems.
func FromDomain(err error) (Problem, bool) {
	switch {
	case errors.Is(err, session.ErrEmptyPassword):
		return Problem{Status: http.StatusBadRequest, Title: "Bad Request",
			FieldErrors: []FieldError{{Field: "password", Code: "required", Message: "password is required"}}}, true
	case errors.Is(err, ErrPasswordTooLong):
		return Problem{Status: http.StatusBadRequest, Title: "Bad Request",
			FieldErrors: []FieldError{{Field: "password", Code: "too_long", Message: "password is too long"}}}, true
	case errors.Is(err, session.ErrDuplicate):
		return Problem{Status: http.StatusConflict, Title: "Conflict",
			FieldErrors: []FieldError{{Field: "password", Code: "unique", Message: "password is already in this session's history"}}}, true
	case errors.Is(err, session.ErrHistoryFull):
		return Problem{Status: http.StatusConflict, Title: "Conflict", Detail: "session history is full"}, true
	}
	return Problem{}, false
}

// Handle writes the best problem for err: domain, then database, then a
// generic 500 titled fallbackTitle.
func Handle(w http.ResponseWriter, r *http.Request, err error, fallbackTitle string) {
	if p, ok := FromDomain(err); ok {
		Write(w, r, p)
		return
	}
	HandleDBError(w, r, err, fallbackTitle)
}
