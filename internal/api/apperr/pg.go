package apperr

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var constraintField = map[string]string{
	"session_history_session_fp_key": "password",
	"session_history_score_check":    "score",
	"session_history_id_key":         "id",
	"session_achievements_pkey":      "achievement",
	"analysis_events_score_check":    "score",
}

func fieldFor(pg *pgconn.PgError, fallback string) string {
	if f, ok := constraintField[pg.ConstraintName]; ok {
		return f
	}
	if pg.ColumnName != "" {
		return pg.ColumnName
	}
	return fallback
}

// FromPG maps a *pgconn.PgError to a Problem. Returns (Problem, true) if mapped.
func FromPG(err error) (Problem, bool) {
	var pg *pgconn.PgError
	if !errors.As(err, &pg) {
		return Problem{}, false
	}

	p := Problem{Status: http.StatusInternalServerError, Title: "Database error"}
	fe := func(field, code, msg string) {
		p.FieldErrors = []FieldError{{Field: field, Code: code, Message: msg}}
	}

	switch pg.Code {
	case "23505": // unique_violation
		p.Status, p.Title = http.StatusConflict, "Conflict"
		fe(fieldFor(pg, "resource"), "unique", "value already exists")
	case "23502": // not_null_violation
		p.Status, p.Title = http.StatusBadRequest, "Bad Request"
		fe(fieldFor(pg, "field"), "not_null", "required field is missing")
	case "23514": // check_violation
		p.Status, p.Title = http.StatusUnprocessableEntity, "Unprocessable Entity"
		fe(fieldFor(pg, "field"), "check", "constraint failed")
	case "22P02": // invalid_text_representation
		p.Status, p.Title = http.StatusBadRequest, "Bad Request"
		fe(fieldFor(pg, "id"), "invalid", "invalid format")
	case "22001": // string_data_right_truncation
		p.Status, p.Title = http.StatusBadRequest, "Bad Request"
		fe(fieldFor(pg, "field"), "too_long", "value is too long")
	case "40001", "40P01": // serialization_failure, deadlock_detected
		p.Status, p.Title = http.StatusConflict, "Conflict"
		p.Detail = "transaction conflict, please retry"
		p.Retryable = true
	case "57P03", "53300": // cannot_connect_now, too_many_connections
		p.Status, p.Title = http.StatusServiceUnavailable, "Service Unavailable"
		p.Retryable = true
	}
	return p, true
}

// HandleDBError maps err to a Problem and writes it. Returns true if handled.
func HandleDBError(w http.ResponseWriter, r *http.Request, err error, fallbackTitle string) bool {
	if err == nil {
		return false
	}
	if p, ok := FromPG(err); ok {
		Write(w, r, p)
		return true
	}
	Write(w, r, Problem{Status: http.StatusInternalServerError, Title: fallbackTitle})
	return true
}
