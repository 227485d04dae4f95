package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

type CodedError struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func OK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, map[string]any{"status": "success", "data": data})
}

func Created(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, map[string]any{"status": "success", "data": data})
}

func ErrorCode(w http.ResponseWriter, status int, code, msg string) {
	var e CodedError
	e.Error.Code = code
	e.Error.Message = msg
	WriteJSON(w, status, e)
}

// ErrBodyTooLarge is returned by DecodeJSON when the body exceeds the
// BodySizeLimit cap.
var ErrBodyTooLarge = errors.New("request body too large")

// DecodeJSON decodes exactly one JSON object into dst, rejecting unknown
// fields and trailing data.
func DecodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return fmt.Errorf("unsupported content type %q", ct)
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return ErrBodyTooLarge
		}
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return errors.New("trailing data after JSON object")
	}
	return nil
}
