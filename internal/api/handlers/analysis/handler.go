// Package analysis serves the stateless strength endpoints.
package analysis

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
	"github.com/5w1tchy/strength-api/internal/api/httpx"
	"github.com/5w1tchy/strength-api/internal/api/middlewares"
	"github.com/5w1tchy/strength-api/internal/metrics/analysisqueue"
	"github.com/5w1tchy/strength-api/internal/passphrase"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/strength"
	"github.com/5w1tchy/strength-api/internal/validate"
)

const DefaultMaxRunes = 4096

type Handler struct {
	Analyzer *strength.Analyzer
	Sessions *session.Service     // optional; unlocks achievements for attached sessions
	Events   *analysisqueue.Queue // optional
	MaxRunes int
}

func (h *Handler) maxRunes() int {
	if h.MaxRunes > 0 {
		return h.MaxRunes
	}
	return DefaultMaxRunes
}

type analyzeRequest struct {
	Password string `json:"password"`
}

type analyzeResponse struct {
	strength.Result
	Unlocked []string `json:"unlocked,omitempty"`
}

// POST /v1/analyze
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		if err == httpx.ErrBodyTooLarge {
			apperr.Handle(w, r, apperr.ErrPasswordTooLong, "")
			return
		}
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if validate.MaxRunes(req.Password, h.maxRunes()) != nil {
		apperr.Handle(w, r, apperr.ErrPasswordTooLong, "")
		return
	}

	res := h.Analyzer.Analyze(req.Password)
	h.Events.Enqueue(analysisqueue.FromResult(res, time.Now()))

	out := analyzeResponse{Result: res}
	if sid, ok := middlewares.SessionIDFrom(r.Context()); ok && h.Sessions != nil && req.Password != "" {
		unlocked, err := h.Sessions.Observe(r.Context(), sid, res)
		if err != nil {
			zap.L().Warn("observe achievements failed", zap.String("request_id", middlewares.GetRequestID(r)), zap.Error(err))
		}
		out.Unlocked = unlocked
	}
	httpx.OK(w, out)
}

// GET /v1/crack-time?bits=
func (h *Handler) CrackTime(w http.ResponseWriter, r *http.Request) {
	bits, err := validate.Bits(r.URL.Query().Get("bits"))
	if err != nil {
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_bits", "bits must be a non-negative number")
		return
	}
	httpx.OK(w, map[string]any{
		"bits":           bits,
		"bruteForceTime": h.Analyzer.FormatCrackTime(bits),
	})
}

// GET /v1/passphrase?words=
func (h *Handler) Passphrase(w http.ResponseWriter, r *http.Request) {
	var (
		p   string
		err error
	)
	n, set, werr := validate.Words(r.URL.Query().Get("words"))
	switch {
	case werr != nil:
		httpx.ErrorCode(w, http.StatusBadRequest, "invalid_words", "words must be an integer")
		return
	case set:
		p, err = passphrase.Generate(n)
	default:
		p, err = passphrase.Sample()
	}
	if err != nil {
		zap.L().Error("passphrase generation failed", zap.Error(err))
		apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	httpx.OK(w, map[string]any{
		"passphrase": p,
		"analysis":   h.Analyzer.Analyze(p),
	})
}

// GET /healthz
func Healthz(w http.ResponseWriter, _ *http.Request) {
	httpx.OK(w, map[string]string{"service": "strength-api"})
}
