// Package sessions serves anonymous analysis sessions: history,
// achievements and exports.
package sessions

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/api/apperr"
	"github.com/5w1tchy/strength-api/internal/api/httpx"
	"github.com/5w1tchy/strength-api/internal/api/middlewares"
	jwtutil "github.com/5w1tchy/strength-api/internal/security/jwt"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/validate"
)

// Exporter stores snapshots and hands out download links. *s3.S3Client
// satisfies it.
type Exporter interface {
	PutJSON(ctx context.Context, key string, v any) error
	PresignGet(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

type Handler struct {
	Issuer   *jwtutil.Issuer
	Service  *session.Service
	Exports  Exporter // nil disables export
	MaxRunes int
	now      func() time.Time
}

func NewHandler(iss *jwtutil.Issuer, svc *session.Service, exp Exporter, maxRunes int) *Handler {
	return &Handler{Issuer: iss, Service: svc, Exports: exp, MaxRunes: maxRunes, now: time.Now}
}

type createResponse struct {
	SessionID string    `json:"session_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// POST /v1/sessions
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	sid := uuid.NewString()
	tok, exp, err := h.Issuer.SignSession(sid)
	if err != nil {
		zap.L().Error("sign session failed", zap.Error(err))
		apperr.WriteStatus(w, r, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	httpx.Created(w, createResponse{SessionID: sid, Token: tok, ExpiresAt: exp.UTC()})
}

type recordRequest struct {
	Password string `json:"password"`
}

// POST /v1/sessions/history
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	sid, _ := middlewares.SessionIDFrom(r.Context())

	var req recordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		if err == httpx.ErrBodyTooLarge {
			apperr.Handle(w, r, apperr.ErrPasswordTooLong, "")
			return
		}
		apperr.WriteStatus(w, r, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if validate.MaxRunes(req.Password, h.MaxRunes) != nil {
		apperr.Handle(w, r, apperr.ErrPasswordTooLong, "")
		return
	}

	rec, err := h.Service.Record(r.Context(), sid, req.Password)
	if err != nil {
		apperr.Handle(w, r, err, "Failed to record password")
		return
	}
	if rec.Unlocked == nil {
		rec.Unlocked = []string{}
	}
	httpx.Created(w, rec)
}

// GET /v1/sessions/history
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sid, _ := middlewares.SessionIDFrom(r.Context())
	entries, err := h.Service.History(r.Context(), sid)
	if err != nil {
		apperr.Handle(w, r, err, "Failed to load history")
		return
	}
	httpx.OK(w, entries)
}

// GET /v1/sessions/achievements
func (h *Handler) Achievements(w http.ResponseWriter, r *http.Request) {
	sid, _ := middlewares.SessionIDFrom(r.Context())
	names, err := h.Service.Achievements(r.Context(), sid)
	if err != nil {
		apperr.Handle(w, r, err, "Failed to load achievements")
		return
	}
	httpx.OK(w, names)
}

type snapshot struct {
	SessionID    string          `json:"session_id"`
	ExportedAt   time.Time       `json:"exported_at"`
	History      []session.Entry `json:"history"`
	Achievements []string        `json:"achievements"`
}

// POST /v1/sessions/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	if h.Exports == nil {
		apperr.WriteStatus(w, r, http.StatusServiceUnavailable, "Export disabled", "object storage is not configured")
		return
	}
	ctx := r.Context()
	sid, _ := middlewares.SessionIDFrom(ctx)

	entries, err := h.Service.History(ctx, sid)
	if err != nil {
		apperr.Handle(w, r, err, "Failed to load history")
		return
	}
	names, err := h.Service.Achievements(ctx, sid)
	if err != nil {
		apperr.Handle(w, r, err, "Failed to load achievements")
		return
	}

	now := time.Now().UTC()
	if h.now != nil {
		now = h.now().UTC()
	}
	key := "exports/" + sid + "/" + now.Format("20060102T150405Z") + ".json"
	snap := snapshot{SessionID: sid, ExportedAt: now, History: entries, Achievements: names}
	if err := h.Exports.PutJSON(ctx, key, snap); err != nil {
		zap.L().Error("export upload failed", zap.String("key", key), zap.Error(err))
		apperr.WriteStatus(w, r, http.StatusBadGateway, "Export failed", "")
		return
	}
	url, err := h.Exports.PresignGet(ctx, key)
	if err != nil {
		zap.L().Error("export presign failed", zap.String("key", key), zap.Error(err))
		if derr := h.Exports.DeleteObject(ctx, key); derr != nil {
			zap.L().Warn("export cleanup failed", zap.String("key", key), zap.Error(derr))
		}
		apperr.WriteStatus(w, r, http.StatusBadGateway, "Export failed", "")
		return
	}
	httpx.OK(w, map[string]any{"key": key, "url": url, "entries": len(entries)})
}
