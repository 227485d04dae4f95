package router

import (
	"database/sql"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/5w1tchy/strength-api/internal/api/handlers/admin"
	"github.com/5w1tchy/strength-api/internal/api/handlers/analysis"
	"github.com/5w1tchy/strength-api/internal/api/handlers/sessions"
	mw "github.com/5w1tchy/strength-api/internal/api/middlewares"
	"github.com/5w1tchy/strength-api/internal/metrics/analysisqueue"
	jwtutil "github.com/5w1tchy/strength-api/internal/security/jwt"
	"github.com/5w1tchy/strength-api/internal/security/password"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/strength"
)

// Deps are the collaborators the routes need. DB, RDB, Events and Exports
// may be nil; the routes that need them degrade to 503.
type Deps struct {
	Analyzer     *strength.Analyzer
	Sessions     *session.Service
	Issuer       *jwtutil.Issuer
	Hasher       *password.Hasher
	AdminKeyHash string
	DB           *sql.DB
	RDB          *redis.Client
	Events       *analysisqueue.Queue
	Exports      sessions.Exporter
	MaxRunes     int
}

func Router(d Deps) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", analysis.Healthz)

	an := &analysis.Handler{Analyzer: d.Analyzer, Sessions: d.Sessions, Events: d.Events, MaxRunes: d.MaxRunes}
	optional := mw.OptionalSession(d.Issuer)
	mux.Handle("POST /v1/analyze", optional(http.HandlerFunc(an.Analyze)))
	mux.HandleFunc("GET /v1/crack-time", an.CrackTime)
	mux.HandleFunc("GET /v1/passphrase", an.Passphrase)

	sh := sessions.NewHandler(d.Issuer, d.Sessions, d.Exports, d.MaxRunes)
	var rdb redis.Cmdable
	if d.RDB != nil {
		rdb = d.RDB
	}
	mux.Handle("POST /v1/sessions", mw.SessionIssueLimit(rdb)(http.HandlerFunc(sh.Create)))
	required := mw.RequireSession(d.Issuer)
	mux.Handle("POST /v1/sessions/history", required(http.HandlerFunc(sh.Record)))
	mux.Handle("GET /v1/sessions/history", required(http.HandlerFunc(sh.History)))
	mux.Handle("GET /v1/sessions/achievements", required(http.HandlerFunc(sh.Achievements)))
	mux.Handle("POST /v1/sessions/export", required(http.HandlerFunc(sh.Export)))

	ah := admin.NewHandler(d.DB, rdb, d.Events)
	mux.Handle("GET /v1/admin/stats", mw.RequireAdminKey(d.Hasher, d.AdminKeyHash)(http.HandlerFunc(ah.Stats)))

	return mux
}

// Secure wraps the mux in the standard middleware chain. Redis-backed rate
// limits are added only when rdb is non-nil.
func Secure(h http.Handler, rdb *redis.Client) http.Handler {
	mws := []Middleware{
		mw.RequestID,
		mw.Recovery,
		mw.ResponseTime,
		mw.Cors(mw.OriginsFromEnv()),
		mw.HPP(mw.DefaultHPPOptions()),
	}
	if rdb != nil {
		lim := mw.RateLimitsFromEnv()
		mws = append(mws,
			mw.NewRedisTokenBucket(rdb, lim.RatePerSecond, lim.Burst, mw.PerIPKey("tb")).Middleware,
			mw.NewRedisSlidingWindow(rdb, lim.WindowLimit, lim.Window, mw.PerIPKey("sw")).Middleware,
		)
	}
	mws = append(mws,
		mw.Compression,
		mw.SecurityHeaders,
		mw.BodySizeLimit(mw.BodyLimitFromEnv()),
	)
	return Chain(h, mws...)
}
