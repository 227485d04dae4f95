package main

import (
	"context"
	"crypto/tls"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/5w1tchy/strength-api/internal/api/handlers/analysis"
	"github.com/5w1tchy/strength-api/internal/api/router"
	"github.com/5w1tchy/strength-api/internal/logging"
	"github.com/5w1tchy/strength-api/internal/maintenance"
	"github.com/5w1tchy/strength-api/internal/metrics/analysisqueue"
	"github.com/5w1tchy/strength-api/internal/security/fingerprint"
	jwtutil "github.com/5w1tchy/strength-api/internal/security/jwt"
	"github.com/5w1tchy/strength-api/internal/security/password"
	"github.com/5w1tchy/strength-api/internal/session"
	"github.com/5w1tchy/strength-api/internal/storage/s3"
	"github.com/5w1tchy/strength-api/internal/validate"
)

func main() {
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load()

	appEnv := os.Getenv("APP_ENV")
	flush, err := logging.Install(appEnv)
	if err != nil {
		panic(err)
	}
	defer flush()

	if err := run(appEnv); err != nil {
		zap.L().Fatal("server exited", zap.Error(err))
	}
}

func run(appEnv string) error {
	log := zap.L()

	if err := validate.Env(); err != nil {
		return err
	}
	for _, w := range validate.HardeningWarnings(appEnv) {
		log.Warn("hardening", zap.String("warning", w))
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn, Environment: appEnv}); err != nil {
			log.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := connectRedis()
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
	}

	db, err := connectDB(ctx)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	exports, err := s3.FromEnv(ctx)
	switch {
	case errors.Is(err, s3.ErrNotConfigured):
		log.Info("s3 not configured; exports disabled")
	case err != nil:
		return err
	}

	an, err := buildAnalyzer(ctx, exports)
	if err != nil {
		return err
	}

	store, err := historyStore(validate.HistoryBackend(), db, rdb)
	if err != nil {
		return err
	}
	fp, err := fingerprint.FromEnv()
	if err != nil {
		return err
	}
	maxEntries := validate.PositiveInt(os.Getenv("HISTORY_MAX_ENTRIES"), 50)
	svc := session.NewService(an, store, fp, maxEntries)

	var events *analysisqueue.Queue
	if db != nil {
		events = analysisqueue.Start(db, 4096, 2)
		maintenance.StartRetention(ctx, db, maintenance.LoadRetentionConfig())
	}

	deps := router.Deps{
		Analyzer:     an,
		Sessions:     svc,
		Issuer:       jwtutil.NewIssuer(jwtutil.LoadConfig()),
		Hasher:       password.FromEnv(),
		AdminKeyHash: os.Getenv("ADMIN_KEY_HASH"),
		DB:           db,
		RDB:          rdb,
		Events:       events,
		MaxRunes:     validate.PositiveInt(os.Getenv("MAX_PASSWORD_RUNES"), analysis.DefaultMaxRunes),
	}
	if exports != nil {
		deps.Exports = exports
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "3000"
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router.Secure(router.Router(deps), rdb),
		TLSConfig:         &tls.Config{MinVersion: tls.VersionTLS12},
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cert, key := os.Getenv("TLS_CERT"), os.Getenv("TLS_KEY")
		log.Info("server listening", zap.String("addr", server.Addr), zap.Bool("tls", cert != "" && key != ""))
		if cert != "" && key != "" {
			errCh <- server.ListenAndServeTLS(cert, key)
			return
		}
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	events.Shutdown()
	return err
}
