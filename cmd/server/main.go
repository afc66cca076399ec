package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"bobadash/internal/airbridge"
	"bobadash/internal/authz"
	"bobadash/internal/event"
	eventhandler "bobadash/internal/event/handler"
	"bobadash/internal/grant"
	granthandler "bobadash/internal/grant/handler"
	grantmetrics "bobadash/internal/grant/metrics"
	"bobadash/internal/health"
	jwttoken "bobadash/internal/jwt_token"
	"bobadash/internal/platform/config"
	"bobadash/internal/platform/httpserver"
	"bobadash/internal/platform/logger"
	platformredis "bobadash/internal/platform/redis"
	sessionhandler "bobadash/internal/session/handler"
	"bobadash/internal/submission"
	submissionhandler "bobadash/internal/submission/handler"
	submissionmetrics "bobadash/internal/submission/metrics"
	"bobadash/pkg/platform/audit"
	auditmemory "bobadash/pkg/platform/audit/store/memory"
	auditworker "bobadash/pkg/platform/audit/worker"
	mwadmin "bobadash/pkg/platform/middleware/admin"
	mwauth "bobadash/pkg/platform/middleware/auth"
	mwmetadata "bobadash/pkg/platform/middleware/metadata"
	mwrequest "bobadash/pkg/platform/middleware/request"
	mwrequesttime "bobadash/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}

	var cooldowns grant.CooldownStore
	var healthRedis health.Checker
	if redisClient != nil {
		cooldowns = grant.NewRedisStore(redisClient.Client)
		healthRedis = redisClient
		defer redisClient.Close()
	} else {
		log.Warn("redis not configured, using in-memory cooldown store")
		cooldowns = grant.NewMemoryStore()
	}

	auditInbox := make(chan audit.Event, 256)
	auditStore := auditmemory.NewInMemoryStore()
	auditor := audit.NewChannelPublisher(auditInbox)

	upstream := airbridge.New(cfg.Airbridge, log)
	authorizer := authz.New(cfg.AdminSlackIDs)
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "bobadash", "bobadash-api")

	submissionSvc := submission.NewService(upstream, authorizer, cooldowns, auditor, submissionmetrics.New())
	eventSvc := event.NewService(upstream, authorizer, auditor)
	notifier := grant.NewSlackNotifier(cfg.Slack.WebhookURL, log)
	grantSvc := grant.NewService(notifier, cooldowns, auditor, grantmetrics.New(), log)

	router := chi.NewRouter()
	router.Use(mwrequest.ID)
	router.Use(mwmetadata.ClientMetadata)
	router.Use(mwrequesttime.Middleware)

	router.Method(http.MethodGet, "/healthz", health.New(healthRedis))
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(mwadmin.RequireOpsToken(cfg.OpsTokenHash, log))
			sessionhandler.New(tokens, log).Register(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(mwauth.RequireAuth(tokens, log))
			eventhandler.New(eventSvc, log).Register(r)
			submissionhandler.New(submissionSvc, log).Register(r)
			granthandler.New(grantSvc, log).Register(r)
		})
	})

	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return auditworker.NewWorker(auditStore, auditInbox).Run(gctx)
	})

	g.Go(func() error {
		log.Info("starting bobadash", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
