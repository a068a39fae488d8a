package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/mobi/cms-console/internal/api"
	"github.com/mobi/cms-console/internal/api/metrics"
	"github.com/mobi/cms-console/internal/core/domain"
	"github.com/mobi/cms-console/internal/core/ports"
	"github.com/mobi/cms-console/internal/core/service"
	"github.com/mobi/cms-console/internal/infrastructure/backend"
	redisdb "github.com/mobi/cms-console/internal/infrastructure/db/redis"
	"github.com/mobi/cms-console/internal/infrastructure/storage"
	"github.com/mobi/cms-console/internal/infrastructure/transport"
	"github.com/mobi/cms-console/internal/pkg/config"
	"github.com/mobi/cms-console/pkg/logger"
)

// sessionStorage is a KeyValueStore that can also report its health.
type sessionStorage interface {
	ports.KeyValueStore
	ports.Pinger
}

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "cms-console",
	})
	log.Info().Str("env", cfg.Env).Str("api", cfg.API.BaseURL).Msg("console starting")

	ctx := context.Background()

	// 1. Session storage
	kv, closeStorage, err := openSessionStorage(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("storage", cfg.Session.Storage).Msg("session storage unavailable")
	}
	defer closeStorage()

	sessions := service.NewSessionStore(kv, log)
	unsubscribe := sessions.Subscribe(func(s domain.Session) {
		metrics.ObserveSession(s.Authenticated())
	})
	defer unsubscribe()
	if err := sessions.Restore(ctx); err != nil {
		log.Fatal().Err(err).Msg("restore session")
	}

	// 2. Backend client: credentials → request id → breaker → instrumented transport
	breaker := transport.NewBreaker(transport.BreakerConfig{
		Name:        "backend",
		MaxFailures: cfg.API.BreakerMaxFailures,
		OpenTimeout: cfg.API.BreakerOpenTimeout,
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BackendBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("backend breaker state changed")
		},
	}, promhttp.InstrumentRoundTripperDuration(metrics.BackendRequestDuration, http.DefaultTransport))

	httpClient := &http.Client{
		Timeout: cfg.API.Timeout,
		Transport: transport.NewPipeline(breaker,
			transport.BearerToken(sessions),
			transport.RequestID(),
			transport.AcceptJSON(),
		),
	}
	client := backend.NewClient(cfg.API.BaseURL, httpClient, log)

	// 3. Services
	auth := service.NewAuthService(client, sessions, log)
	loginForm := service.NewLoginController(auth, cfg.Routes.HomePath, cfg.Locale, cfg.API.Timeout, log)

	// 4. HTTP
	e := api.NewRouter(api.Deps{
		Auth:    auth,
		Login:   loginForm,
		Catalog: client,
		Storage: kv,
		Breaker: breaker,
		Routes: api.Routes{
			LoginPath:   cfg.Routes.LoginPath,
			HomePath:    cfg.Routes.HomePath,
			DeniedPath:  cfg.Routes.DeniedPath,
			AdminRoles:  roles(cfg.Routes.AdminRoles),
			EditorRoles: roles(cfg.Routes.EditorRoles),
		},
		LoginRateLimit: cfg.Login.RateLimit,
		LoginRateBurst: cfg.Login.RateBurst,
		Log:            log,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 5. Graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("console listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("console stopped")
}

func openSessionStorage(ctx context.Context, cfg *config.Config) (sessionStorage, func(), error) {
	if cfg.Session.Storage != "redis" {
		return storage.NewMemory(), func() {}, nil
	}
	client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, nil, err
	}
	return redisdb.NewKeyValueStore(client, cfg.Session.KeyPrefix), closer(client.Close, logger.Component("redis")), nil
}

func closer(fn func() error, log zerolog.Logger) func() {
	return func() {
		if err := fn(); err != nil {
			log.Warn().Err(err).Msg("close")
		}
	}
}

func roles(names []string) []domain.Role {
	out := make([]domain.Role, 0, len(names))
	for _, n := range names {
		out = append(out, domain.Role(n))
	}
	return out
}
