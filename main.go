package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"loan-aggregator/backend"
	"loan-aggregator/config"
	httpLayer "loan-aggregator/http"
	"loan-aggregator/logger"
	"loan-aggregator/repository"
	"loan-aggregator/scheduler"
	"loan-aggregator/service"
)

const quoteHistorySize = 500

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(logger.Config{Level: "info"})
		bootLog.Fatal().Err(err).Msg("Invalid configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	sched := scheduler.New(log)

	store, closeStore, err := openCacheStore(cfg, sched, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.CacheDriver).Msg("Failed to open cache store")
	}
	defer closeStore()

	sched.Start()
	defer sched.Stop()

	client := backend.NewClient(cfg.BackendURL, log, backend.WithTimeout(cfg.BackendTimeout))

	quoteRepo := repository.NewQuoteRepositoryMemory(quoteHistorySize)
	loanService := service.NewLoanService(quoteRepo, log)
	termService := service.NewTermRecommendationService(log)

	lenderCache := service.NewLenderCache(store, log, service.WithTTL(cfg.CacheTTL))
	lenderService := service.NewLenderService(client, lenderCache, log)
	eligibilityService := service.NewEligibilityService(lenderService, log)
	leadService := service.NewLeadService(client, log)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitCapacity, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	handlers := httpLayer.Handlers{
		Loan:        httpLayer.NewLoanHandler(loanService, log),
		Term:        httpLayer.NewTermRecommendationHandler(termService, log),
		Lender:      httpLayer.NewLenderHandler(lenderService, log),
		Live:        httpLayer.NewLiveHandler(lenderService, cfg.DebounceWindow, cfg.CORSOrigins, log),
		Eligibility: httpLayer.NewEligibilityHandler(eligibilityService, log),
		Lead:        httpLayer.NewLeadHandler(leadService, log),
		Auth:        httpLayer.NewAuthHandler(client, log),
		Admin:       httpLayer.NewAdminHandler(client, loanService, log),
	}
	if !cfg.AdminEnabled() {
		log.Warn().Msg("ADMIN_JWT_SECRET not set, admin routes disabled")
	}

	router := httpLayer.NewRouter(httpLayer.RouterConfig{
		CORSOrigins:    cfg.CORSOrigins,
		AdminJWTSecret: cfg.AdminJWTSecret,
	}, handlers, rateLimiter, log)

	// No WriteTimeout: it would cut live websocket sessions. Regular routes
	// are bounded by the router's request timeout.
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().
			Int("port", cfg.Port).
			Str("backend", cfg.BackendURL).
			Str("cache", cfg.CacheDriver).
			Msg("Server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Error().Err(err).Msg("Server failed")
		return
	case <-quit:
		log.Info().Msg("Shutting down server...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server exited")
}

// openCacheStore builds the lender cache backend named by CACHE_DRIVER.
// staleCacheAge bounds how long entries of abandoned sessions are kept by
// the persistent stores.
func staleCacheAge(cfg *config.Config) time.Duration {
	return max(24*time.Hour, 2*cfg.CacheTTL)
}

func openCacheStore(cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) (repository.CacheRepository, func(), error) {
	noClose := func() {}

	switch cfg.CacheDriver {
	case config.CacheDriverNone:
		return repository.NewNoopCache(), noClose, nil

	case config.CacheDriverRedis:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rc, err := repository.NewRedisCache(ctx, cfg.RedisURL,
			repository.WithBackstopTTL(staleCacheAge(cfg)))
		if err != nil {
			return nil, nil, err
		}
		return rc, closer(rc, log), nil

	case config.CacheDriverSQLite:
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, nil, err
		}
		sc, err := repository.OpenSQLiteCache(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := sched.AddJob("@hourly", repository.NewSQLiteCleanupJob(sc, staleCacheAge(cfg), log)); err != nil {
			sc.Close()
			return nil, nil, err
		}
		return sc, closer(sc, log), nil

	default:
		return repository.NewMemoryCache(cfg.CacheMaxEntries), noClose, nil
	}
}

func closer(c io.Closer, log zerolog.Logger) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close cache store")
		}
	}
}
