package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mentorloop/backend/internal/adapters/cache"
	"github.com/mentorloop/backend/internal/adapters/database"
	"github.com/mentorloop/backend/internal/adapters/providers/scheduling"
	"github.com/mentorloop/backend/internal/api/handlers"
	"github.com/mentorloop/backend/internal/api/routes"
	"github.com/mentorloop/backend/internal/application/services"
	"github.com/mentorloop/backend/internal/domain/providers"
	"github.com/mentorloop/backend/internal/infrastructure/clients/postgres"
	"github.com/mentorloop/backend/internal/infrastructure/clients/redis"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
	"github.com/mentorloop/backend/internal/infrastructure/scheduler"
	"github.com/mentorloop/backend/pkg/config"
)

func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)
	log := observability.GetLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Msg("PostgreSQL client initialized")

	// The application works without Redis; availability caching falls back
	// to the in-process store.
	var cacheProvider providers.CacheProvider
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable; using in-memory availability cache")
		cacheProvider = cache.NewMemoryAdapter()
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		log.Info().Msg("Redis client initialized")
	}

	// Adapters
	bookingAdapter := database.NewBookingAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)
	mentorAdapter := database.NewMentorAdapter(pgClient)

	if err := cfg.Scheduling.Validate(); err != nil {
		if cfg.Server.Env == "development" {
			log.Warn().Err(err).Msg("using mock scheduling provider")
		} else {
			log.Fatal().Err(err).Msg("scheduling provider is not configured")
		}
	}
	schedulingProvider := scheduling.NewSchedulingProvider(&cfg.Scheduling)

	// Services
	availabilityService := services.NewAvailabilityService(schedulingProvider, cacheProvider, &cfg.Cache, metrics)
	bookingService := services.NewBookingService(schedulingProvider, bookingAdapter, userAdapter, mentorAdapter)
	syncService := services.NewSyncService(schedulingProvider, bookingAdapter, userAdapter, mentorAdapter, &cfg.Sync, metrics)

	// Periodic bulk reconciliation
	var syncScheduler *scheduler.SyncScheduler
	if cfg.Sync.Enabled {
		syncScheduler = scheduler.NewSyncScheduler(syncService, cfg.Sync.CronSpec)
		if err := syncScheduler.Start(); err != nil {
			log.Warn().Err(err).Msg("failed to start sync scheduler")
		} else {
			defer syncScheduler.Stop()
			log.Info().Str("spec", cfg.Sync.CronSpec).Msg("sync scheduler started")
		}
	}

	// Handlers and router
	router := routes.NewRouter(
		handlers.NewAvailabilityHandler(availabilityService),
		handlers.NewBookingHandler(bookingService),
		handlers.NewWebhookHandler(syncService),
		handlers.NewSyncHandler(syncService),
		handlers.NewMentorHandler(mentorAdapter),
		metrics,
	)
	handler := router.SetupRoutes()

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", serverAddr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("error during server shutdown")
	}

	log.Info().Msg("server stopped")
}
