// Command sync runs one bulk reconciliation pass and exits. Intended for
// cron-style scheduling outside the API process and for manual catch-up runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/mentorloop/backend/internal/adapters/database"
	"github.com/mentorloop/backend/internal/adapters/providers/scheduling"
	"github.com/mentorloop/backend/internal/application/services"
	"github.com/mentorloop/backend/internal/infrastructure/clients/postgres"
	"github.com/mentorloop/backend/internal/infrastructure/observability"
	"github.com/mentorloop/backend/pkg/config"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName+"-sync", cfg.Server.Env)
	log := observability.GetLogger()

	if err := cfg.Scheduling.Validate(); err != nil {
		log.Fatal().Err(err).Msg("scheduling provider is not configured")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()

	syncService := services.NewSyncService(
		scheduling.NewSchedulingProvider(&cfg.Scheduling),
		database.NewBookingAdapter(pgClient),
		database.NewUserAdapter(pgClient),
		database.NewMentorAdapter(pgClient),
		&cfg.Sync,
		nil,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	summary, err := syncService.SyncBulk(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("bulk reconciliation failed")
	}

	out, _ := json.Marshal(summary)
	fmt.Println(string(out))
}
