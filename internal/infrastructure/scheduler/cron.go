package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/mentorloop/backend/internal/domain/entities"
)

// BulkSyncer is the slice of the sync service the scheduler needs.
type BulkSyncer interface {
	SyncBulk(ctx context.Context) (*entities.SyncSummary, error)
}

// SyncScheduler runs the rolling-window reconciliation pass on a cron
// schedule so orphaned provider appointments are adopted without operator
// action.
type SyncScheduler struct {
	cron    *cron.Cron
	syncer  BulkSyncer
	spec    string
	timeout time.Duration
}

// NewSyncScheduler creates a scheduler for the bulk reconciliation pass.
func NewSyncScheduler(syncer BulkSyncer, spec string) *SyncScheduler {
	return &SyncScheduler{
		cron:    cron.New(),
		syncer:  syncer,
		spec:    spec,
		timeout: 5 * time.Minute,
	}
}

// Start registers the job and starts the cron loop in its own goroutine.
func (s *SyncScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.run)
	if err != nil {
		return err
	}
	s.cron.Start()
	log.Info().Str("spec", s.spec).Msg("bulk sync scheduler started")
	return nil
}

// Stop stops the cron loop and waits for a running pass to finish.
func (s *SyncScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SyncScheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	summary, err := s.syncer.SyncBulk(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled bulk sync failed")
		return
	}
	log.Info().
		Int("total", summary.TotalAppointments).
		Int("synced", summary.SyncedAppointments).
		Int("skipped", summary.SkippedAppointments).
		Int("errors", summary.ErrorCount).
		Msg("scheduled bulk sync completed")
}
