package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/trio-tracker/internal/club"
	"github.com/mauv0809/trio-tracker/internal/metrics"
	"github.com/mauv0809/trio-tracker/internal/notifier"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the recurring Slack reports.
type Scheduler struct {
	cron     *cron.Cron
	store    club.Store
	notifier notifier.Notifier
	counters metrics.MetricsStore
}

// New registers the weekly leaderboard job on spec, a standard five-field cron
// expression evaluated in loc.
func New(spec string, loc *time.Location, store club.Store, notifier notifier.Notifier, counters metrics.MetricsStore) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(cron.WithLocation(loc), cron.WithLogger(cronLogger{})),
		store:    store,
		notifier: notifier,
		counters: counters,
	}

	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.PostWeeklyLeaderboard(ctx, false); err != nil {
			log.Error("Weekly leaderboard job failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid weekly report schedule %q: %w", spec, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		log.Info("Scheduled weekly leaderboard", "next", e.Next)
	}
}

// Stop stops the scheduler and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		log.Warn("Scheduler did not stop in time")
	}
}

// PostWeeklyLeaderboard posts the current work week's leaderboard to Slack.
func (s *Scheduler) PostWeeklyLeaderboard(ctx context.Context, dryRun bool) error {
	log.Info("Posting weekly leaderboard", "dryRun", dryRun)

	board, err := s.store.GetWeeklyLeaderboard(ctx)
	if err != nil {
		return fmt.Errorf("failed to get weekly leaderboard: %w", err)
	}
	if err := s.notifier.SendWeeklyLeaderboard(board, dryRun); err != nil {
		return fmt.Errorf("%w: weekly leaderboard: %w", notifier.ErrDeliveryFailed, err)
	}
	s.counters.Increment(metrics.KeyWeeklyReportsRun)
	return nil
}

// cronLogger routes cron's own logging through charmbracelet/log.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug(msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error(msg, append([]any{"error", err}, keysAndValues...)...)
}
