package tasks

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler fires the orchestrator on a fixed multi-hour cadence. A tick
// that lands while a cycle is still running is discarded by the
// orchestrator's single-flight guard.
type Scheduler struct {
	cron          *cron.Cron
	intervalHours int
}

func NewScheduler(orchestrator *Orchestrator, intervalHours int) (*Scheduler, error) {
	c := cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger)))

	spec := fmt.Sprintf("0 */%d * * *", intervalHours)
	if _, err := c.AddFunc(spec, func() {
		orchestrator.Trigger()
	}); err != nil {
		return nil, fmt.Errorf("failed to schedule fetch cycle: %w", err)
	}

	return &Scheduler{
		cron:          c,
		intervalHours: intervalHours,
	}, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	slog.Info("Scheduler started", "interval_hours", s.intervalHours)
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	slog.Info("Scheduler stopped")
}
