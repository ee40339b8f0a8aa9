package quota

import (
	"fmt"
	"time"

	"github.com/lysyi3m/linkedin-comb/app/database"
)

// Tracker computes the remaining daily fetch budget from the append-only
// fetch log. The log is the single source of truth: no counter is stored,
// exhaustion is an emergent property of counting today's entries.
type Tracker struct {
	fetchLogRepo database.FetchLogRepository
	dailyLimit   int
	now          func() time.Time
}

func NewTracker(fetchLogRepo database.FetchLogRepository, dailyLimit int) *Tracker {
	return &Tracker{
		fetchLogRepo: fetchLogRepo,
		dailyLimit:   dailyLimit,
		now:          time.Now,
	}
}

// Remaining returns the number of fetch attempts left today. rate_limited
// entries are excluded from consumption so that detecting exhaustion does
// not itself consume budget. The day boundary is the UTC calendar date.
func (t *Tracker) Remaining() (int, error) {
	count, err := t.fetchLogRepo.CountFetchLogSince(t.startOfDay(), database.FetchStatusRateLimited)
	if err != nil {
		return 0, fmt.Errorf("failed to count today's fetches: %w", err)
	}

	remaining := t.dailyLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

func (t *Tracker) CanProceed() (bool, error) {
	remaining, err := t.Remaining()
	if err != nil {
		return false, err
	}
	return remaining > 0, nil
}

// Record appends one scrape attempt to the audit log.
func (t *Tracker) Record(topic, region string, itemsFound int, status database.FetchStatus, errorMessage string) error {
	entry := database.FetchLogEntry{
		Topic:        topic,
		Region:       region,
		FetchedAt:    t.now().UTC(),
		ItemsFound:   itemsFound,
		Status:       status,
		ErrorMessage: errorMessage,
	}

	if err := t.fetchLogRepo.AppendFetchLog(entry); err != nil {
		return fmt.Errorf("failed to record fetch attempt: %w", err)
	}
	return nil
}

func (t *Tracker) startOfDay() time.Time {
	now := t.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
