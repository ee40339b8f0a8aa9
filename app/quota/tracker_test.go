package quota

import (
	"fmt"
	"testing"
	"time"

	"github.com/lysyi3m/linkedin-comb/app/database"
)

// mockFetchLogRepository implements a simple mock for testing
type mockFetchLogRepository struct {
	count          int
	err            error
	appended       []database.FetchLogEntry
	lastSince      time.Time
	lastExcluded   database.FetchStatus
}

func (m *mockFetchLogRepository) AppendFetchLog(entry database.FetchLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.appended = append(m.appended, entry)
	return nil
}

func (m *mockFetchLogRepository) CountFetchLogSince(since time.Time, excludeStatus database.FetchStatus) (int, error) {
	m.lastSince = since
	m.lastExcluded = excludeStatus
	if m.err != nil {
		return 0, m.err
	}
	return m.count, nil
}

func (m *mockFetchLogRepository) RecentFetchLog(limit int) ([]database.FetchLogEntry, error) {
	return nil, nil
}

func TestTracker_Remaining(t *testing.T) {
	repo := &mockFetchLogRepository{count: 30}
	tracker := NewTracker(repo, 50)

	remaining, err := tracker.Remaining()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 20 {
		t.Errorf("Expected 20 remaining, got %d", remaining)
	}
}

func TestTracker_RemainingNeverNegative(t *testing.T) {
	repo := &mockFetchLogRepository{count: 80}
	tracker := NewTracker(repo, 50)

	remaining, err := tracker.Remaining()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if remaining != 0 {
		t.Errorf("Expected 0 remaining when over budget, got %d", remaining)
	}
}

func TestTracker_RemainingExcludesRateLimited(t *testing.T) {
	repo := &mockFetchLogRepository{}
	tracker := NewTracker(repo, 50)

	if _, err := tracker.Remaining(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if repo.lastExcluded != database.FetchStatusRateLimited {
		t.Errorf("Expected rate_limited entries to be excluded from consumption, got '%s'", repo.lastExcluded)
	}
}

func TestTracker_DayBoundaryIsUTCCalendarDate(t *testing.T) {
	repo := &mockFetchLogRepository{}
	tracker := NewTracker(repo, 50)
	tracker.now = func() time.Time {
		// 23:45 on June 1st in UTC+12 is 11:45 on June 1st UTC
		loc := time.FixedZone("NZST", 12*3600)
		return time.Date(2025, 6, 1, 23, 45, 0, 0, loc)
	}

	if _, err := tracker.Remaining(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !repo.lastSince.Equal(expected) {
		t.Errorf("Expected count window starting at %v, got %v", expected, repo.lastSince)
	}
}

func TestTracker_CanProceed(t *testing.T) {
	tests := []struct {
		count    int
		limit    int
		expected bool
	}{
		{0, 50, true},
		{49, 50, true},
		{50, 50, false},
		{51, 50, false},
	}

	for _, tt := range tests {
		tracker := NewTracker(&mockFetchLogRepository{count: tt.count}, tt.limit)
		ok, err := tracker.CanProceed()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if ok != tt.expected {
			t.Errorf("CanProceed with count=%d limit=%d: expected %v, got %v", tt.count, tt.limit, tt.expected, ok)
		}
	}
}

func TestTracker_Record(t *testing.T) {
	repo := &mockFetchLogRepository{}
	tracker := NewTracker(repo, 50)
	tracker.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	err := tracker.Record("rma", "nz", 3, database.FetchStatusSuccess, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(repo.appended) != 1 {
		t.Fatalf("Expected 1 appended entry, got %d", len(repo.appended))
	}

	entry := repo.appended[0]
	if entry.Topic != "rma" || entry.Region != "nz" || entry.ItemsFound != 3 {
		t.Errorf("Unexpected entry fields: %+v", entry)
	}
	if entry.Status != database.FetchStatusSuccess {
		t.Errorf("Expected success status, got %s", entry.Status)
	}
	if !entry.FetchedAt.Equal(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected entry timestamp: %v", entry.FetchedAt)
	}
}

func TestTracker_RecordError(t *testing.T) {
	repo := &mockFetchLogRepository{err: fmt.Errorf("disk full")}
	tracker := NewTracker(repo, 50)

	if err := tracker.Record("rma", "nz", 0, database.FetchStatusError, "boom"); err == nil {
		t.Error("Expected error when the repository fails")
	}
}
