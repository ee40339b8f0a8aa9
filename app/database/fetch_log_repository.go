package database

import (
	"fmt"
	"time"
)

type fetchLogRepository struct {
	db *DB
}

func NewFetchLogRepository(db *DB) FetchLogRepository {
	return &fetchLogRepository{db: db}
}

// AppendFetchLog records one scrape attempt. Entries are never updated or
// deleted; the accumulated log is the rate limiter's only state.
func (r *fetchLogRepository) AppendFetchLog(entry FetchLogEntry) error {
	fetchedAt := entry.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	_, err := r.db.Exec(`
		INSERT INTO fetch_log (topic, region, fetched_at, items_found, status, error_message)
		VALUES (?, ?, ?, ?, ?, ?)
	`, entry.Topic, entry.Region, formatTime(fetchedAt), entry.ItemsFound,
		string(entry.Status), nullString(entry.ErrorMessage))

	if err != nil {
		return fmt.Errorf("failed to append fetch log entry: %w", err)
	}

	return nil
}

func (r *fetchLogRepository) CountFetchLogSince(since time.Time, excludeStatus FetchStatus) (int, error) {
	query := `SELECT COUNT(*) FROM fetch_log WHERE fetched_at >= ?`
	args := []any{formatTime(since)}

	if excludeStatus != "" {
		query += ` AND status != ?`
		args = append(args, string(excludeStatus))
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count fetch log entries: %w", err)
	}

	return count, nil
}

func (r *fetchLogRepository) RecentFetchLog(limit int) ([]FetchLogEntry, error) {
	rows, err := r.db.Query(`
		SELECT id, topic, region, fetched_at, items_found, status, COALESCE(error_message, '')
		FROM fetch_log
		ORDER BY fetched_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent fetch log entries: %w", err)
	}
	defer rows.Close()

	var entries []FetchLogEntry
	for rows.Next() {
		var entry FetchLogEntry
		var fetchedAt string
		var status string
		err := rows.Scan(&entry.ID, &entry.Topic, &entry.Region, &fetchedAt,
			&entry.ItemsFound, &status, &entry.ErrorMessage)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fetch log entry: %w", err)
		}
		entry.FetchedAt = parseTime(fetchedAt)
		entry.Status = FetchStatus(status)
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
