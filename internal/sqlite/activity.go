package sqlite

import (
	"context"
	"fmt"

	"github.com/jnkim/guildboard/internal/domain/activity"
)

// ActivityRepository implements activity.Repository for SQLite
type ActivityRepository struct {
	db *DB
}

// NewActivityRepository creates a new ActivityRepository
func NewActivityRepository(db *DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Log appends an activity entry
func (r *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	query := `
		INSERT INTO activity_log (schedule_id, user_doc_id, activity_type, summary)
		VALUES (?, ?, ?, ?)
	`

	var userDocID any
	if entry.UserDocID != "" {
		userDocID = entry.UserDocID
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ScheduleID, userDocID, entry.Type, entry.Summary)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}

	return nil
}

// ListBySchedule returns entries for one schedule, newest first
func (r *ActivityRepository) ListBySchedule(ctx context.Context, scheduleID string, limit, offset int) ([]activity.Entry, error) {
	query := `
		SELECT id, schedule_id, COALESCE(user_doc_id, ''), activity_type, summary, created_at
		FROM activity_log
		WHERE schedule_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, query, scheduleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var entries []activity.Entry
	for rows.Next() {
		var e activity.Entry
		if err := rows.Scan(&e.ID, &e.ScheduleID, &e.UserDocID, &e.Type, &e.Summary, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activity rows: %w", err)
	}

	return entries, nil
}
