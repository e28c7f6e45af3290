package activity

import "context"

// Repository manages activity log persistence.
type Repository interface {
	Log(ctx context.Context, entry *Entry) error
	ListBySchedule(ctx context.Context, scheduleID string, limit, offset int) ([]Entry, error)
}
