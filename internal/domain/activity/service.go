package activity

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// Service handles activity log queries.
type Service struct {
	activities Repository
	logger     *slog.Logger
}

// NewService creates a new activity service.
func NewService(activities Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{activities: activities, logger: logger}
}

// ListBySchedule returns audit entries for one schedule, newest first.
func (s *Service) ListBySchedule(ctx context.Context, scheduleID string, limit, offset int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries, err := s.activities.ListBySchedule(ctx, scheduleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing activity: %w", err)
	}
	return entries, nil
}
