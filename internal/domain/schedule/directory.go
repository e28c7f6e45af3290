package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/jnkim/guildboard/internal/repository"
)

// Directory enumerates schedules for discovery. It is read-only with respect
// to membership; callers must not mutate returned snapshots in place.
type Directory struct {
	schedules Repository
}

// NewDirectory creates a new schedule directory.
func NewDirectory(schedules Repository) *Directory {
	return &Directory{schedules: schedules}
}

// Get returns one schedule by id.
func (d *Directory) Get(ctx context.Context, id string) (*Schedule, error) {
	sched, err := d.schedules.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		return nil, fmt.Errorf("getting schedule: %w", err)
	}
	return sched, nil
}

// ListByDate returns all schedules on the given date.
func (d *Directory) ListByDate(ctx context.Context, date string) ([]Schedule, error) {
	scheds, err := d.schedules.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("listing schedules by date: %w", err)
	}
	return scheds, nil
}

// ListAll returns every schedule.
func (d *Directory) ListAll(ctx context.Context) ([]Schedule, error) {
	scheds, err := d.schedules.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing schedules: %w", err)
	}
	return scheds, nil
}
