package schedule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/jnkim/guildboard/internal/repository"
)

const (
	// conflictAttempts bounds the optimistic-write retry loop.
	conflictAttempts = 5
	// storageAttempts bounds retries of a failing store call.
	storageAttempts = 3

	baseBackoff = 10 * time.Millisecond
)

// Service is the membership coordinator: it applies ledger mutations against
// the shared store with a read-validate-conditional-write-retry protocol, so
// concurrent joins are serialized by the revision check instead of silently
// overwriting each other.
type Service struct {
	schedules  Repository
	members    MemberDirectory
	activities ActivityLog
	logger     *slog.Logger
}

// NewService creates a new schedule service.
func NewService(schedules Repository, members MemberDirectory, activities ActivityLog, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		schedules:  schedules,
		members:    members,
		activities: activities,
		logger:     logger,
	}
}

// CreateRequest describes a schedule creation request.
type CreateRequest struct {
	Author          Participant
	MaxParticipants int
	Fields          Fields
}

// Create creates a schedule with the author enrolled as first participant.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Schedule, error) {
	if err := s.validateParticipant(ctx, req.Author); err != nil {
		return nil, err
	}

	sched, err := New(req.Author, req.MaxParticipants, req.Fields)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sched.ID = uuid.NewString()
	sched.CreatedAt = now
	sched.ModifiedAt = now
	sched.Revision = 1

	if err := s.withStorageRetry(ctx, func() error {
		return s.schedules.Create(ctx, &sched)
	}); err != nil {
		return nil, err
	}

	s.logActivity(ctx, activity.TypeScheduleCreated, sched.ID, req.Author.UserDocID,
		fmt.Sprintf("schedule %q created with %d slots", sched.Title, sched.MaxParticipants))
	s.logger.Info("schedule created", "schedule_id", sched.ID, "author", req.Author.UserDocID)
	return &sched, nil
}

// Join admits a participant into an open slot.
func (s *Service) Join(ctx context.Context, scheduleID string, p Participant) error {
	if err := s.validateParticipant(ctx, p); err != nil {
		return err
	}

	updated, err := s.mutate(ctx, scheduleID, func(cur Schedule) (Schedule, error) {
		return cur.WithParticipantAdded(p)
	})
	if err != nil {
		return err
	}

	s.logActivity(ctx, activity.TypeParticipantJoined, scheduleID, p.UserDocID,
		fmt.Sprintf("%s joined", p.UserID))
	s.logger.Info("participant joined", "schedule_id", scheduleID,
		"user_doc_id", p.UserDocID, "occupancy", updated.Occupancy())
	return nil
}

// Leave removes a participant's slot. The author cannot leave.
func (s *Service) Leave(ctx context.Context, scheduleID, userDocID string) error {
	updated, err := s.mutate(ctx, scheduleID, func(cur Schedule) (Schedule, error) {
		return cur.WithParticipantRemoved(userDocID)
	})
	if err != nil {
		return err
	}

	s.logActivity(ctx, activity.TypeParticipantLeft, scheduleID, userDocID, "participant left")
	s.logger.Info("participant left", "schedule_id", scheduleID,
		"user_doc_id", userDocID, "occupancy", updated.Occupancy())
	return nil
}

// Substitute atomically replaces one slot's occupant. Remove and add are
// evaluated against a single snapshot and committed by one conditional
// write, so no intermediate state is ever durable.
func (s *Service) Substitute(ctx context.Context, scheduleID, oldUserDocID string, p Participant) error {
	if err := s.validateParticipant(ctx, p); err != nil {
		return err
	}

	_, err := s.mutate(ctx, scheduleID, func(cur Schedule) (Schedule, error) {
		return cur.WithParticipantSubstituted(oldUserDocID, p)
	})
	if err != nil {
		return err
	}

	s.logActivity(ctx, activity.TypeParticipantSubstituted, scheduleID, p.UserDocID,
		fmt.Sprintf("%s substituted for %s", p.UserID, oldUserDocID))
	s.logger.Info("participant substituted", "schedule_id", scheduleID,
		"old_user_doc_id", oldUserDocID, "new_user_doc_id", p.UserDocID)
	return nil
}

// UpdateFields merges a partial update of the non-membership fields.
func (s *Service) UpdateFields(ctx context.Context, scheduleID string, patch FieldsPatch) error {
	_, err := s.mutate(ctx, scheduleID, func(cur Schedule) (Schedule, error) {
		return cur.WithFieldsUpdated(patch)
	})
	if err != nil {
		return err
	}

	s.logActivity(ctx, activity.TypeScheduleUpdated, scheduleID, "", "schedule fields updated")
	s.logger.Info("schedule updated", "schedule_id", scheduleID)
	return nil
}

// Delete destroys a schedule and its slot list.
func (s *Service) Delete(ctx context.Context, scheduleID string) error {
	err := s.withStorageRetry(ctx, func() error {
		return s.schedules.Delete(ctx, scheduleID)
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrScheduleNotFound
		}
		return err
	}

	s.logActivity(ctx, activity.TypeScheduleDeleted, scheduleID, "", "schedule deleted")
	s.logger.Info("schedule deleted", "schedule_id", scheduleID)
	return nil
}

// mutate runs the conditional-write protocol: snapshot the ledger with its
// revision, apply the pure transformation, then write back only if the
// stored revision is unchanged. Validation failures surface immediately
// without a write; revision conflicts retry with jittered backoff until the
// budget runs out.
func (s *Service) mutate(ctx context.Context, id string, apply func(Schedule) (Schedule, error)) (*Schedule, error) {
	for attempt := 0; ; attempt++ {
		var cur *Schedule
		err := s.withStorageRetry(ctx, func() error {
			var gerr error
			cur, gerr = s.schedules.Get(ctx, id)
			return gerr
		})
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrScheduleNotFound
			}
			return nil, err
		}

		next, err := apply(*cur)
		if err != nil {
			return nil, err
		}
		next.ModifiedAt = time.Now()
		next.Revision = cur.Revision + 1

		err = s.withStorageRetry(ctx, func() error {
			return s.schedules.Update(ctx, &next, cur.Revision)
		})
		if err == nil {
			return &next, nil
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrScheduleNotFound
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}
		if attempt+1 >= conflictAttempts {
			return nil, ErrConcurrentModification
		}
		if err := sleep(ctx, backoff(attempt)); err != nil {
			return nil, err
		}
	}
}

// withStorageRetry retries a failing store call a few times before giving
// up with ErrStorageUnavailable. Not-found, conflict and constraint errors
// are contract results, not outages, and pass through untouched.
func (s *Service) withStorageRetry(ctx context.Context, op func() error) error {
	var err error
	for attempt := 0; attempt < storageAttempts; attempt++ {
		err = op()
		if err == nil || !isTransient(err) {
			return err
		}
		s.logger.Warn("store call failed, retrying", "attempt", attempt+1, "error", err)
		if serr := sleep(ctx, backoff(attempt)); serr != nil {
			return serr
		}
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

func isTransient(err error) bool {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrDuplicate),
		errors.Is(err, repository.ErrForeignKeyViolation):
		return false
	}
	return true
}

func backoff(attempt int) time.Duration {
	d := baseBackoff << attempt
	return d/2 + time.Duration(rand.Int63n(int64(d/2+1)))
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// validateParticipant checks the record shape and, for sub-characters,
// resolves the parent reference against the member directory.
func (s *Service) validateParticipant(ctx context.Context, p Participant) error {
	if err := p.validate(); err != nil {
		return err
	}
	if !p.IsSub() || s.members == nil {
		return nil
	}

	parent, err := s.members.Get(ctx, p.ParentUserDocID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrParentNotFound
		}
		return fmt.Errorf("loading parent character: %w", err)
	}
	if !parent.IsMain() {
		return ErrParentNotMain
	}
	return nil
}

func (s *Service) logActivity(ctx context.Context, typ activity.Type, scheduleID, userDocID, summary string) {
	if s.activities == nil {
		return
	}
	err := s.activities.Log(ctx, &activity.Entry{
		ScheduleID: scheduleID,
		UserDocID:  userDocID,
		Type:       typ,
		Summary:    summary,
	})
	if err != nil {
		s.logger.Warn("activity log failed", "schedule_id", scheduleID, "type", typ, "error", err)
	}
}
