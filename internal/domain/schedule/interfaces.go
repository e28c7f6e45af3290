package schedule

import (
	"context"

	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/jnkim/guildboard/internal/domain/member"
)

// Repository provides persistence for schedules. Update must be conditional
// on expectedRevision and report repository.ErrConflict on mismatch.
type Repository interface {
	Create(ctx context.Context, sched *Schedule) error
	Get(ctx context.Context, id string) (*Schedule, error)
	Update(ctx context.Context, sched *Schedule, expectedRevision int64) error
	Delete(ctx context.Context, id string) error
	ListByDate(ctx context.Context, date string) ([]Schedule, error)
	ListAll(ctx context.Context) ([]Schedule, error)
}

// MemberDirectory resolves parent references for sub-character participants.
type MemberDirectory interface {
	Get(ctx context.Context, userDocID string) (*member.Member, error)
}

// ActivityLog records schedule mutations for auditing.
type ActivityLog interface {
	Log(ctx context.Context, entry *activity.Entry) error
}
