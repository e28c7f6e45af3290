package mocks

import (
	"context"

	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/domain/schedule"
	"github.com/stretchr/testify/mock"
)

// ScheduleRepository is a mock for schedule.Repository.
type ScheduleRepository struct {
	mock.Mock
}

func (m *ScheduleRepository) Create(ctx context.Context, sched *schedule.Schedule) error {
	args := m.Called(ctx, sched)
	return args.Error(0)
}

func (m *ScheduleRepository) Get(ctx context.Context, id string) (*schedule.Schedule, error) {
	args := m.Called(ctx, id)
	if sched, ok := args.Get(0).(*schedule.Schedule); ok {
		return sched, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduleRepository) Update(ctx context.Context, sched *schedule.Schedule, expectedRevision int64) error {
	args := m.Called(ctx, sched, expectedRevision)
	return args.Error(0)
}

func (m *ScheduleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ScheduleRepository) ListByDate(ctx context.Context, date string) ([]schedule.Schedule, error) {
	args := m.Called(ctx, date)
	if list, ok := args.Get(0).([]schedule.Schedule); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ScheduleRepository) ListAll(ctx context.Context) ([]schedule.Schedule, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]schedule.Schedule); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// MemberRepository is a mock for member.Repository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) Create(ctx context.Context, mem *member.Member) error {
	args := m.Called(ctx, mem)
	return args.Error(0)
}

func (m *MemberRepository) Get(ctx context.Context, userDocID string) (*member.Member, error) {
	args := m.Called(ctx, userDocID)
	if mem, ok := args.Get(0).(*member.Member); ok {
		return mem, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]member.Member); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Delete(ctx context.Context, userDocID string) error {
	args := m.Called(ctx, userDocID)
	return args.Error(0)
}

// ActivityRepository is a mock for activity.Repository.
type ActivityRepository struct {
	mock.Mock
}

func (m *ActivityRepository) Log(ctx context.Context, entry *activity.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *ActivityRepository) ListBySchedule(ctx context.Context, scheduleID string, limit, offset int) ([]activity.Entry, error) {
	args := m.Called(ctx, scheduleID, limit, offset)
	if list, ok := args.Get(0).([]activity.Entry); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}
