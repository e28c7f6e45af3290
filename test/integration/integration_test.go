package integration_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/domain/schedule"
	"github.com/jnkim/guildboard/internal/sqlite"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	db           *sqlite.DB
	scheduleRepo *sqlite.ScheduleRepository
	memberRepo   *sqlite.MemberRepository
	activityRepo *sqlite.ActivityRepository

	scheduleSvc *schedule.Service
	directory   *schedule.Directory
	memberSvc   *member.Service
	activitySvc *activity.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	// the shared-cache in-memory DB does not support concurrent writers
	db.SetMaxOpenConns(1)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	scheduleRepo := sqlite.NewScheduleRepository(db)
	memberRepo := sqlite.NewMemberRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return &testEnv{
		db:           db,
		scheduleRepo: scheduleRepo,
		memberRepo:   memberRepo,
		activityRepo: activityRepo,
		scheduleSvc:  schedule.NewService(scheduleRepo, memberRepo, activityRepo, nil),
		directory:    schedule.NewDirectory(scheduleRepo),
		memberSvc:    member.NewService(memberRepo, nil),
		activitySvc:  activity.NewService(activityRepo, nil),
	}
}

func (env *testEnv) createSchedule(t *testing.T, maxParticipants int) *schedule.Schedule {
	t.Helper()
	sched, err := env.scheduleSvc.Create(context.Background(), schedule.CreateRequest{
		Author:          schedule.NewMainParticipant("a", "alice", member.JobWarrior),
		MaxParticipants: maxParticipants,
		Fields:          schedule.Fields{Date: "2026-09-01", StartTime: "21:00", Title: "weekly boss run"},
	})
	require.NoError(t, err)
	return sched
}

// N concurrent joins racing for M open slots: exactly M admitted, the rest
// rejected, and occupancy never exceeds capacity.
func TestConcurrentJoins(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sched := env.createSchedule(t, 4) // author + 3 open slots

	const contenders = 6
	errs := make([]error, contenders)
	var wg sync.WaitGroup
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := schedule.NewMainParticipant(fmt.Sprintf("u%d", i), fmt.Sprintf("user%d", i), member.JobArcher)
			errs[i] = env.scheduleSvc.Join(ctx, sched.ID, p)
		}(i)
	}
	wg.Wait()

	admitted := 0
	for i, err := range errs {
		if err == nil {
			admitted++
			continue
		}
		require.True(t,
			errors.Is(err, schedule.ErrCapacityExceeded) || errors.Is(err, schedule.ErrConcurrentModification),
			"join %d failed with unexpected error: %v", i, err)
	}
	require.Equal(t, 3, admitted)

	final, err := env.directory.Get(ctx, sched.ID)
	require.NoError(t, err)
	require.Equal(t, 4, final.Occupancy())
	require.True(t, final.HasParticipant("a"), "author always present")

	seen := map[string]bool{}
	for _, p := range final.Participants {
		require.False(t, seen[p.UserDocID], "duplicate participant %s", p.UserDocID)
		seen[p.UserDocID] = true
	}
}

// Two writers substituting the same slot: exactly one wins, and the ledger
// never holds both replacements or an empty slot.
func TestConcurrentSubstitute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sched := env.createSchedule(t, 3)
	require.NoError(t, env.scheduleSvc.Join(ctx, sched.ID,
		schedule.NewMainParticipant("b", "bob", member.JobArcher)))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p := schedule.NewMainParticipant(fmt.Sprintf("sub%d", i), fmt.Sprintf("swap%d", i), member.JobThief)
			errs[i] = env.scheduleSvc.Substitute(ctx, sched.ID, "b", p)
		}(i)
	}
	wg.Wait()

	final, err := env.directory.Get(ctx, sched.ID)
	require.NoError(t, err)
	require.Equal(t, 2, final.Occupancy())
	require.False(t, final.HasParticipant("b"))

	winners := 0
	for i := 0; i < 2; i++ {
		if errs[i] == nil {
			winners++
			require.True(t, final.HasParticipant(fmt.Sprintf("sub%d", i)))
		}
	}
	require.Equal(t, 1, winners)
}

func TestJoinLeaveRejoin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sched := env.createSchedule(t, 4)
	for _, id := range []string{"b", "c", "d"} {
		require.NoError(t, env.scheduleSvc.Join(ctx, sched.ID,
			schedule.NewMainParticipant(id, "user-"+id, member.JobMage)))
	}

	err := env.scheduleSvc.Join(ctx, sched.ID, schedule.NewMainParticipant("e", "erin", member.JobPirate))
	require.ErrorIs(t, err, schedule.ErrCapacityExceeded)

	require.NoError(t, env.scheduleSvc.Leave(ctx, sched.ID, "c"))
	require.NoError(t, env.scheduleSvc.Join(ctx, sched.ID,
		schedule.NewMainParticipant("e", "erin", member.JobPirate)))

	final, err := env.directory.Get(ctx, sched.ID)
	require.NoError(t, err)
	var order []string
	for _, p := range final.Participants {
		order = append(order, p.UserDocID)
	}
	require.Equal(t, []string{"a", "b", "d", "e"}, order)
}

// A sub-character may join only when its parent is a registered main
// character; the member directory backs the check.
func TestSubCharacterJoin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	bob, err := env.memberSvc.Register(ctx, member.RegisterRequest{UserID: "bob", Job: member.JobArcher})
	require.NoError(t, err)
	bobAlt, err := env.memberSvc.RegisterSub(ctx, member.RegisterRequest{
		UserID: "bob-alt", Job: member.JobMage, ParentUserDocID: bob.UserDocID,
	})
	require.NoError(t, err)

	sched := env.createSchedule(t, 3)

	err = env.scheduleSvc.Join(ctx, sched.ID,
		schedule.NewSubParticipant("x", "nobody", "ghost", member.JobMage))
	require.ErrorIs(t, err, schedule.ErrParentNotFound)

	require.NoError(t, env.scheduleSvc.Join(ctx, sched.ID,
		schedule.NewSubParticipant(bobAlt.UserDocID, bobAlt.UserID, bob.UserDocID, member.JobMage)))

	// main and its sub may hold independent slots (uniqueness is per user doc id)
	require.NoError(t, env.scheduleSvc.Join(ctx, sched.ID,
		schedule.NewMainParticipant(bob.UserDocID, bob.UserID, member.JobArcher)))

	final, err := env.directory.Get(ctx, sched.ID)
	require.NoError(t, err)
	require.Equal(t, 3, final.Occupancy())
}

func TestMutationsAreAudited(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sched := env.createSchedule(t, 3)
	require.NoError(t, env.scheduleSvc.Join(ctx, sched.ID,
		schedule.NewMainParticipant("b", "bob", member.JobArcher)))
	require.NoError(t, env.scheduleSvc.Leave(ctx, sched.ID, "b"))

	entries, err := env.activitySvc.ListBySchedule(ctx, sched.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, activity.TypeParticipantLeft, entries[0].Type)
	require.Equal(t, activity.TypeParticipantJoined, entries[1].Type)
	require.Equal(t, activity.TypeScheduleCreated, entries[2].Type)
}
