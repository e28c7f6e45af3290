package sqlite

import (
	"context"
	"testing"

	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/stretchr/testify/require"
)

func TestActivityRepository_LogList(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	entries := []*activity.Entry{
		{ScheduleID: "s1", UserDocID: "a", Type: activity.TypeScheduleCreated, Summary: "created"},
		{ScheduleID: "s1", UserDocID: "b", Type: activity.TypeParticipantJoined, Summary: "bob joined"},
		{ScheduleID: "s2", Type: activity.TypeScheduleDeleted, Summary: "deleted"},
	}
	for _, e := range entries {
		require.NoError(t, repo.Log(ctx, e))
	}

	got, err := repo.ListBySchedule(ctx, "s1", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	// newest first
	require.Equal(t, activity.TypeParticipantJoined, got[0].Type)
	require.Equal(t, "b", got[0].UserDocID)
	require.Equal(t, activity.TypeScheduleCreated, got[1].Type)
}

func TestActivityRepository_Limit(t *testing.T) {
	db := NewTestDB(t)
	repo := NewActivityRepository(db)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Log(ctx, &activity.Entry{
			ScheduleID: "s1", Type: activity.TypeParticipantJoined, Summary: "join",
		}))
	}

	got, err := repo.ListBySchedule(ctx, "s1", 3, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)

	rest, err := repo.ListBySchedule(ctx, "s1", 3, 3)
	require.NoError(t, err)
	require.Len(t, rest, 2)
}
