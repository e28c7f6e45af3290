package transport_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/domain/schedule"
	"github.com/jnkim/guildboard/internal/sqlite"
	"github.com/jnkim/guildboard/internal/transport"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { _ = db.Close() })

	scheduleRepo := sqlite.NewScheduleRepository(db)
	memberRepo := sqlite.NewMemberRepository(db)
	activityRepo := sqlite.NewActivityRepository(db)

	return transport.NewServer(
		schedule.NewService(scheduleRepo, memberRepo, activityRepo, nil),
		schedule.NewDirectory(scheduleRepo),
		member.NewService(memberRepo, nil),
		activity.NewService(activityRepo, nil),
		nil,
	)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error.Code
}

func createSchedule(t *testing.T, router http.Handler, maxParticipants int) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/schedules", map[string]any{
		"date":             "2026-09-01",
		"start_time":       "21:00",
		"title":            "weekly boss run",
		"content":          "bring potions",
		"max_participants": maxParticipants,
		"author": map[string]any{
			"user_doc_id": "a", "user_id": "alice", "kind": "main", "job": "warrior",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var sched schedule.Schedule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sched))
	return sched.ID
}

func joinBody(docID, userID string) map[string]any {
	return map[string]any{"participant": map[string]any{
		"user_doc_id": docID, "user_id": userID, "kind": "main", "job": "archer",
	}}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)
	rec := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestScheduleLifecycle(t *testing.T) {
	router := newTestRouter(t)
	id := createSchedule(t, router, 3)

	rec := doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", joinBody("b", "bob"))
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/schedules/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sched schedule.Schedule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sched))
	require.Len(t, sched.Participants, 2)

	rec = doJSON(t, router, http.MethodGet, "/schedules?date=2026-09-01", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []schedule.Schedule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)

	rec = doJSON(t, router, http.MethodGet, "/schedules/"+id+"/activity", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/schedules/"+id, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/schedules/"+id, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "schedule_not_found", decodeErrorCode(t, rec))
}

func TestJoin_ErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	id := createSchedule(t, router, 2)

	rec := doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", joinBody("a", "alice"))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "duplicate_participant", decodeErrorCode(t, rec))

	rec = doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", joinBody("b", "bob"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", joinBody("c", "carol"))
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "capacity_exceeded", decodeErrorCode(t, rec))

	// sub-character with an unregistered parent
	rec = doJSON(t, router, http.MethodPost, "/schedules/"+id+"/leave", map[string]any{"user_doc_id": "b"})
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", map[string]any{
		"participant": map[string]any{
			"user_doc_id": "b2", "user_id": "bob-alt", "kind": "sub",
			"parent_user_doc_id": "ghost", "job": "mage",
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "parent_not_found", decodeErrorCode(t, rec))
}

func TestLeave_Author(t *testing.T) {
	router := newTestRouter(t)
	id := createSchedule(t, router, 2)

	rec := doJSON(t, router, http.MethodPost, "/schedules/"+id+"/leave", map[string]any{"user_doc_id": "a"})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "cannot_remove_author", decodeErrorCode(t, rec))
}

func TestUpdateSchedule_CapacityBelowOccupancy(t *testing.T) {
	router := newTestRouter(t)
	id := createSchedule(t, router, 3)

	rec := doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", joinBody("b", "bob"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/schedules/"+id, map[string]any{"max_participants": 1})
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "capacity_below_occupancy", decodeErrorCode(t, rec))

	rec = doJSON(t, router, http.MethodPatch, "/schedules/"+id, map[string]any{"title": "rescheduled"})
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestSubstitute(t *testing.T) {
	router := newTestRouter(t)
	id := createSchedule(t, router, 3)

	// register bob's main and sub so the parent check passes
	rec := doJSON(t, router, http.MethodPost, "/members", map[string]any{"user_id": "bob", "job": "archer"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var bob member.Member
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&bob))

	rec = doJSON(t, router, http.MethodPost, "/schedules/"+id+"/join", joinBody(bob.UserDocID, "bob"))
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/schedules/"+id+"/substitute", map[string]any{
		"old_user_doc_id": bob.UserDocID,
		"participant": map[string]any{
			"user_doc_id": "b2", "user_id": "bob-alt", "kind": "sub",
			"parent_user_doc_id": bob.UserDocID, "job": "mage",
		},
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/schedules/"+id, nil)
	var sched schedule.Schedule
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&sched))
	require.Len(t, sched.Participants, 2)
	require.Equal(t, "b2", sched.Participants[1].UserDocID)
}

func TestRegisterMember_Validation(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/members", map[string]any{"user_id": "x", "job": "bard"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "invalid_input", decodeErrorCode(t, rec))

	rec = doJSON(t, router, http.MethodPost, "/members", map[string]any{
		"user_id": "x", "job": "mage", "parent_user_doc_id": "ghost",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "parent_not_found", decodeErrorCode(t, rec))
}
