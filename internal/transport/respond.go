package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/domain/schedule"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorMapping translates a domain error into an HTTP status and a stable
// code the UI maps to user-facing messages.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{schedule.ErrScheduleNotFound, http.StatusNotFound, "schedule_not_found"},
	{schedule.ErrParticipantNotFound, http.StatusNotFound, "participant_not_found"},
	{member.ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
	{schedule.ErrCapacityExceeded, http.StatusConflict, "capacity_exceeded"},
	{schedule.ErrDuplicateParticipant, http.StatusConflict, "duplicate_participant"},
	{schedule.ErrCannotRemoveAuthor, http.StatusConflict, "cannot_remove_author"},
	{schedule.ErrCapacityBelowOccupancy, http.StatusConflict, "capacity_below_occupancy"},
	{schedule.ErrConcurrentModification, http.StatusConflict, "concurrent_modification"},
	{member.ErrDuplicateMember, http.StatusConflict, "duplicate_member"},
	{schedule.ErrInvalidCapacity, http.StatusBadRequest, "invalid_capacity"},
	{schedule.ErrInvalidParticipant, http.StatusBadRequest, "invalid_participant"},
	{schedule.ErrInvalidJob, http.StatusBadRequest, "invalid_job"},
	{schedule.ErrMissingParent, http.StatusBadRequest, "missing_parent"},
	{schedule.ErrParentNotFound, http.StatusBadRequest, "parent_not_found"},
	{schedule.ErrParentNotMain, http.StatusBadRequest, "parent_not_main"},
	{schedule.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{member.ErrParentNotFound, http.StatusBadRequest, "parent_not_found"},
	{member.ErrParentNotMain, http.StatusBadRequest, "parent_not_main"},
	{member.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{schedule.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			writeJSON(w, m.status, errorResponse{Error: errorBody{Code: m.code, Message: m.err.Error()}})
			return
		}
	}

	s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	writeJSON(w, http.StatusInternalServerError,
		errorResponse{Error: errorBody{Code: "internal", Message: "internal error"}})
}

func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest,
		errorResponse{Error: errorBody{Code: "bad_request", Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
