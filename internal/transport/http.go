package transport

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jnkim/guildboard/internal/domain/activity"
	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/domain/schedule"
)

// Server wires HTTP handlers over the domain services. Authentication and
// session gating happen upstream; the acting user arrives in a header.
type Server struct {
	schedules  *schedule.Service
	directory  *schedule.Directory
	members    *member.Service
	activities *activity.Service
	logger     *slog.Logger
}

// NewServer creates the HTTP router.
func NewServer(
	schedules *schedule.Service,
	directory *schedule.Directory,
	members *member.Service,
	activities *activity.Service,
	logger *slog.Logger,
) *chi.Mux {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	srv := &Server{
		schedules:  schedules,
		directory:  directory,
		members:    members,
		activities: activities,
		logger:     logger,
	}

	r := chi.NewRouter()

	r.Get("/health", srv.handleHealth)

	r.Route("/schedules", func(r chi.Router) {
		r.Post("/", srv.handleCreateSchedule)
		r.Get("/", srv.handleListSchedules)
		r.Route("/{scheduleID}", func(r chi.Router) {
			r.Get("/", srv.handleGetSchedule)
			r.Patch("/", srv.handleUpdateSchedule)
			r.Delete("/", srv.handleDeleteSchedule)
			r.Post("/join", srv.handleJoin)
			r.Post("/leave", srv.handleLeave)
			r.Post("/substitute", srv.handleSubstitute)
			r.Get("/activity", srv.handleScheduleActivity)
		})
	})

	r.Route("/members", func(r chi.Router) {
		r.Post("/", srv.handleRegisterMember)
		r.Get("/", srv.handleListMembers)
		r.Get("/{userDocID}", srv.handleGetMember)
		r.Delete("/{userDocID}", srv.handleRemoveMember)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// participantPayload is the wire form of a slot occupant.
type participantPayload struct {
	UserDocID       string `json:"user_doc_id"`
	UserID          string `json:"user_id"`
	Kind            string `json:"kind"`
	ParentUserDocID string `json:"parent_user_doc_id,omitempty"`
	Job             string `json:"job"`
}

func (p participantPayload) toDomain() schedule.Participant {
	if member.Kind(p.Kind) == member.KindSub {
		return schedule.NewSubParticipant(p.UserDocID, p.UserID, p.ParentUserDocID, member.Job(p.Job))
	}
	return schedule.NewMainParticipant(p.UserDocID, p.UserID, member.Job(p.Job))
}

type createScheduleRequest struct {
	Date            string             `json:"date"`
	StartTime       string             `json:"start_time"`
	Title           string             `json:"title"`
	Content         string             `json:"content"`
	MaxParticipants int                `json:"max_participants"`
	Author          participantPayload `json:"author"`
}

func (s *Server) handleCreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req createScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	sched, err := s.schedules.Create(r.Context(), schedule.CreateRequest{
		Author:          req.Author.toDomain(),
		MaxParticipants: req.MaxParticipants,
		Fields: schedule.Fields{
			Date:      req.Date,
			StartTime: req.StartTime,
			Title:     req.Title,
			Content:   req.Content,
		},
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sched)
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	var (
		scheds []schedule.Schedule
		err    error
	)
	if date := r.URL.Query().Get("date"); date != "" {
		scheds, err = s.directory.ListByDate(r.Context(), date)
	} else {
		scheds, err = s.directory.ListAll(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if scheds == nil {
		scheds = []schedule.Schedule{}
	}
	writeJSON(w, http.StatusOK, scheds)
}

func (s *Server) handleGetSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := s.directory.Get(r.Context(), chi.URLParam(r, "scheduleID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

type updateScheduleRequest struct {
	Date            *string `json:"date"`
	StartTime       *string `json:"start_time"`
	Title           *string `json:"title"`
	Content         *string `json:"content"`
	MaxParticipants *int    `json:"max_participants"`
}

func (s *Server) handleUpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req updateScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	err := s.schedules.UpdateFields(r.Context(), chi.URLParam(r, "scheduleID"), schedule.FieldsPatch{
		Date:            req.Date,
		StartTime:       req.StartTime,
		Title:           req.Title,
		Content:         req.Content,
		MaxParticipants: req.MaxParticipants,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteSchedule(w http.ResponseWriter, r *http.Request) {
	if err := s.schedules.Delete(r.Context(), chi.URLParam(r, "scheduleID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type joinRequest struct {
	Participant participantPayload `json:"participant"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	var req joinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	err := s.schedules.Join(r.Context(), chi.URLParam(r, "scheduleID"), req.Participant.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type leaveRequest struct {
	UserDocID string `json:"user_doc_id"`
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	err := s.schedules.Leave(r.Context(), chi.URLParam(r, "scheduleID"), req.UserDocID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type substituteRequest struct {
	OldUserDocID string             `json:"old_user_doc_id"`
	Participant  participantPayload `json:"participant"`
}

func (s *Server) handleSubstitute(w http.ResponseWriter, r *http.Request) {
	var req substituteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	err := s.schedules.Substitute(r.Context(), chi.URLParam(r, "scheduleID"),
		req.OldUserDocID, req.Participant.toDomain())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScheduleActivity(w http.ResponseWriter, r *http.Request) {
	entries, err := s.activities.ListBySchedule(r.Context(), chi.URLParam(r, "scheduleID"), 0, 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []activity.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type registerMemberRequest struct {
	UserID          string `json:"user_id"`
	Job             string `json:"job"`
	ParentUserDocID string `json:"parent_user_doc_id,omitempty"`
}

func (s *Server) handleRegisterMember(w http.ResponseWriter, r *http.Request) {
	var req registerMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}

	regReq := member.RegisterRequest{
		UserID:          req.UserID,
		Job:             member.Job(req.Job),
		ParentUserDocID: req.ParentUserDocID,
	}

	var (
		m   *member.Member
		err error
	)
	if req.ParentUserDocID != "" {
		m, err = s.members.RegisterSub(r.Context(), regReq)
	} else {
		m, err = s.members.Register(r.Context(), regReq)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.members.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if members == nil {
		members = []member.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (s *Server) handleGetMember(w http.ResponseWriter, r *http.Request) {
	m, err := s.members.Get(r.Context(), chi.URLParam(r, "userDocID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	if err := s.members.Remove(r.Context(), chi.URLParam(r, "userDocID")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
