package member

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jnkim/guildboard/internal/repository"
)

// Service handles member directory business logic.
type Service struct {
	members Repository
	logger  *slog.Logger
}

// NewService creates a new member service.
func NewService(members Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{members: members, logger: logger}
}

// RegisterRequest describes a member registration request. ParentUserDocID is
// set only when registering a sub-character.
type RegisterRequest struct {
	UserID          string
	Job             Job
	ParentUserDocID string
}

// Register registers a main character.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Member, error) {
	if strings.TrimSpace(req.UserID) == "" || !req.Job.Valid() {
		return nil, ErrInvalidInput
	}

	m := &Member{
		UserDocID: uuid.NewString(),
		UserID:    req.UserID,
		Kind:      KindMain,
		Job:       req.Job,
		CreatedAt: time.Now(),
	}

	if err := s.members.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateMember
		}
		return nil, fmt.Errorf("creating member: %w", err)
	}

	s.logger.Info("member registered", "user_doc_id", m.UserDocID, "user_id", m.UserID)
	return m, nil
}

// RegisterSub registers a sub-character linked to an existing main character.
func (s *Service) RegisterSub(ctx context.Context, req RegisterRequest) (*Member, error) {
	if strings.TrimSpace(req.UserID) == "" || !req.Job.Valid() {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(req.ParentUserDocID) == "" {
		return nil, ErrInvalidInput
	}

	parent, err := s.members.Get(ctx, req.ParentUserDocID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrParentNotFound
		}
		return nil, fmt.Errorf("loading parent: %w", err)
	}
	if !parent.IsMain() {
		return nil, ErrParentNotMain
	}

	m := &Member{
		UserDocID:       uuid.NewString(),
		UserID:          req.UserID,
		Kind:            KindSub,
		ParentUserDocID: parent.UserDocID,
		Job:             req.Job,
		CreatedAt:       time.Now(),
	}

	if err := s.members.Create(ctx, m); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateMember
		}
		return nil, fmt.Errorf("creating sub-character: %w", err)
	}

	s.logger.Info("sub-character registered", "user_doc_id", m.UserDocID, "parent", parent.UserDocID)
	return m, nil
}

// Get returns a member by user doc id.
func (s *Service) Get(ctx context.Context, userDocID string) (*Member, error) {
	m, err := s.members.Get(ctx, userDocID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("getting member: %w", err)
	}
	return m, nil
}

// List returns all registered members.
func (s *Service) List(ctx context.Context) ([]Member, error) {
	return s.members.List(ctx)
}

// Remove deletes a member from the directory.
func (s *Service) Remove(ctx context.Context, userDocID string) error {
	if err := s.members.Delete(ctx, userDocID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("deleting member: %w", err)
	}
	s.logger.Info("member removed", "user_doc_id", userDocID)
	return nil
}
