package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/repository"
)

// MemberRepository implements member.Repository for SQLite
type MemberRepository struct {
	db *DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *DB) *MemberRepository {
	return &MemberRepository{db: db}
}

// Create inserts a member
func (r *MemberRepository) Create(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO members (user_doc_id, user_id, kind, parent_user_doc_id, job, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var parent any
	if m.Kind == member.KindSub {
		parent = m.ParentUserDocID
	}

	_, err := r.db.ExecContext(ctx, query,
		m.UserDocID, m.UserID, m.Kind, parent, m.Job, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create member: %w", err)
	}

	return nil
}

// Get retrieves a member by user doc id
func (r *MemberRepository) Get(ctx context.Context, userDocID string) (*member.Member, error) {
	query := `
		SELECT user_doc_id, user_id, kind, parent_user_doc_id, job, created_at
		FROM members
		WHERE user_doc_id = ?
	`

	var m member.Member
	var parent sql.NullString
	err := r.db.QueryRowContext(ctx, query, userDocID).Scan(
		&m.UserDocID, &m.UserID, &m.Kind, &parent, &m.Job, &m.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	if parent.Valid {
		m.ParentUserDocID = parent.String
	}

	return &m, nil
}

// List returns all members in registration order
func (r *MemberRepository) List(ctx context.Context) ([]member.Member, error) {
	query := `
		SELECT user_doc_id, user_id, kind, parent_user_doc_id, job, created_at
		FROM members
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []member.Member
	for rows.Next() {
		var m member.Member
		var parent sql.NullString
		if err := rows.Scan(&m.UserDocID, &m.UserID, &m.Kind, &parent, &m.Job, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if parent.Valid {
			m.ParentUserDocID = parent.String
		}
		members = append(members, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

// Delete removes a member
func (r *MemberRepository) Delete(ctx context.Context, userDocID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM members WHERE user_doc_id = ?`, userDocID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to delete member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
