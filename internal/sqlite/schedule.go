package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jnkim/guildboard/internal/domain/member"
	"github.com/jnkim/guildboard/internal/domain/schedule"
	"github.com/jnkim/guildboard/internal/repository"
)

// ScheduleRepository implements schedule.Repository for SQLite
type ScheduleRepository struct {
	db *DB
}

// NewScheduleRepository creates a new ScheduleRepository
func NewScheduleRepository(db *DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Create inserts a schedule and its participant rows in one transaction
func (r *ScheduleRepository) Create(ctx context.Context, sched *schedule.Schedule) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO schedules (
			id, date, start_time, title, content,
			max_participants, author_user_doc_id, created_at, modified_at, revision
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.ExecContext(ctx, query,
		sched.ID,
		sched.Date,
		sched.StartTime,
		sched.Title,
		sched.Content,
		sched.MaxParticipants,
		sched.AuthorUserDocID,
		sched.CreatedAt,
		sched.ModifiedAt,
		sched.Revision,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create schedule: %w", err)
	}

	if err := insertParticipants(ctx, tx, sched.ID, sched.Participants); err != nil {
		return err
	}

	return tx.Commit()
}

// Get retrieves a schedule with its participants in join order
func (r *ScheduleRepository) Get(ctx context.Context, id string) (*schedule.Schedule, error) {
	query := `
		SELECT
			id, date, start_time, title, content,
			max_participants, author_user_doc_id, created_at, modified_at, revision
		FROM schedules
		WHERE id = ?
	`

	var sched schedule.Schedule
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sched.ID,
		&sched.Date,
		&sched.StartTime,
		&sched.Title,
		&sched.Content,
		&sched.MaxParticipants,
		&sched.AuthorUserDocID,
		&sched.CreatedAt,
		&sched.ModifiedAt,
		&sched.Revision,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}

	participants, err := r.getParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	sched.Participants = participants

	return &sched, nil
}

// Update writes a schedule conditionally on its revision. The header update
// and the participant rows commit in one transaction, so a rejected revision
// check leaves nothing behind.
func (r *ScheduleRepository) Update(ctx context.Context, sched *schedule.Schedule, expectedRevision int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE schedules
		SET date = ?, start_time = ?, title = ?, content = ?,
		    max_participants = ?, modified_at = ?, revision = ?
		WHERE id = ? AND revision = ?
	`
	result, err := tx.ExecContext(ctx, query,
		sched.Date,
		sched.StartTime,
		sched.Title,
		sched.Content,
		sched.MaxParticipants,
		sched.ModifiedAt,
		sched.Revision,
		sched.ID,
		expectedRevision,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		checkQuery := `SELECT EXISTS(SELECT 1 FROM schedules WHERE id = ?)`
		if err := tx.QueryRowContext(ctx, checkQuery, sched.ID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check schedule existence: %w", err)
		}
		if !exists {
			return repository.ErrNotFound
		}
		// Schedule exists but revision doesn't match - conflict
		return repository.ErrConflict
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM schedule_participants WHERE schedule_id = ?`, sched.ID); err != nil {
		return fmt.Errorf("failed to clear participants: %w", err)
	}
	if err := insertParticipants(ctx, tx, sched.ID, sched.Participants); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a schedule; participant rows cascade
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete schedule: %w", err)
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

// ListByDate returns all schedules on a date
func (r *ScheduleRepository) ListByDate(ctx context.Context, date string) ([]schedule.Schedule, error) {
	return r.list(ctx, `WHERE date = ?`, date)
}

// ListAll returns every schedule
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]schedule.Schedule, error) {
	return r.list(ctx, ``)
}

func (r *ScheduleRepository) list(ctx context.Context, where string, args ...any) ([]schedule.Schedule, error) {
	query := `
		SELECT
			id, date, start_time, title, content,
			max_participants, author_user_doc_id, created_at, modified_at, revision
		FROM schedules
	` + where + `
		ORDER BY date ASC, start_time ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	defer rows.Close()

	var scheds []schedule.Schedule
	for rows.Next() {
		var sched schedule.Schedule
		err := rows.Scan(
			&sched.ID,
			&sched.Date,
			&sched.StartTime,
			&sched.Title,
			&sched.Content,
			&sched.MaxParticipants,
			&sched.AuthorUserDocID,
			&sched.CreatedAt,
			&sched.ModifiedAt,
			&sched.Revision,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		scheds = append(scheds, sched)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating schedule rows: %w", err)
	}

	for i := range scheds {
		participants, err := r.getParticipants(ctx, scheds[i].ID)
		if err != nil {
			return nil, err
		}
		scheds[i].Participants = participants
	}

	return scheds, nil
}

func (r *ScheduleRepository) getParticipants(ctx context.Context, scheduleID string) ([]schedule.Participant, error) {
	query := `
		SELECT user_doc_id, user_id, kind, parent_user_doc_id, job
		FROM schedule_participants
		WHERE schedule_id = ?
		ORDER BY position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	var participants []schedule.Participant
	for rows.Next() {
		var p schedule.Participant
		var parent sql.NullString
		if err := rows.Scan(&p.UserDocID, &p.UserID, &p.Kind, &parent, &p.Job); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		if parent.Valid {
			p.ParentUserDocID = parent.String
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant rows: %w", err)
	}

	return participants, nil
}

func insertParticipants(ctx context.Context, tx *sql.Tx, scheduleID string, participants []schedule.Participant) error {
	query := `
		INSERT INTO schedule_participants (
			schedule_id, position, user_doc_id, user_id, kind, parent_user_doc_id, job
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	for i, p := range participants {
		var parent any
		if p.Kind == member.KindSub {
			parent = p.ParentUserDocID
		}
		_, err := tx.ExecContext(ctx, query,
			scheduleID, i, p.UserDocID, p.UserID, p.Kind, parent, p.Job)
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrDuplicate
			}
			return fmt.Errorf("failed to insert participant: %w", err)
		}
	}
	return nil
}
