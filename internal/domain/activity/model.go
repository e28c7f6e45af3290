package activity

import "time"

// Type categorizes an activity log entry.
type Type string

const (
	TypeScheduleCreated        Type = "schedule_created"
	TypeScheduleUpdated        Type = "schedule_updated"
	TypeScheduleDeleted        Type = "schedule_deleted"
	TypeParticipantJoined      Type = "participant_joined"
	TypeParticipantLeft        Type = "participant_left"
	TypeParticipantSubstituted Type = "participant_substituted"
)

// Entry is one audit record of a schedule mutation.
type Entry struct {
	ID         int64     `json:"id"`
	ScheduleID string    `json:"schedule_id"`
	UserDocID  string    `json:"user_doc_id,omitempty"`
	Type       Type      `json:"type"`
	Summary    string    `json:"summary"`
	CreatedAt  time.Time `json:"created_at"`
}
