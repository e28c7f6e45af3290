package schedule

import (
	"strings"
	"time"

	"github.com/jnkim/guildboard/internal/domain/member"
)

// Participant is one occupant of a schedule slot: either a main character or
// a sub-character standing in for its parent. Use the constructors so the
// parent-required-iff-sub rule holds by construction.
type Participant struct {
	UserDocID       string      `json:"user_doc_id"`
	UserID          string      `json:"user_id"`
	Kind            member.Kind `json:"kind"`
	ParentUserDocID string      `json:"parent_user_doc_id,omitempty"`
	Job             member.Job  `json:"job"`
}

// NewMainParticipant builds a main-character participant.
func NewMainParticipant(userDocID, userID string, job member.Job) Participant {
	return Participant{
		UserDocID: userDocID,
		UserID:    userID,
		Kind:      member.KindMain,
		Job:       job,
	}
}

// NewSubParticipant builds a sub-character participant acting on a parent
// main character's behalf.
func NewSubParticipant(userDocID, userID, parentUserDocID string, job member.Job) Participant {
	return Participant{
		UserDocID:       userDocID,
		UserID:          userID,
		Kind:            member.KindSub,
		ParentUserDocID: parentUserDocID,
		Job:             job,
	}
}

// IsSub reports whether the participant is a sub-character.
func (p Participant) IsSub() bool {
	return p.Kind == member.KindSub
}

func (p Participant) validate() error {
	if strings.TrimSpace(p.UserDocID) == "" || strings.TrimSpace(p.UserID) == "" {
		return ErrInvalidParticipant
	}
	if !p.Job.Valid() {
		return ErrInvalidJob
	}
	switch p.Kind {
	case member.KindMain:
		if p.ParentUserDocID != "" {
			return ErrInvalidParticipant
		}
	case member.KindSub:
		if strings.TrimSpace(p.ParentUserDocID) == "" {
			return ErrMissingParent
		}
		if p.ParentUserDocID == p.UserDocID {
			return ErrInvalidParticipant
		}
	default:
		return ErrInvalidParticipant
	}
	return nil
}

// Fields holds the non-membership content of a schedule.
type Fields struct {
	Date      string
	StartTime string
	Title     string
	Content   string
}

// FieldsPatch is a partial update of non-membership fields. Nil means leave
// the current value unchanged.
type FieldsPatch struct {
	Date            *string
	StartTime       *string
	Title           *string
	Content         *string
	MaxParticipants *int
}

// Schedule is the authoritative ledger of one recruitment post: its slots,
// capacity and ownership. Participants is ordered by join time. Revision is
// the store-managed version token used for conditional writes.
type Schedule struct {
	ID              string        `json:"id"`
	Date            string        `json:"date"`
	StartTime       string        `json:"start_time"`
	Title           string        `json:"title"`
	Content         string        `json:"content"`
	MaxParticipants int           `json:"max_participants"`
	AuthorUserDocID string        `json:"author_user_doc_id"`
	Participants    []Participant `json:"participants"`
	CreatedAt       time.Time     `json:"created_at"`
	ModifiedAt      time.Time     `json:"modified_at"`
	Revision        int64         `json:"revision"`
}
