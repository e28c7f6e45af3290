package member

import "time"

// Job identifies a character class from the guild's fixed vocabulary.
type Job string

const (
	JobWarrior Job = "warrior"
	JobMage    Job = "mage"
	JobArcher  Job = "archer"
	JobThief   Job = "thief"
	JobPirate  Job = "pirate"
)

// Valid reports whether the job belongs to the known vocabulary.
func (j Job) Valid() bool {
	switch j {
	case JobWarrior, JobMage, JobArcher, JobThief, JobPirate:
		return true
	}
	return false
}

// Kind distinguishes main characters from sub-characters.
type Kind string

const (
	KindMain Kind = "main"
	KindSub  Kind = "sub"
)

// Member is one registered character in the guild directory. A sub-character
// always references the main character it belongs to.
type Member struct {
	UserDocID       string    `json:"user_doc_id"`
	UserID          string    `json:"user_id"`
	Kind            Kind      `json:"kind"`
	ParentUserDocID string    `json:"parent_user_doc_id,omitempty"`
	Job             Job       `json:"job"`
	CreatedAt       time.Time `json:"created_at"`
}

// IsMain reports whether the member is a main character.
func (m *Member) IsMain() bool {
	return m.Kind == KindMain
}
