package schedule

// Pure transformations over the in-memory ledger. None of these touch
// storage; the service applies them between a snapshot read and a
// conditional write.

// New builds a ledger with the author enrolled as its sole participant.
// ID, timestamps and revision are assigned by the service on creation.
func New(author Participant, maxParticipants int, f Fields) (Schedule, error) {
	if maxParticipants < 1 {
		return Schedule{}, ErrInvalidCapacity
	}
	if err := author.validate(); err != nil {
		return Schedule{}, err
	}
	return Schedule{
		Date:            f.Date,
		StartTime:       f.StartTime,
		Title:           f.Title,
		Content:         f.Content,
		MaxParticipants: maxParticipants,
		AuthorUserDocID: author.UserDocID,
		Participants:    []Participant{author},
	}, nil
}

// Occupancy returns the current participant count.
func (s Schedule) Occupancy() int {
	return len(s.Participants)
}

// IsFull reports whether every slot is taken.
func (s Schedule) IsFull() bool {
	return len(s.Participants) >= s.MaxParticipants
}

// HasParticipant reports whether the user doc id occupies a slot.
func (s Schedule) HasParticipant(userDocID string) bool {
	return s.participantIndex(userDocID) >= 0
}

func (s Schedule) participantIndex(userDocID string) int {
	for i, p := range s.Participants {
		if p.UserDocID == userDocID {
			return i
		}
	}
	return -1
}

// CanAdmit reports whether WithParticipantAdded would succeed.
func (s Schedule) CanAdmit(p Participant) bool {
	return p.validate() == nil && !s.HasParticipant(p.UserDocID) && !s.IsFull()
}

// WithParticipantAdded returns a copy of the ledger with p appended to the
// slot list.
func (s Schedule) WithParticipantAdded(p Participant) (Schedule, error) {
	if err := p.validate(); err != nil {
		return Schedule{}, err
	}
	if s.HasParticipant(p.UserDocID) {
		return Schedule{}, ErrDuplicateParticipant
	}
	if s.IsFull() {
		return Schedule{}, ErrCapacityExceeded
	}

	out := s
	out.Participants = append(append([]Participant(nil), s.Participants...), p)
	return out, nil
}

// WithParticipantRemoved returns a copy of the ledger without the given
// participant, preserving the order of the rest. The author's slot cannot be
// removed.
func (s Schedule) WithParticipantRemoved(userDocID string) (Schedule, error) {
	if userDocID == s.AuthorUserDocID {
		return Schedule{}, ErrCannotRemoveAuthor
	}
	i := s.participantIndex(userDocID)
	if i < 0 {
		return Schedule{}, ErrParticipantNotFound
	}

	out := s
	out.Participants = make([]Participant, 0, len(s.Participants)-1)
	out.Participants = append(out.Participants, s.Participants[:i]...)
	out.Participants = append(out.Participants, s.Participants[i+1:]...)
	return out, nil
}

// WithParticipantSubstituted replaces the occupant of one slot in place, so
// a substitution is never observable as an empty or doubled slot. Replacing
// the author's slot with a different identity is rejected; substituting the
// author's own entry (a job change) is allowed.
func (s Schedule) WithParticipantSubstituted(oldUserDocID string, p Participant) (Schedule, error) {
	if err := p.validate(); err != nil {
		return Schedule{}, err
	}
	i := s.participantIndex(oldUserDocID)
	if i < 0 {
		return Schedule{}, ErrParticipantNotFound
	}
	if oldUserDocID == s.AuthorUserDocID && p.UserDocID != oldUserDocID {
		return Schedule{}, ErrCannotRemoveAuthor
	}
	if p.UserDocID != oldUserDocID && s.HasParticipant(p.UserDocID) {
		return Schedule{}, ErrDuplicateParticipant
	}

	out := s
	out.Participants = append([]Participant(nil), s.Participants...)
	out.Participants[i] = p
	return out, nil
}

// WithFieldsUpdated merges a partial update of the non-membership fields.
// Shrinking capacity below the current occupancy is rejected rather than
// truncating the slot list.
func (s Schedule) WithFieldsUpdated(patch FieldsPatch) (Schedule, error) {
	out := s
	if patch.Date != nil {
		out.Date = *patch.Date
	}
	if patch.StartTime != nil {
		out.StartTime = *patch.StartTime
	}
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.Content != nil {
		out.Content = *patch.Content
	}
	if patch.MaxParticipants != nil {
		if *patch.MaxParticipants < 1 {
			return Schedule{}, ErrInvalidCapacity
		}
		if *patch.MaxParticipants < len(s.Participants) {
			return Schedule{}, ErrCapacityBelowOccupancy
		}
		out.MaxParticipants = *patch.MaxParticipants
	}
	return out, nil
}
