package schedule

import "errors"

var (
	// ErrInvalidCapacity indicates max participants below 1.
	ErrInvalidCapacity = errors.New("max participants must be at least 1")
	// ErrCapacityExceeded indicates the schedule has no open slots.
	ErrCapacityExceeded = errors.New("schedule is full")
	// ErrDuplicateParticipant indicates the user doc id already occupies a slot.
	ErrDuplicateParticipant = errors.New("participant already joined")
	// ErrCannotRemoveAuthor indicates an attempt to remove the author's slot.
	ErrCannotRemoveAuthor = errors.New("author cannot be removed from their own schedule")
	// ErrParticipantNotFound indicates the user doc id occupies no slot.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrCapacityBelowOccupancy indicates a capacity update smaller than the
	// current participant count.
	ErrCapacityBelowOccupancy = errors.New("max participants below current occupancy")
	// ErrScheduleNotFound indicates the schedule doesn't exist.
	ErrScheduleNotFound = errors.New("schedule not found")
	// ErrInvalidParticipant indicates a malformed participant record.
	ErrInvalidParticipant = errors.New("invalid participant")
	// ErrInvalidJob indicates a job outside the known vocabulary.
	ErrInvalidJob = errors.New("unknown job")
	// ErrMissingParent indicates a sub-character without a parent reference.
	ErrMissingParent = errors.New("sub-character requires a parent main character")
	// ErrParentNotFound indicates the parent character is not registered.
	ErrParentNotFound = errors.New("parent character not registered")
	// ErrParentNotMain indicates the parent reference is itself a sub-character.
	ErrParentNotMain = errors.New("parent must be a main character")
	// ErrConcurrentModification indicates the conditional write lost against
	// concurrent writers for every attempt in the retry budget.
	ErrConcurrentModification = errors.New("schedule modified concurrently, retries exhausted")
	// ErrStorageUnavailable indicates the backing store kept failing.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidInput indicates invalid input for schedule operations.
	ErrInvalidInput = errors.New("invalid schedule input")
)
