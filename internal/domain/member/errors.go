package member

import "errors"

var (
	// ErrMemberNotFound indicates the member doesn't exist.
	ErrMemberNotFound = errors.New("member not found")
	// ErrDuplicateMember indicates the user doc id is already registered.
	ErrDuplicateMember = errors.New("member already registered")
	// ErrParentNotFound indicates the referenced main character doesn't exist.
	ErrParentNotFound = errors.New("parent character not found")
	// ErrParentNotMain indicates the referenced parent is itself a sub-character.
	ErrParentNotMain = errors.New("parent must be a main character")
	// ErrInvalidInput indicates invalid input for member operations.
	ErrInvalidInput = errors.New("invalid member input")
)
