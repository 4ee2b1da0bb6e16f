package awards

import (
	"errors"
	"fmt"
)

// Failure kinds returned by the service. Callers match them with errors.Is;
// the wrapped message carries the offending identifiers.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalid          = errors.New("invalid input")
	ErrInvalidState     = errors.New("invalid state")
	ErrCapacityExceeded = errors.New("category has reached its nominee limit")
	ErrVotingClosed     = errors.New("voting is closed for this category")
	ErrNomineeInactive  = errors.New("nominee is not active")
	ErrCategoryMismatch = errors.New("nominee does not belong to this category")
	ErrInvalidDecision  = errors.New("decision must be approved or rejected")
	ErrForbidden        = errors.New("forbidden")

	// ErrDuplicateVote is a Conflict: the user already voted in a
	// single-vote category.
	ErrDuplicateVote = fmt.Errorf("%w: already voted in this category", ErrConflict)
)

func notFound(kind string, id any) error {
	return fmt.Errorf("%s %v: %w", kind, id, ErrNotFound)
}
