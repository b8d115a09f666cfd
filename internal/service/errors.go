package service

import (
	"errors"
	"fmt"
)

// Centralized service layer errors.
// All errors returned by service methods are defined here so callers can
// branch with errors.Is. Storage failures are not wrapped here; they arrive
// carrying the database package sentinels.

// ===== Invariant Violations =====
var (
	ErrInvariantViolation = errors.New("invariant violation")

	ErrWrestlerCountMismatch = fmt.Errorf("%w: wrestler count does not match the match type", ErrInvariantViolation)
	ErrTooManyWrestlers      = fmt.Errorf("%w: more wrestlers supplied than the match type allows", ErrInvariantViolation)
	ErrSideOutOfRange        = fmt.Errorf("%w: side number outside the match type's sides", ErrInvariantViolation)
	ErrNotParticipant        = fmt.Errorf("%w: wrestler is not competing in the match", ErrInvariantViolation)
	ErrWinnersLosersOverlap  = fmt.Errorf("%w: wrestler recorded as both winner and loser", ErrInvariantViolation)
	ErrMultipleOpenReigns    = fmt.Errorf("%w: title has more than one open reign", ErrInvariantViolation)
)

// ===== Referee Errors =====
var (
	ErrOverAssignment = errors.New("too many referees for this match")
)

// ===== Roster Errors =====
var (
	ErrMemberReleased = errors.New("roster member has been released")
)

// ===== Not Found Errors =====
var (
	ErrEventNotFound       = errors.New("event not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchTypeNotFound   = errors.New("match type not found")
	ErrStipulationNotFound = errors.New("stipulation not found")
	ErrTitleNotFound       = errors.New("title not found")
	ErrWrestlerNotFound    = errors.New("wrestler not found")
	ErrRefereeNotFound     = errors.New("referee not found")
	ErrNoChampion          = errors.New("title has no current champion")
)

// ===== Title Workflow Errors =====
var (
	ErrNoTitles  = errors.New("match has no titles on the line")
	ErrNoWinners = errors.New("match has no recorded winners")
)

// ===== Request Errors =====
var (
	ErrInvalidTiming = errors.New("timing must be scheduled, past or a YYYY-MM-DD date")
	ErrEmptyCatalog  = errors.New("catalog has no match types")
)
