package service

import (
	"errors"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// Problem converts a service error to ProblemDetails so every presentation
// layer reports the same status codes and messages.
func Problem(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	var pd *model.ProblemDetails
	if errors.As(err, &pd) {
		return pd
	}

	switch {
	// ===== Over-assignment → 409 =====
	case errors.Is(err, ErrOverAssignment):
		return model.NewOverAssignmentError(err.Error())

	// ===== Invariant Violations → 422 =====
	case errors.Is(err, ErrInvariantViolation):
		return model.NewInvariantError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, ErrEventNotFound):
		return model.NewNotFoundError("event")
	case errors.Is(err, ErrMatchNotFound):
		return model.NewNotFoundError("match")
	case errors.Is(err, ErrMatchTypeNotFound):
		return model.NewNotFoundError("match type")
	case errors.Is(err, ErrStipulationNotFound):
		return model.NewNotFoundError("stipulation")
	case errors.Is(err, ErrTitleNotFound):
		return model.NewNotFoundError("title")
	case errors.Is(err, ErrWrestlerNotFound):
		return model.NewNotFoundError("wrestler")
	case errors.Is(err, ErrRefereeNotFound):
		return model.NewNotFoundError("referee")
	case errors.Is(err, ErrNoChampion):
		return model.NewNotFoundError("current champion")
	case errors.Is(err, database.ErrNotFound):
		return model.NewNotFoundError("record")

	// ===== Conflicts → 409 =====
	case errors.Is(err, ErrNoTitles), errors.Is(err, ErrNoWinners), errors.Is(err, ErrMemberReleased):
		return model.NewConflictError(err.Error())
	case errors.Is(err, database.ErrDuplicate):
		return model.NewConflictError("record already exists")

	// ===== Bad Requests → 400 =====
	case errors.Is(err, ErrInvalidTiming), errors.Is(err, ErrEmptyCatalog):
		return model.NewBadRequestError(err.Error())
	}

	return model.NewInternalError("")
}
