// Package service implements the booking rules of Ringside.
//
// The service package holds the roster builder, referee assignment, outcome
// recording and the title ledger. Services sit between the operator CLI and
// the repositories; nothing here knows about SurrealDB.
//
// # Service Pattern
//
// Services follow one pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods validate against the match type and the ledger before writing
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define the repository interfaces they consume. Unit tests satisfy
// them with an in-memory store or func-field mocks; the repository package
// satisfies them against the database.
//
// # Roster Builder
//
// A RosterBuilder is a per-request value from MatchService.NewBuilder. Build
// turns its configuration into one MatchPlan and hands that to the match
// repository, which commits it as a single transaction:
//
//	match, err := matches.NewBuilder().
//	    WithMatchType(tagTeam).
//	    WithTitles(title).
//	    WithChampion(incumbent).
//	    Past().
//	    Build(ctx)
//
// # Error Handling
//
// Sentinels live in errors.go. Rule breaks wrap ErrInvariantViolation, so
// callers can branch on the family or the specific rule:
//
//	if errors.Is(err, service.ErrInvariantViolation) { ... }
//
// Problem maps any service error onto model.ProblemDetails.
package service
