// Package model defines the domain entities of the Ringside promotion database.
//
// Entities mirror persisted rows and carry only the association helpers that
// do not need storage access:
//
//   - Event: a dated card that owns matches
//   - MatchType: how many competitors a match needs and how many sides they form
//   - Stipulation: a named rule modifier for a match
//   - Match: one bout on an event, with competitors, referees, titles and outcome edges
//   - Title / Championship: a belt and its reign ledger
//   - Wrestler / Referee: roster members
//
// Ids are SurrealDB record ids in "table:key" form, generated client-side by
// NewID so a whole match build can be committed as one transaction.
//
// # Error Types
//
// RFC 9457 Problem Details errors are defined in errors.go for whichever
// presentation layer consumes these entities.
package model
