package model

import "time"

// Event is a dated card; it owns zero or more matches.
type Event struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Date      time.Time  `json:"date"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
}

// IsPast reports whether the event took place before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.Date.Before(now)
}

// MatchType declares how many wrestlers compete and how they are split.
type MatchType struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	TotalCompetitors int    `json:"total_competitors"`
	NumberOfSides    int    `json:"number_of_sides"`
	MultipleReferees bool   `json:"multiple_referees"`
}

// NeedsMultipleReferees reports whether matches of this type are worked by two referees.
func (mt *MatchType) NeedsMultipleReferees() bool {
	return mt.MultipleReferees
}

// RequiredReferees is the exact number of referees a match of this type takes.
func (mt *MatchType) RequiredReferees() int {
	if mt.NeedsMultipleReferees() {
		return 2
	}
	return 1
}

// Stipulation is a named rule modifier for a match.
type Stipulation struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
