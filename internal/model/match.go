package model

import "time"

// Match is one bout on an event.
type Match struct {
	ID            string     `json:"id"`
	EventID       string     `json:"event_id"`
	MatchTypeID   string     `json:"match_type_id"`
	StipulationID *string    `json:"stipulation_id,omitempty"`
	MatchNumber   int        `json:"match_number"`
	Preview       *string    `json:"preview,omitempty"`
	CreatedOn     time.Time  `json:"created_on"`
	UpdatedOn     time.Time  `json:"updated_on"`
	DeletedOn     *time.Time `json:"deleted_on,omitempty"`
}

// Competitor is a wrestler attached to a match on one side.
type Competitor struct {
	WrestlerID string `json:"wrestler_id"`
	SideNumber int    `json:"side_number"`
}

// CompetitorIDs returns the wrestler ids of cs in order.
func CompetitorIDs(cs []Competitor) []string {
	ids := make([]string, 0, len(cs))
	for _, c := range cs {
		ids = append(ids, c.WrestlerID)
	}
	return ids
}

// MatchPlan is everything one roster build writes. The repository commits it
// as a single transaction; ids are already assigned.
type MatchPlan struct {
	Event    *Event
	NewEvent bool

	// MatchType and Stipulation are upserted by id.
	MatchType   *MatchType
	Stipulation *Stipulation

	Match *Match

	NewWrestlers  []*Wrestler
	Championships []*Championship
	Competitors   []Competitor
	TitleIDs      []string
}

// MatchCard is the read-only graph a presentation layer renders.
type MatchCard struct {
	Match       *Match         `json:"match"`
	Event       *Event         `json:"event"`
	MatchType   *MatchType     `json:"match_type"`
	Stipulation *Stipulation   `json:"stipulation,omitempty"`
	Sides       [][]*Wrestler  `json:"sides"`
	Referees    []*Referee     `json:"referees"`
	Titles      []*TitleOnCard `json:"titles,omitempty"`
	Winners     []*Wrestler    `json:"winners,omitempty"`
	Losers      []*Wrestler    `json:"losers,omitempty"`
}

// IsTitleMatch reports whether at least one title is on the line.
func (c *MatchCard) IsTitleMatch() bool {
	return len(c.Titles) > 0
}

// TitleOnCard is a title attached to a match with its champions going in.
type TitleOnCard struct {
	Title      *Title      `json:"title"`
	Champions  []*Wrestler `json:"champions,omitempty"`
	ReignStart *time.Time  `json:"reign_start,omitempty"`
}
