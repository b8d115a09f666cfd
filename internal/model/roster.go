package model

import "time"

// Wrestler is a roster member who competes in matches.
type Wrestler struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	HiredAt   time.Time  `json:"hired_at"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
}

// Referee is a roster member who officiates matches.
type Referee struct {
	ID        string     `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	HiredAt   time.Time  `json:"hired_at"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
	DeletedOn *time.Time `json:"deleted_on,omitempty"`
}

// FullName returns "First Last".
func (r *Referee) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// WrestlerIDs returns the ids of ws in order.
func WrestlerIDs(ws []*Wrestler) []string {
	ids := make([]string, 0, len(ws))
	for _, w := range ws {
		ids = append(ids, w.ID)
	}
	return ids
}

// RefereeIDs returns the ids of rs in order.
func RefereeIDs(rs []*Referee) []string {
	ids := make([]string, 0, len(rs))
	for _, r := range rs {
		ids = append(ids, r.ID)
	}
	return ids
}
