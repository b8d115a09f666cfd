package model

import (
	"sort"
	"time"
)

// Title is a championship belt.
type Title struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	IntroducedAt time.Time  `json:"introduced_at"`
	CreatedOn    time.Time  `json:"created_on"`
	DeletedOn    *time.Time `json:"deleted_on,omitempty"`
}

// TitleIDs returns the ids of ts in order.
func TitleIDs(ts []*Title) []string {
	ids := make([]string, 0, len(ts))
	for _, t := range ts {
		ids = append(ids, t.ID)
	}
	return ids
}

// Championship is one wrestler's reign with one title.
// A reign is open until LostOn is set; it is closed, never deleted.
type Championship struct {
	ID         string     `json:"id"`
	TitleID    string     `json:"title_id"`
	WrestlerID string     `json:"wrestler_id"`
	WonOn      time.Time  `json:"won_on"`
	LostOn     *time.Time `json:"lost_on,omitempty"`
}

// IsOpen reports whether the reign is still running.
func (c *Championship) IsOpen() bool {
	return c.LostOn == nil
}

// Reign groups the open championship rows of one title. Tag titles are held
// by several wrestlers at once; their rows share WonOn and form one reign.
type Reign struct {
	TitleID string          `json:"title_id"`
	WonOn   time.Time       `json:"won_on"`
	Holders []*Championship `json:"holders"`
}

// HolderIDs returns the wrestler ids holding the reign.
func (r *Reign) HolderIDs() []string {
	ids := make([]string, 0, len(r.Holders))
	for _, h := range r.Holders {
		ids = append(ids, h.WrestlerID)
	}
	return ids
}

// OpenReigns groups open championships by WonOn, most recent first.
// More than one group means the one-open-reign invariant is broken.
func OpenReigns(titleID string, rows []*Championship) []*Reign {
	byStart := make(map[int64]*Reign)
	for _, c := range rows {
		if !c.IsOpen() {
			continue
		}
		key := c.WonOn.UnixNano()
		r, ok := byStart[key]
		if !ok {
			r = &Reign{TitleID: titleID, WonOn: c.WonOn}
			byStart[key] = r
		}
		r.Holders = append(r.Holders, c)
	}

	out := make([]*Reign, 0, len(byStart))
	for _, r := range byStart {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WonOn.After(out[j].WonOn) })
	return out
}

// ReignChange is one title's hand-over recorded after a match.
type ReignChange struct {
	TitleID  string    `json:"title_id"`
	On       time.Time `json:"on"`
	Retained bool      `json:"retained"`
	// Closing lists the open championship ids that end On.
	Closing []string `json:"closing,omitempty"`
	// Opening lists the new reigns starting On.
	Opening []*Championship `json:"opening,omitempty"`
}
