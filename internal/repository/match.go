package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// Outcome edge tables
const (
	edgeWon  = "won"
	edgeLost = "lost"
)

// MatchRepository handles matches and their participation edges
type MatchRepository struct {
	db database.Database
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db database.Database) *MatchRepository {
	return &MatchRepository{db: db}
}

// CreateFromPlan writes everything a roster build produced in one transaction
// and returns the stored match. The match number is assigned inside the
// transaction as one past the event's current match count.
func (r *MatchRepository) CreateFromPlan(ctx context.Context, plan *model.MatchPlan) (*model.Match, error) {
	if plan == nil || plan.Event == nil || plan.MatchType == nil || plan.Match == nil {
		return nil, fmt.Errorf("%w: incomplete match plan", database.ErrQuery)
	}

	tb := database.NewTxBuilder()

	if plan.NewEvent {
		if err := addEventCreate(tb, plan.Event); err != nil {
			return nil, err
		}
	}
	if err := addMatchTypeUpsert(tb, plan.MatchType); err != nil {
		return nil, err
	}
	if plan.Stipulation != nil {
		if err := addStipulationUpsert(tb, plan.Stipulation); err != nil {
			return nil, err
		}
	}
	for _, w := range plan.NewWrestlers {
		if err := addWrestlerCreate(tb, w); err != nil {
			return nil, err
		}
	}
	for _, c := range plan.Championships {
		if err := addChampionshipCreate(tb, c); err != nil {
			return nil, err
		}
	}

	match := plan.Match
	match.EventID = plan.Event.ID
	match.MatchTypeID = plan.MatchType.ID
	if plan.Stipulation != nil {
		match.StipulationID = &plan.Stipulation.ID
	}
	if err := addMatchCreate(tb, match); err != nil {
		return nil, err
	}

	matchRID, err := recordID(match.ID)
	if err != nil {
		return nil, err
	}
	for i, c := range plan.Competitors {
		wrestlerRID, err := recordID(c.WrestlerID)
		if err != nil {
			return nil, err
		}
		tb.Add(`RELATE $wrestler->competes_in->$match SET side_number = $side_number, position = $position`,
			map[string]interface{}{
				"wrestler":    wrestlerRID,
				"match":       matchRID,
				"side_number": c.SideNumber,
				"position":    i,
			})
	}
	for _, titleID := range plan.TitleIDs {
		titleRID, err := recordID(titleID)
		if err != nil {
			return nil, err
		}
		tb.Add(`RELATE $title->contested_in->$match`, map[string]interface{}{
			"title": titleRID,
			"match": matchRID,
		})
	}

	if _, err := database.ExecuteTransaction(ctx, r.db, tb); err != nil {
		return nil, err
	}

	stored, err := r.Get(ctx, match.ID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("%w: match %s missing after commit", database.ErrNotFound, match.ID)
	}
	return stored, nil
}

// addMatchCreate appends the CREATE for m. Optional fields are left out
// rather than sent as NULL, which option<> fields reject.
func addMatchCreate(tb *database.TxBuilder, m *model.Match) error {
	if m.ID == "" {
		m.ID = model.NewID(model.TableMatch)
	}
	rid, err := recordID(m.ID)
	if err != nil {
		return err
	}
	eventRID, err := recordID(m.EventID)
	if err != nil {
		return err
	}
	typeRID, err := recordID(m.MatchTypeID)
	if err != nil {
		return err
	}

	fields := []string{
		"event: $event",
		"match_type: $match_type",
		"match_number: count((SELECT id FROM match WHERE event = $event)) + 1",
		"created_on: time::now()",
		"updated_on: time::now()",
	}
	vars := map[string]interface{}{
		"match":      rid,
		"event":      eventRID,
		"match_type": typeRID,
	}
	if m.StipulationID != nil {
		stipRID, err := recordID(*m.StipulationID)
		if err != nil {
			return err
		}
		fields = append(fields, "stipulation: $stipulation")
		vars["stipulation"] = stipRID
	}
	if m.Preview != nil {
		fields = append(fields, "preview: $preview")
		vars["preview"] = *m.Preview
	}

	tb.Add("CREATE $match CONTENT {\n\t\t"+strings.Join(fields, ",\n\t\t")+"\n\t}", vars)
	return nil
}

// Get retrieves a match by ID, nil when absent
func (r *MatchRepository) Get(ctx context.Context, matchID string) (*model.Match, error) {
	rid, err := recordID(matchID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM $match`, map[string]interface{}{"match": rid})
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	data, err := asRecord(result)
	if err != nil {
		return nil, err
	}
	return parseMatch(data), nil
}

// ListByEvent returns an event's matches in card order
func (r *MatchRepository) ListByEvent(ctx context.Context, eventID string) ([]*model.Match, error) {
	rid, err := recordID(eventID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx,
		`SELECT * FROM match WHERE event = $event AND deleted_on IS NONE ORDER BY match_number ASC`,
		map[string]interface{}{"event": rid})
	if err != nil {
		return nil, err
	}

	rows := extractRecords(result)
	out := make([]*model.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, parseMatch(row))
	}
	return out, nil
}

// Competitors returns the wrestlers attached to a match, by side then in build order
func (r *MatchRepository) Competitors(ctx context.Context, matchID string) ([]model.Competitor, error) {
	rid, err := recordID(matchID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx,
		`SELECT in AS wrestler, side_number, position FROM competes_in WHERE out = $match ORDER BY side_number ASC, position ASC`,
		map[string]interface{}{"match": rid})
	if err != nil {
		return nil, err
	}

	rows := extractRecords(result)
	out := make([]model.Competitor, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.Competitor{
			WrestlerID: getID(row, "wrestler"),
			SideNumber: getInt(row, "side_number"),
		})
	}
	return out, nil
}

// RefereeIDs returns the referees officiating a match in assignment order
func (r *MatchRepository) RefereeIDs(ctx context.Context, matchID string) ([]string, error) {
	return r.edgeSources(ctx,
		`SELECT in AS source, position FROM officiates WHERE out = $match ORDER BY position ASC`, matchID)
}

// TitleIDs returns the titles contested in a match
func (r *MatchRepository) TitleIDs(ctx context.Context, matchID string) ([]string, error) {
	return r.edgeSources(ctx,
		`SELECT in AS source FROM contested_in WHERE out = $match ORDER BY source ASC`, matchID)
}

// WinnerIDs returns the recorded winners of a match
func (r *MatchRepository) WinnerIDs(ctx context.Context, matchID string) ([]string, error) {
	return r.edgeSources(ctx,
		`SELECT in AS source FROM won WHERE out = $match ORDER BY source ASC`, matchID)
}

// LoserIDs returns the recorded losers of a match
func (r *MatchRepository) LoserIDs(ctx context.Context, matchID string) ([]string, error) {
	return r.edgeSources(ctx,
		`SELECT in AS source FROM lost WHERE out = $match ORDER BY source ASC`, matchID)
}

func (r *MatchRepository) edgeSources(ctx context.Context, query, matchID string) ([]string, error) {
	rid, err := recordID(matchID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx, query, map[string]interface{}{"match": rid})
	if err != nil {
		return nil, err
	}

	rows := extractRecords(result)
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		if id := getID(row, "source"); id != "" {
			out = append(out, id)
		}
	}
	return out, nil
}

// AttachReferees creates the synthesized referees and relates them, together
// with the existing refereeIDs, to the match in one transaction. Positions
// continue from startPosition so earlier assignments keep their order.
func (r *MatchRepository) AttachReferees(ctx context.Context, matchID string, newReferees []*model.Referee, refereeIDs []string, startPosition int) error {
	matchRID, err := recordID(matchID)
	if err != nil {
		return err
	}

	tb := database.NewTxBuilder()
	for _, ref := range newReferees {
		if err := addRefereeCreate(tb, ref); err != nil {
			return err
		}
	}

	all := append(append([]string{}, refereeIDs...), model.RefereeIDs(newReferees)...)
	for i, id := range all {
		refRID, err := recordID(id)
		if err != nil {
			return err
		}
		tb.Add(`RELATE $referee->officiates->$match SET position = $position`, map[string]interface{}{
			"referee":  refRID,
			"match":    matchRID,
			"position": startPosition + i,
		})
	}

	_, err = database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// ReplaceWinners swaps the winner set of a match for winnerIDs
func (r *MatchRepository) ReplaceWinners(ctx context.Context, matchID string, winnerIDs []string) error {
	return r.replaceOutcome(ctx, matchID, map[string][]string{edgeWon: winnerIDs})
}

// ReplaceLosers swaps the loser set of a match for loserIDs
func (r *MatchRepository) ReplaceLosers(ctx context.Context, matchID string, loserIDs []string) error {
	return r.replaceOutcome(ctx, matchID, map[string][]string{edgeLost: loserIDs})
}

// ReplaceResult swaps both outcome sets in one transaction
func (r *MatchRepository) ReplaceResult(ctx context.Context, matchID string, winnerIDs, loserIDs []string) error {
	return r.replaceOutcome(ctx, matchID, map[string][]string{edgeWon: winnerIDs, edgeLost: loserIDs})
}

func (r *MatchRepository) replaceOutcome(ctx context.Context, matchID string, sets map[string][]string) error {
	matchRID, err := recordID(matchID)
	if err != nil {
		return err
	}

	tb := database.NewTxBuilder()
	for _, edge := range []string{edgeWon, edgeLost} {
		ids, ok := sets[edge]
		if !ok {
			continue
		}
		if err := addOutcomeReplace(tb, edge, matchRID, ids); err != nil {
			return err
		}
	}

	_, err = database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

func addOutcomeReplace(tb *database.TxBuilder, edge string, matchRID models.RecordID, wrestlerIDs []string) error {
	tb.Add(fmt.Sprintf(`DELETE %s WHERE out = $match`, edge), map[string]interface{}{"match": matchRID})
	for _, id := range wrestlerIDs {
		wrestlerRID, err := recordID(id)
		if err != nil {
			return err
		}
		tb.Add(fmt.Sprintf(`RELATE $wrestler->%s->$match`, edge), map[string]interface{}{
			"wrestler": wrestlerRID,
			"match":    matchRID,
		})
	}
	return nil
}

func parseMatch(data map[string]interface{}) *model.Match {
	return &model.Match{
		ID:            getID(data, "id"),
		EventID:       getID(data, "event"),
		MatchTypeID:   getID(data, "match_type"),
		StipulationID: getIDPtr(data, "stipulation"),
		MatchNumber:   getInt(data, "match_number"),
		Preview:       getStringPtr(data, "preview"),
		CreatedOn:     getTimeValue(data, "created_on"),
		UpdatedOn:     getTimeValue(data, "updated_on"),
		DeletedOn:     getTime(data, "deleted_on"),
	}
}
