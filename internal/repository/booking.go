package repository

import (
	"context"
	"errors"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// EventRepository handles event data access
type EventRepository struct {
	db database.Database
}

// NewEventRepository creates a new event repository
func NewEventRepository(db database.Database) *EventRepository {
	return &EventRepository{db: db}
}

func addEventCreate(tb *database.TxBuilder, event *model.Event) error {
	if event.ID == "" {
		event.ID = model.NewID(model.TableEvent)
	}
	rid, err := recordID(event.ID)
	if err != nil {
		return err
	}
	tb.Add(`CREATE $event CONTENT {
		name: $name,
		date: $date,
		created_on: time::now(),
		updated_on: time::now()
	}`, map[string]interface{}{
		"event": rid,
		"name":  event.Name,
		"date":  event.Date,
	})
	return nil
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *model.Event) error {
	tb := database.NewTxBuilder()
	if err := addEventCreate(tb, event); err != nil {
		return err
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// Get retrieves an event by ID, nil when absent
func (r *EventRepository) Get(ctx context.Context, eventID string) (*model.Event, error) {
	rid, err := recordID(eventID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM $event`, map[string]interface{}{"event": rid})
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
	return parseEvent(data), nil
}

func parseEvent(data map[string]interface{}) *model.Event {
	return &model.Event{
		ID:        getID(data, "id"),
		Name:      getString(data, "name"),
		Date:      getTimeValue(data, "date"),
		CreatedOn: getTimeValue(data, "created_on"),
		UpdatedOn: getTimeValue(data, "updated_on"),
		DeletedOn: getTime(data, "deleted_on"),
	}
}

// MatchTypeRepository handles match type data access
type MatchTypeRepository struct {
	db database.Database
}

// NewMatchTypeRepository creates a new match type repository
func NewMatchTypeRepository(db database.Database) *MatchTypeRepository {
	return &MatchTypeRepository{db: db}
}

func addMatchTypeUpsert(tb *database.TxBuilder, mt *model.MatchType) error {
	if mt.ID == "" {
		mt.ID = model.SlugID(model.TableMatchType, mt.Slug)
	}
	rid, err := recordID(mt.ID)
	if err != nil {
		return err
	}
	tb.Add(`UPSERT $match_type CONTENT {
		name: $name,
		slug: $slug,
		total_competitors: $total_competitors,
		number_of_sides: $number_of_sides,
		multiple_referees: $multiple_referees
	}`, map[string]interface{}{
		"match_type":        rid,
		"name":              mt.Name,
		"slug":              mt.Slug,
		"total_competitors": mt.TotalCompetitors,
		"number_of_sides":   mt.NumberOfSides,
		"multiple_referees": mt.MultipleReferees,
	})
	return nil
}

// Upsert creates or replaces match types by id
func (r *MatchTypeRepository) Upsert(ctx context.Context, types ...*model.MatchType) error {
	tb := database.NewTxBuilder()
	for _, mt := range types {
		if err := addMatchTypeUpsert(tb, mt); err != nil {
			return err
		}
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// Get retrieves a match type by ID, nil when absent
func (r *MatchTypeRepository) Get(ctx context.Context, matchTypeID string) (*model.MatchType, error) {
	rid, err := recordID(matchTypeID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM $match_type`, map[string]interface{}{"match_type": rid})
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
	return parseMatchType(data), nil
}

// List returns every match type by name
func (r *MatchTypeRepository) List(ctx context.Context) ([]*model.MatchType, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM match_type ORDER BY name ASC`, nil)
	if err != nil {
		return nil, err
	}

	rows := extractRecords(result)
	out := make([]*model.MatchType, 0, len(rows))
	for _, row := range rows {
		out = append(out, parseMatchType(row))
	}
	return out, nil
}

func parseMatchType(data map[string]interface{}) *model.MatchType {
	return &model.MatchType{
		ID:               getID(data, "id"),
		Name:             getString(data, "name"),
		Slug:             getString(data, "slug"),
		TotalCompetitors: getInt(data, "total_competitors"),
		NumberOfSides:    getInt(data, "number_of_sides"),
		MultipleReferees: getBool(data, "multiple_referees"),
	}
}

// StipulationRepository handles stipulation data access
type StipulationRepository struct {
	db database.Database
}

// NewStipulationRepository creates a new stipulation repository
func NewStipulationRepository(db database.Database) *StipulationRepository {
	return &StipulationRepository{db: db}
}

func addStipulationUpsert(tb *database.TxBuilder, s *model.Stipulation) error {
	if s.ID == "" {
		s.ID = model.SlugID(model.TableStipulation, s.Slug)
	}
	rid, err := recordID(s.ID)
	if err != nil {
		return err
	}
	tb.Add(`UPSERT $stipulation CONTENT { name: $name, slug: $slug }`, map[string]interface{}{
		"stipulation": rid,
		"name":        s.Name,
		"slug":        s.Slug,
	})
	return nil
}

// Upsert creates or replaces stipulations by id
func (r *StipulationRepository) Upsert(ctx context.Context, stips ...*model.Stipulation) error {
	tb := database.NewTxBuilder()
	for _, s := range stips {
		if err := addStipulationUpsert(tb, s); err != nil {
			return err
		}
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// Get retrieves a stipulation by ID, nil when absent
func (r *StipulationRepository) Get(ctx context.Context, stipulationID string) (*model.Stipulation, error) {
	rid, err := recordID(stipulationID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM $stipulation`, map[string]interface{}{"stipulation": rid})
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
	return &model.Stipulation{
		ID:   getID(data, "id"),
		Name: getString(data, "name"),
		Slug: getString(data, "slug"),
	}, nil
}
