package repository

import (
	"context"
	"errors"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// WrestlerRepository handles wrestler data access
type WrestlerRepository struct {
	db database.Database
}

// NewWrestlerRepository creates a new wrestler repository
func NewWrestlerRepository(db database.Database) *WrestlerRepository {
	return &WrestlerRepository{db: db}
}

// addWrestlerCreate appends the CREATE for w to tb, assigning an id if needed.
func addWrestlerCreate(tb *database.TxBuilder, w *model.Wrestler) error {
	if w.ID == "" {
		w.ID = model.NewID(model.TableWrestler)
	}
	rid, err := recordID(w.ID)
	if err != nil {
		return err
	}
	tb.Add(`CREATE $wrestler CONTENT {
		name: $name,
		hired_at: $hired_at,
		created_on: time::now(),
		updated_on: time::now()
	}`, map[string]interface{}{
		"wrestler": rid,
		"name":     w.Name,
		"hired_at": w.HiredAt,
	})
	return nil
}

// Create persists a wrestler
func (r *WrestlerRepository) Create(ctx context.Context, w *model.Wrestler) error {
	tb := database.NewTxBuilder()
	if err := addWrestlerCreate(tb, w); err != nil {
		return err
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// Get retrieves a wrestler by ID, nil when absent
func (r *WrestlerRepository) Get(ctx context.Context, wrestlerID string) (*model.Wrestler, error) {
	rid, err := recordID(wrestlerID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM $wrestler`, map[string]interface{}{"wrestler": rid})
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
	return parseWrestler(data), nil
}

// GetMany retrieves wrestlers in the order of ids; unknown ids are skipped
func (r *WrestlerRepository) GetMany(ctx context.Context, wrestlerIDs []string) ([]*model.Wrestler, error) {
	if len(wrestlerIDs) == 0 {
		return nil, nil
	}
	rids, err := recordIDs(wrestlerIDs)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx, `SELECT * FROM $wrestlers`, map[string]interface{}{"wrestlers": rids})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Wrestler)
	for _, row := range extractRecords(result) {
		w := parseWrestler(row)
		byID[w.ID] = w
	}

	out := make([]*model.Wrestler, 0, len(wrestlerIDs))
	for _, id := range wrestlerIDs {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

// ListActive returns wrestlers that have not been released, by name
func (r *WrestlerRepository) ListActive(ctx context.Context) ([]*model.Wrestler, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM wrestler WHERE deleted_on IS NONE ORDER BY name ASC`, nil)
	if err != nil {
		return nil, err
	}

	rows := extractRecords(result)
	out := make([]*model.Wrestler, 0, len(rows))
	for _, row := range rows {
		out = append(out, parseWrestler(row))
	}
	return out, nil
}

// SoftDelete releases a wrestler; their match history is kept
func (r *WrestlerRepository) SoftDelete(ctx context.Context, wrestlerID string) error {
	rid, err := recordID(wrestlerID)
	if err != nil {
		return err
	}
	return r.db.Execute(ctx, `UPDATE $wrestler SET deleted_on = time::now(), updated_on = time::now()`,
		map[string]interface{}{"wrestler": rid})
}

func parseWrestler(data map[string]interface{}) *model.Wrestler {
	return &model.Wrestler{
		ID:        getID(data, "id"),
		Name:      getString(data, "name"),
		HiredAt:   getTimeValue(data, "hired_at"),
		CreatedOn: getTimeValue(data, "created_on"),
		UpdatedOn: getTimeValue(data, "updated_on"),
		DeletedOn: getTime(data, "deleted_on"),
	}
}

// RefereeRepository handles referee data access
type RefereeRepository struct {
	db database.Database
}

// NewRefereeRepository creates a new referee repository
func NewRefereeRepository(db database.Database) *RefereeRepository {
	return &RefereeRepository{db: db}
}

// addRefereeCreate appends the CREATE for ref to tb, assigning an id if needed.
func addRefereeCreate(tb *database.TxBuilder, ref *model.Referee) error {
	if ref.ID == "" {
		ref.ID = model.NewID(model.TableReferee)
	}
	rid, err := recordID(ref.ID)
	if err != nil {
		return err
	}
	tb.Add(`CREATE $referee CONTENT {
		first_name: $first_name,
		last_name: $last_name,
		hired_at: $hired_at,
		created_on: time::now(),
		updated_on: time::now()
	}`, map[string]interface{}{
		"referee":    rid,
		"first_name": ref.FirstName,
		"last_name":  ref.LastName,
		"hired_at":   ref.HiredAt,
	})
	return nil
}

// Create persists a referee
func (r *RefereeRepository) Create(ctx context.Context, ref *model.Referee) error {
	tb := database.NewTxBuilder()
	if err := addRefereeCreate(tb, ref); err != nil {
		return err
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// GetMany retrieves referees in the order of ids; unknown ids are skipped
func (r *RefereeRepository) GetMany(ctx context.Context, refereeIDs []string) ([]*model.Referee, error) {
	if len(refereeIDs) == 0 {
		return nil, nil
	}
	rids, err := recordIDs(refereeIDs)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx, `SELECT * FROM $referees`, map[string]interface{}{"referees": rids})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Referee)
	for _, row := range extractRecords(result) {
		ref := parseReferee(row)
		byID[ref.ID] = ref
	}

	out := make([]*model.Referee, 0, len(refereeIDs))
	for _, id := range refereeIDs {
		if ref, ok := byID[id]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

// SoftDelete retires a referee
func (r *RefereeRepository) SoftDelete(ctx context.Context, refereeID string) error {
	rid, err := recordID(refereeID)
	if err != nil {
		return err
	}
	return r.db.Execute(ctx, `UPDATE $referee SET deleted_on = time::now(), updated_on = time::now()`,
		map[string]interface{}{"referee": rid})
}

func parseReferee(data map[string]interface{}) *model.Referee {
	return &model.Referee{
		ID:        getID(data, "id"),
		FirstName: getString(data, "first_name"),
		LastName:  getString(data, "last_name"),
		HiredAt:   getTimeValue(data, "hired_at"),
		CreatedOn: getTimeValue(data, "created_on"),
		UpdatedOn: getTimeValue(data, "updated_on"),
		DeletedOn: getTime(data, "deleted_on"),
	}
}
