package repository

import (
	"context"
	"errors"
	"time"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// TitleRepository handles titles and their championship ledger
type TitleRepository struct {
	db database.Database
}

// NewTitleRepository creates a new title repository
func NewTitleRepository(db database.Database) *TitleRepository {
	return &TitleRepository{db: db}
}

// Create persists a title
func (r *TitleRepository) Create(ctx context.Context, title *model.Title) error {
	if title.ID == "" {
		title.ID = model.NewID(model.TableTitle)
	}
	rid, err := recordID(title.ID)
	if err != nil {
		return err
	}

	tb := database.NewTxBuilder()
	tb.Add(`CREATE $title CONTENT {
		name: $name,
		introduced_at: $introduced_at,
		created_on: time::now(),
		updated_on: time::now()
	}`, map[string]interface{}{
		"title":         rid,
		"name":          title.Name,
		"introduced_at": title.IntroducedAt,
	})
	_, err = database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// Get retrieves a title by ID, nil when absent
func (r *TitleRepository) Get(ctx context.Context, titleID string) (*model.Title, error) {
	rid, err := recordID(titleID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.QueryOne(ctx, `SELECT * FROM $title`, map[string]interface{}{"title": rid})
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
	return parseTitle(data), nil
}

// GetMany retrieves titles in the order of ids; unknown ids are skipped
func (r *TitleRepository) GetMany(ctx context.Context, titleIDs []string) ([]*model.Title, error) {
	if len(titleIDs) == 0 {
		return nil, nil
	}
	rids, err := recordIDs(titleIDs)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx, `SELECT * FROM $titles`, map[string]interface{}{"titles": rids})
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*model.Title)
	for _, row := range extractRecords(result) {
		t := parseTitle(row)
		byID[t.ID] = t
	}

	out := make([]*model.Title, 0, len(titleIDs))
	for _, id := range titleIDs {
		if t, ok := byID[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// OpenChampionships returns the championships of a title that have not been lost
func (r *TitleRepository) OpenChampionships(ctx context.Context, titleID string) ([]*model.Championship, error) {
	return r.championships(ctx, `SELECT * FROM championship WHERE title = $title AND lost_on IS NONE ORDER BY won_on DESC`, titleID)
}

// OpenChampionshipsMany returns the open championships of every title in titleIDs, keyed by title
func (r *TitleRepository) OpenChampionshipsMany(ctx context.Context, titleIDs []string) (map[string][]*model.Championship, error) {
	out := make(map[string][]*model.Championship, len(titleIDs))
	if len(titleIDs) == 0 {
		return out, nil
	}
	rids, err := recordIDs(titleIDs)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx,
		`SELECT * FROM championship WHERE title IN $titles AND lost_on IS NONE ORDER BY won_on DESC`,
		map[string]interface{}{"titles": rids})
	if err != nil {
		return nil, err
	}

	for _, row := range extractRecords(result) {
		c := parseChampionship(row)
		out[c.TitleID] = append(out[c.TitleID], c)
	}
	return out, nil
}

// History returns every championship of a title, most recent first
func (r *TitleRepository) History(ctx context.Context, titleID string) ([]*model.Championship, error) {
	return r.championships(ctx, `SELECT * FROM championship WHERE title = $title ORDER BY won_on DESC`, titleID)
}

func (r *TitleRepository) championships(ctx context.Context, query, titleID string) ([]*model.Championship, error) {
	rid, err := recordID(titleID)
	if err != nil {
		return nil, err
	}

	result, err := r.db.Query(ctx, query, map[string]interface{}{"title": rid})
	if err != nil {
		return nil, err
	}

	rows := extractRecords(result)
	out := make([]*model.Championship, 0, len(rows))
	for _, row := range rows {
		out = append(out, parseChampionship(row))
	}
	return out, nil
}

// addChampionshipCreate appends the CREATE for c to tb, assigning an id if needed.
func addChampionshipCreate(tb *database.TxBuilder, c *model.Championship) error {
	if c.ID == "" {
		c.ID = model.NewID(model.TableChampionship)
	}
	rid, err := recordID(c.ID)
	if err != nil {
		return err
	}
	titleRID, err := recordID(c.TitleID)
	if err != nil {
		return err
	}
	wrestlerRID, err := recordID(c.WrestlerID)
	if err != nil {
		return err
	}

	tb.Add(`CREATE $championship CONTENT {
		title: $title,
		wrestler: $wrestler,
		won_on: $won_on
	}`, map[string]interface{}{
		"championship": rid,
		"title":        titleRID,
		"wrestler":     wrestlerRID,
		"won_on":       c.WonOn,
	})
	return nil
}

// addChampionshipClose appends the UPDATE ending an open championship.
// Closed rows are left alone so a replayed change cannot move lost_on.
func addChampionshipClose(tb *database.TxBuilder, championshipID string, lostOn time.Time) error {
	rid, err := recordID(championshipID)
	if err != nil {
		return err
	}
	tb.Add(`UPDATE $championship SET lost_on = $lost_on WHERE lost_on IS NONE`, map[string]interface{}{
		"championship": rid,
		"lost_on":      lostOn,
	})
	return nil
}

// CreateChampionship persists a single championship
func (r *TitleRepository) CreateChampionship(ctx context.Context, c *model.Championship) error {
	tb := database.NewTxBuilder()
	if err := addChampionshipCreate(tb, c); err != nil {
		return err
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

// ApplyReignChanges closes and opens championships for every change in one transaction
func (r *TitleRepository) ApplyReignChanges(ctx context.Context, changes []*model.ReignChange) error {
	tb := database.NewTxBuilder()
	for _, change := range changes {
		if change.Retained {
			continue
		}
		for _, id := range change.Closing {
			if err := addChampionshipClose(tb, id, change.On); err != nil {
				return err
			}
		}
		for _, c := range change.Opening {
			if err := addChampionshipCreate(tb, c); err != nil {
				return err
			}
		}
	}
	_, err := database.ExecuteTransaction(ctx, r.db, tb)
	return err
}

func parseTitle(data map[string]interface{}) *model.Title {
	return &model.Title{
		ID:           getID(data, "id"),
		Name:         getString(data, "name"),
		IntroducedAt: getTimeValue(data, "introduced_at"),
		CreatedOn:    getTimeValue(data, "created_on"),
		DeletedOn:    getTime(data, "deleted_on"),
	}
}

func parseChampionship(data map[string]interface{}) *model.Championship {
	c := &model.Championship{
		ID:         getID(data, "id"),
		TitleID:    getID(data, "title"),
		WrestlerID: getID(data, "wrestler"),
		WonOn:      getTimeValue(data, "won_on"),
	}
	if lost := getTime(data, "lost_on"); lost != nil {
		t := lost.UTC()
		c.LostOn = &t
	}
	return c
}
