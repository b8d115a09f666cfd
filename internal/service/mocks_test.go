package service

import (
	"context"
	"io"
	"log/slog"
	mrand "math/rand/v2"
	"sort"
	"time"

	"github.com/hailwood/Ringside/internal/catalog"
	"github.com/hailwood/Ringside/internal/model"
)

// ============================================================================
// In-memory store
// ============================================================================

// memStore keeps every table in maps so builds can be checked end to end.
// createErr and attachErr fail the matching write before anything is stored.
type memStore struct {
	events        map[string]*model.Event
	matchTypes    map[string]*model.MatchType
	stipulations  map[string]*model.Stipulation
	wrestlers     map[string]*model.Wrestler
	referees      map[string]*model.Referee
	titles        map[string]*model.Title
	championships []*model.Championship
	matches       map[string]*model.Match
	competitors   map[string][]model.Competitor
	officials     map[string][]string
	titleEdges    map[string][]string
	won           map[string][]string
	lost          map[string][]string

	plans     []*model.MatchPlan
	createErr error
	attachErr error
}

func newMemStore() *memStore {
	return &memStore{
		events:       make(map[string]*model.Event),
		matchTypes:   make(map[string]*model.MatchType),
		stipulations: make(map[string]*model.Stipulation),
		wrestlers:    make(map[string]*model.Wrestler),
		referees:     make(map[string]*model.Referee),
		titles:       make(map[string]*model.Title),
		matches:      make(map[string]*model.Match),
		competitors:  make(map[string][]model.Competitor),
		officials:    make(map[string][]string),
		titleEdges:   make(map[string][]string),
		won:          make(map[string][]string),
		lost:         make(map[string][]string),
	}
}

func (m *memStore) addWrestlers(n int) []*model.Wrestler {
	out := make([]*model.Wrestler, 0, n)
	for i := 0; i < n; i++ {
		w := &model.Wrestler{ID: model.NewID(model.TableWrestler), Name: "Wrestler", HiredAt: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
		m.wrestlers[w.ID] = w
		out = append(out, w)
	}
	return out
}

func (m *memStore) addReferee() *model.Referee {
	r := &model.Referee{ID: model.NewID(model.TableReferee), FirstName: "Earl", LastName: "Hebner"}
	m.referees[r.ID] = r
	return r
}

func (m *memStore) addTitle(name string, introduced time.Time) *model.Title {
	t := &model.Title{ID: model.NewID(model.TableTitle), Name: name, IntroducedAt: introduced}
	m.titles[t.ID] = t
	return t
}

func (m *memStore) addReign(titleID string, wonOn time.Time, wrestlerIDs ...string) {
	for _, id := range wrestlerIDs {
		m.championships = append(m.championships, &model.Championship{
			ID: model.NewID(model.TableChampionship), TitleID: titleID, WrestlerID: id, WonOn: wonOn,
		})
	}
}

// addMatch stores a built match directly, bypassing the builder.
func (m *memStore) addMatch(mt *model.MatchType, event *model.Event, sides ...[]*model.Wrestler) *model.Match {
	m.matchTypes[mt.ID] = mt
	m.events[event.ID] = event
	match := &model.Match{ID: model.NewID(model.TableMatch), EventID: event.ID, MatchTypeID: mt.ID, MatchNumber: 1}
	m.matches[match.ID] = match
	for side, ws := range sides {
		for _, w := range ws {
			m.wrestlers[w.ID] = w
			m.competitors[match.ID] = append(m.competitors[match.ID], model.Competitor{WrestlerID: w.ID, SideNumber: side})
		}
	}
	return match
}

func (m *memStore) openRows(titleID string) []*model.Championship {
	var out []*model.Championship
	for _, c := range m.championships {
		if c.TitleID == titleID && c.IsOpen() {
			out = append(out, c)
		}
	}
	return out
}

// ===== match repository =====

type memMatches struct{ *memStore }

func (m memMatches) CreateFromPlan(_ context.Context, plan *model.MatchPlan) (*model.Match, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.plans = append(m.plans, plan)
	if plan.NewEvent {
		m.events[plan.Event.ID] = plan.Event
	}
	m.matchTypes[plan.MatchType.ID] = plan.MatchType
	if plan.Stipulation != nil {
		m.stipulations[plan.Stipulation.ID] = plan.Stipulation
	}
	for _, w := range plan.NewWrestlers {
		m.wrestlers[w.ID] = w
	}
	m.championships = append(m.championships, plan.Championships...)

	match := *plan.Match
	match.EventID = plan.Event.ID
	match.MatchTypeID = plan.MatchType.ID
	if plan.Stipulation != nil {
		match.StipulationID = &plan.Stipulation.ID
	}
	match.MatchNumber = 1
	for _, other := range m.matches {
		if other.EventID == match.EventID {
			match.MatchNumber++
		}
	}
	m.matches[match.ID] = &match
	m.competitors[match.ID] = append([]model.Competitor(nil), plan.Competitors...)
	m.titleEdges[match.ID] = append([]string(nil), plan.TitleIDs...)
	return &match, nil
}

func (m memMatches) Get(_ context.Context, id string) (*model.Match, error) {
	return m.matches[id], nil
}

func (m memMatches) Competitors(_ context.Context, id string) ([]model.Competitor, error) {
	return m.competitors[id], nil
}

func (m memMatches) RefereeIDs(_ context.Context, id string) ([]string, error) {
	return m.officials[id], nil
}

func (m memMatches) TitleIDs(_ context.Context, id string) ([]string, error) {
	return m.titleEdges[id], nil
}

func (m memMatches) WinnerIDs(_ context.Context, id string) ([]string, error) {
	return m.won[id], nil
}

func (m memMatches) LoserIDs(_ context.Context, id string) ([]string, error) {
	return m.lost[id], nil
}

func (m memMatches) AttachReferees(_ context.Context, id string, newRefs []*model.Referee, refIDs []string, _ int) error {
	if m.attachErr != nil {
		return m.attachErr
	}
	for _, r := range newRefs {
		m.referees[r.ID] = r
	}
	m.officials[id] = append(m.officials[id], refIDs...)
	m.officials[id] = append(m.officials[id], model.RefereeIDs(newRefs)...)
	return nil
}

func (m memMatches) ReplaceWinners(_ context.Context, id string, ids []string) error {
	m.won[id] = append([]string(nil), ids...)
	return nil
}

func (m memMatches) ReplaceLosers(_ context.Context, id string, ids []string) error {
	m.lost[id] = append([]string(nil), ids...)
	return nil
}

func (m memMatches) ReplaceResult(_ context.Context, id string, winners, losers []string) error {
	m.won[id] = append([]string(nil), winners...)
	m.lost[id] = append([]string(nil), losers...)
	return nil
}

// ===== lookups =====

type memEvents struct{ *memStore }

func (m memEvents) Get(_ context.Context, id string) (*model.Event, error) { return m.events[id], nil }

type memMatchTypes struct{ *memStore }

func (m memMatchTypes) Get(_ context.Context, id string) (*model.MatchType, error) {
	return m.matchTypes[id], nil
}

type memStipulations struct{ *memStore }

func (m memStipulations) Get(_ context.Context, id string) (*model.Stipulation, error) {
	return m.stipulations[id], nil
}

type memWrestlers struct{ *memStore }

func (m memWrestlers) GetMany(_ context.Context, ids []string) ([]*model.Wrestler, error) {
	var out []*model.Wrestler
	for _, id := range ids {
		if w, ok := m.wrestlers[id]; ok {
			out = append(out, w)
		}
	}
	return out, nil
}

type memReferees struct{ *memStore }

func (m memReferees) GetMany(_ context.Context, ids []string) ([]*model.Referee, error) {
	var out []*model.Referee
	for _, id := range ids {
		if r, ok := m.referees[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

// ===== title repository =====

type memTitles struct{ *memStore }

func (m memTitles) Get(_ context.Context, id string) (*model.Title, error) { return m.titles[id], nil }

func (m memTitles) GetMany(_ context.Context, ids []string) ([]*model.Title, error) {
	var out []*model.Title
	for _, id := range ids {
		if t, ok := m.titles[id]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m memTitles) OpenChampionships(_ context.Context, id string) ([]*model.Championship, error) {
	return m.openRows(id), nil
}

func (m memTitles) OpenChampionshipsMany(_ context.Context, ids []string) (map[string][]*model.Championship, error) {
	out := make(map[string][]*model.Championship)
	for _, id := range ids {
		if rows := m.openRows(id); len(rows) > 0 {
			out[id] = rows
		}
	}
	return out, nil
}

func (m memTitles) History(_ context.Context, id string) ([]*model.Championship, error) {
	var out []*model.Championship
	for _, c := range m.championships {
		if c.TitleID == id {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WonOn.After(out[j].WonOn) })
	return out, nil
}

func (m memTitles) ApplyReignChanges(_ context.Context, changes []*model.ReignChange) error {
	for _, change := range changes {
		if change.Retained {
			continue
		}
		for _, id := range change.Closing {
			for _, c := range m.championships {
				if c.ID == id && c.IsOpen() {
					on := change.On
					c.LostOn = &on
				}
			}
		}
		m.championships = append(m.championships, change.Opening...)
	}
	return nil
}

// ============================================================================
// Mock Repositories
// ============================================================================

type mockTitleRepo struct {
	getFunc                   func(ctx context.Context, titleID string) (*model.Title, error)
	getManyFunc               func(ctx context.Context, titleIDs []string) ([]*model.Title, error)
	openChampionshipsFunc     func(ctx context.Context, titleID string) ([]*model.Championship, error)
	openChampionshipsManyFunc func(ctx context.Context, titleIDs []string) (map[string][]*model.Championship, error)
	historyFunc               func(ctx context.Context, titleID string) ([]*model.Championship, error)
	applyReignChangesFunc     func(ctx context.Context, changes []*model.ReignChange) error
}

func (m *mockTitleRepo) Get(ctx context.Context, titleID string) (*model.Title, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, titleID)
	}
	return nil, nil
}

func (m *mockTitleRepo) GetMany(ctx context.Context, titleIDs []string) ([]*model.Title, error) {
	if m.getManyFunc != nil {
		return m.getManyFunc(ctx, titleIDs)
	}
	return nil, nil
}

func (m *mockTitleRepo) OpenChampionships(ctx context.Context, titleID string) ([]*model.Championship, error) {
	if m.openChampionshipsFunc != nil {
		return m.openChampionshipsFunc(ctx, titleID)
	}
	return nil, nil
}

func (m *mockTitleRepo) OpenChampionshipsMany(ctx context.Context, titleIDs []string) (map[string][]*model.Championship, error) {
	if m.openChampionshipsManyFunc != nil {
		return m.openChampionshipsManyFunc(ctx, titleIDs)
	}
	return map[string][]*model.Championship{}, nil
}

func (m *mockTitleRepo) History(ctx context.Context, titleID string) ([]*model.Championship, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, titleID)
	}
	return nil, nil
}

func (m *mockTitleRepo) ApplyReignChanges(ctx context.Context, changes []*model.ReignChange) error {
	if m.applyReignChangesFunc != nil {
		return m.applyReignChangesFunc(ctx, changes)
	}
	return nil
}

type mockTitleMatchRepo struct {
	getFunc       func(ctx context.Context, matchID string) (*model.Match, error)
	titleIDsFunc  func(ctx context.Context, matchID string) ([]string, error)
	winnerIDsFunc func(ctx context.Context, matchID string) ([]string, error)
}

func (m *mockTitleMatchRepo) Get(ctx context.Context, matchID string) (*model.Match, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, matchID)
	}
	return nil, nil
}

func (m *mockTitleMatchRepo) TitleIDs(ctx context.Context, matchID string) ([]string, error) {
	if m.titleIDsFunc != nil {
		return m.titleIDsFunc(ctx, matchID)
	}
	return nil, nil
}

func (m *mockTitleMatchRepo) WinnerIDs(ctx context.Context, matchID string) ([]string, error) {
	if m.winnerIDsFunc != nil {
		return m.winnerIDsFunc(ctx, matchID)
	}
	return nil, nil
}

// ============================================================================
// Service constructors
// ============================================================================

var testNow = time.Date(2024, time.June, 15, 20, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestMatchService(store *memStore, cat *catalog.Catalog) *MatchService {
	if cat == nil {
		cat = catalog.Default()
	}
	return NewMatchService(MatchServiceConfig{
		MatchRepo:          memMatches{store},
		EventRepo:          memEvents{store},
		MatchTypeRepo:      memMatchTypes{store},
		StipulationRepo:    memStipulations{store},
		WrestlerRepo:       memWrestlers{store},
		RefereeRepo:        memReferees{store},
		TitleRepo:          memTitles{store},
		Catalog:            cat,
		Synthesizer:        NewRosterSynthesizer(mrand.New(mrand.NewPCG(1, 2))),
		ChampionLeadMonths: 4,
		HireLeadMonths:     2,
		Now:                func() time.Time { return testNow },
		Logger:             discardLogger(),
	})
}

func newTestTitleService(store *memStore) *TitleService {
	return NewTitleService(TitleServiceConfig{
		TitleRepo: memTitles{store},
		MatchRepo: memMatches{store},
		EventRepo: memEvents{store},
		Logger:    discardLogger(),
	})
}

func matchType(slug string, total, sides int, multipleReferees bool) *model.MatchType {
	return &model.MatchType{
		ID:               model.SlugID(model.TableMatchType, slug),
		Name:             slug,
		Slug:             slug,
		TotalCompetitors: total,
		NumberOfSides:    sides,
		MultipleReferees: multipleReferees,
	}
}
