package fixtures

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
	"github.com/hailwood/Ringside/internal/repository"
)

// Factory creates test entities in the database
type Factory struct {
	db database.Database
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{db: db}
}

// suffix generates a short random name suffix
func suffix() string {
	return uuid.NewString()[:8]
}

// ctx returns a context bounded by the test's lifetime
func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// Booking Fixtures
// ============================================================================

// EventOpts customizes event creation
type EventOpts struct {
	Name string
	Date time.Time
}

// CreateEvent creates an event dated tomorrow unless overridden
func (f *Factory) CreateEvent(t *testing.T, opts ...func(*EventOpts)) *model.Event {
	t.Helper()

	o := &EventOpts{
		Name: fmt.Sprintf("Event %s", suffix()),
		Date: time.Now().UTC().Truncate(time.Second).AddDate(0, 0, 1),
	}
	for _, fn := range opts {
		fn(o)
	}

	event := &model.Event{Name: o.Name, Date: o.Date}
	if err := repository.NewEventRepository(f.db).Create(ctx(t), event); err != nil {
		t.Fatalf("fixtures: failed to create event: %v", err)
	}
	return event
}

// CreateMatchType upserts a match type
func (f *Factory) CreateMatchType(t *testing.T, slug string, total, sides int, multipleReferees bool) *model.MatchType {
	t.Helper()

	mt := &model.MatchType{
		Name:             slug,
		Slug:             slug,
		TotalCompetitors: total,
		NumberOfSides:    sides,
		MultipleReferees: multipleReferees,
	}
	if err := repository.NewMatchTypeRepository(f.db).Upsert(ctx(t), mt); err != nil {
		t.Fatalf("fixtures: failed to upsert match type: %v", err)
	}
	return mt
}

// ============================================================================
// Roster Fixtures
// ============================================================================

// WrestlerOpts customizes wrestler creation
type WrestlerOpts struct {
	Name    string
	HiredAt time.Time
}

// CreateWrestler creates a wrestler hired a year ago unless overridden
func (f *Factory) CreateWrestler(t *testing.T, opts ...func(*WrestlerOpts)) *model.Wrestler {
	t.Helper()

	o := &WrestlerOpts{
		Name:    fmt.Sprintf("Wrestler %s", suffix()),
		HiredAt: time.Now().UTC().Truncate(time.Second).AddDate(-1, 0, 0),
	}
	for _, fn := range opts {
		fn(o)
	}

	w := &model.Wrestler{Name: o.Name, HiredAt: o.HiredAt}
	if err := repository.NewWrestlerRepository(f.db).Create(ctx(t), w); err != nil {
		t.Fatalf("fixtures: failed to create wrestler: %v", err)
	}
	return w
}

// CreateWrestlers creates n default wrestlers
func (f *Factory) CreateWrestlers(t *testing.T, n int) []*model.Wrestler {
	t.Helper()
	out := make([]*model.Wrestler, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, f.CreateWrestler(t))
	}
	return out
}

// CreateReferee creates a referee hired a year ago
func (f *Factory) CreateReferee(t *testing.T) *model.Referee {
	t.Helper()

	ref := &model.Referee{
		FirstName: "Ref",
		LastName:  suffix(),
		HiredAt:   time.Now().UTC().Truncate(time.Second).AddDate(-1, 0, 0),
	}
	if err := repository.NewRefereeRepository(f.db).Create(ctx(t), ref); err != nil {
		t.Fatalf("fixtures: failed to create referee: %v", err)
	}
	return ref
}

// ============================================================================
// Title Fixtures
// ============================================================================

// TitleOpts customizes title creation
type TitleOpts struct {
	Name         string
	IntroducedAt time.Time
}

// CreateTitle creates a title introduced two years ago unless overridden
func (f *Factory) CreateTitle(t *testing.T, opts ...func(*TitleOpts)) *model.Title {
	t.Helper()

	o := &TitleOpts{
		Name:         fmt.Sprintf("Title %s", suffix()),
		IntroducedAt: time.Date(time.Now().Year()-2, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
	for _, fn := range opts {
		fn(o)
	}

	title := &model.Title{Name: o.Name, IntroducedAt: o.IntroducedAt}
	if err := repository.NewTitleRepository(f.db).Create(ctx(t), title); err != nil {
		t.Fatalf("fixtures: failed to create title: %v", err)
	}
	return title
}

// CreateChampionship opens a reign of title for wrestler starting wonOn
func (f *Factory) CreateChampionship(t *testing.T, title *model.Title, wrestler *model.Wrestler, wonOn time.Time) *model.Championship {
	t.Helper()

	c := &model.Championship{TitleID: title.ID, WrestlerID: wrestler.ID, WonOn: wonOn}
	if err := repository.NewTitleRepository(f.db).CreateChampionship(ctx(t), c); err != nil {
		t.Fatalf("fixtures: failed to create championship: %v", err)
	}
	return c
}
