package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailwood/Ringside/internal/catalog"
	"github.com/hailwood/Ringside/internal/model"
	"github.com/hailwood/Ringside/internal/repository"
	"github.com/hailwood/Ringside/internal/testing/fixtures"
	"github.com/hailwood/Ringside/internal/testing/testdb"
)

func TestMatchRepository_CreateFromPlan(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := repository.NewMatchRepository(tdb.DB)
	ctx := tdb.Ctx()

	title := f.CreateTitle(t)
	existing := f.CreateWrestler(t)
	synthesized := &model.Wrestler{
		ID:      model.NewID(model.TableWrestler),
		Name:    "The Replacement",
		HiredAt: time.Now().UTC().AddDate(0, -2, 0),
	}

	plan := &model.MatchPlan{
		Event:        &model.Event{Name: "Night of Champions", Date: time.Now().UTC().AddDate(0, 0, 1)},
		NewEvent:     true,
		MatchType:    &model.MatchType{Name: "Singles", Slug: "singles", TotalCompetitors: 2, NumberOfSides: 2},
		Stipulation:  &model.Stipulation{Name: "Steel Cage", Slug: "steel_cage"},
		Match:        &model.Match{},
		NewWrestlers: []*model.Wrestler{synthesized},
		Championships: []*model.Championship{
			{TitleID: title.ID, WrestlerID: existing.ID, WonOn: title.IntroducedAt.AddDate(0, -4, 0)},
		},
		Competitors: []model.Competitor{
			{WrestlerID: existing.ID, SideNumber: 0},
			{WrestlerID: synthesized.ID, SideNumber: 1},
		},
		TitleIDs: []string{title.ID},
	}

	match, err := repo.CreateFromPlan(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 1, match.MatchNumber)
	assert.Equal(t, plan.Event.ID, match.EventID)
	assert.Equal(t, "match_type:singles", match.MatchTypeID)
	require.NotNil(t, match.StipulationID)
	assert.Equal(t, "stipulation:steel_cage", *match.StipulationID)

	competitors, err := repo.Competitors(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, plan.Competitors, competitors)

	titleIDs, err := repo.TitleIDs(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{title.ID}, titleIDs)

	open, err := repository.NewTitleRepository(tdb.DB).OpenChampionships(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, existing.ID, open[0].WrestlerID)
}

func TestMatchRepository_MatchNumbersIncreasePerEvent(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := repository.NewMatchRepository(tdb.DB)
	ctx := tdb.Ctx()

	event := f.CreateEvent(t)
	mt := f.CreateMatchType(t, "singles", 2, 2, false)

	for want := 1; want <= 3; want++ {
		match, err := repo.CreateFromPlan(ctx, &model.MatchPlan{Event: event, MatchType: mt, Match: &model.Match{}})
		require.NoError(t, err)
		assert.Equal(t, want, match.MatchNumber)
	}

	matches, err := repo.ListByEvent(ctx, event.ID)
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestMatchRepository_FailedPlanWritesNothing(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := repository.NewMatchRepository(tdb.DB)
	ctx := tdb.Ctx()

	w := f.CreateWrestler(t)
	newcomer := &model.Wrestler{Name: "Never Hired", HiredAt: time.Now().UTC()}
	event := &model.Event{Name: "Doomed", Date: time.Now().UTC()}

	// Same wrestler twice violates the competes_in unique index.
	_, err := repo.CreateFromPlan(ctx, &model.MatchPlan{
		Event:        event,
		NewEvent:     true,
		MatchType:    &model.MatchType{Name: "Singles", Slug: "singles", TotalCompetitors: 2, NumberOfSides: 2},
		Match:        &model.Match{},
		NewWrestlers: []*model.Wrestler{newcomer},
		Competitors:  []model.Competitor{{WrestlerID: w.ID}, {WrestlerID: w.ID, SideNumber: 1}},
	})
	require.Error(t, err)

	stored, err := repository.NewEventRepository(tdb.DB).Get(ctx, event.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)

	ghost, err := repository.NewWrestlerRepository(tdb.DB).Get(ctx, newcomer.ID)
	require.NoError(t, err)
	assert.Nil(t, ghost)
}

func TestMatchRepository_RefereesAndOutcome(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := repository.NewMatchRepository(tdb.DB)
	ctx := tdb.Ctx()

	event := f.CreateEvent(t)
	mt := f.CreateMatchType(t, "battle_royal", 4, 4, true)
	ws := f.CreateWrestlers(t, 4)
	competitors := make([]model.Competitor, 0, len(ws))
	for i, w := range ws {
		competitors = append(competitors, model.Competitor{WrestlerID: w.ID, SideNumber: i})
	}
	match, err := repo.CreateFromPlan(ctx, &model.MatchPlan{Event: event, MatchType: mt, Match: &model.Match{}, Competitors: competitors})
	require.NoError(t, err)

	ref := f.CreateReferee(t)
	extra := &model.Referee{FirstName: "Earl", LastName: "Hebner", HiredAt: time.Now().UTC()}
	require.NoError(t, repo.AttachReferees(ctx, match.ID, []*model.Referee{extra}, []string{ref.ID}, 0))

	refIDs, err := repo.RefereeIDs(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ref.ID, extra.ID}, refIDs)

	require.NoError(t, repo.ReplaceWinners(ctx, match.ID, []string{ws[0].ID}))
	require.NoError(t, repo.ReplaceWinners(ctx, match.ID, []string{ws[1].ID}))
	winners, err := repo.WinnerIDs(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ws[1].ID}, winners)

	require.NoError(t, repo.ReplaceResult(ctx, match.ID, []string{ws[2].ID}, []string{ws[0].ID, ws[3].ID}))
	winners, err = repo.WinnerIDs(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ws[2].ID}, winners)
	losers, err := repo.LoserIDs(ctx, match.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{ws[0].ID, ws[3].ID}, losers)
}

func TestTitleRepository_ApplyReignChanges(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := repository.NewTitleRepository(tdb.DB)
	ctx := tdb.Ctx()

	title := f.CreateTitle(t)
	champ := f.CreateWrestler(t)
	challenger := f.CreateWrestler(t)
	old := f.CreateChampionship(t, title, champ, title.IntroducedAt)

	on := title.IntroducedAt.AddDate(1, 0, 0)
	require.NoError(t, repo.ApplyReignChanges(ctx, []*model.ReignChange{{
		TitleID: title.ID,
		On:      on,
		Closing: []string{old.ID},
		Opening: []*model.Championship{{TitleID: title.ID, WrestlerID: challenger.ID, WonOn: on}},
	}}))

	open, err := repo.OpenChampionships(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, challenger.ID, open[0].WrestlerID)

	history, err := repo.History(ctx, title.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, challenger.ID, history[0].WrestlerID)
	require.NotNil(t, history[1].LostOn)
	assert.True(t, history[1].LostOn.Equal(on))
}

func TestRepositories_GetMissingReturnsNil(t *testing.T) {
	tdb := testdb.New(t)
	ctx := tdb.Ctx()

	match, err := repository.NewMatchRepository(tdb.DB).Get(ctx, model.NewID(model.TableMatch))
	require.NoError(t, err)
	assert.Nil(t, match)

	title, err := repository.NewTitleRepository(tdb.DB).Get(ctx, model.NewID(model.TableTitle))
	require.NoError(t, err)
	assert.Nil(t, title)

	mt, err := repository.NewMatchTypeRepository(tdb.DB).Get(ctx, "match_type:nope")
	require.NoError(t, err)
	assert.Nil(t, mt)
}

func TestMatchTypeRepository_UpsertIsIdempotent(t *testing.T) {
	tdb := testdb.New(t)
	repo := repository.NewMatchTypeRepository(tdb.DB)
	ctx := tdb.Ctx()

	types := catalog.Default().AllMatchTypes()
	require.NoError(t, repo.Upsert(ctx, types...))
	require.NoError(t, repo.Upsert(ctx, types...))

	stored, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, len(types))

	rumble, err := repo.Get(ctx, "match_type:royal_rumble")
	require.NoError(t, err)
	require.NotNil(t, rumble)
	assert.Equal(t, 30, rumble.TotalCompetitors)
	assert.Equal(t, 2, rumble.RequiredReferees())
}

func TestWrestlerRepository_SoftDelete(t *testing.T) {
	tdb := testdb.New(t)
	f := fixtures.New(tdb.DB)
	repo := repository.NewWrestlerRepository(tdb.DB)
	ctx := tdb.Ctx()

	kept := f.CreateWrestler(t)
	released := f.CreateWrestler(t)
	require.NoError(t, repo.SoftDelete(ctx, released.ID))

	active, err := repo.ListActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{kept.ID}, model.WrestlerIDs(active))

	w, err := repo.Get(ctx, released.ID)
	require.NoError(t, err)
	require.NotNil(t, w, "released wrestlers keep their record")
	assert.NotNil(t, w.DeletedOn)
}
