package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailwood/Ringside/internal/model"
)

func testEvent() *model.Event {
	return &model.Event{ID: model.NewID(model.TableEvent), Name: "SummerSlam", Date: testNow.AddDate(0, 0, -1)}
}

func TestAssignReferees_SynthesizesToRequirement(t *testing.T) {
	tests := []struct {
		name     string
		multiple bool
		want     int
	}{
		{"single referee", false, 1},
		{"multiple referees", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			svc := newTestMatchService(store, nil)
			match := store.addMatch(matchType("m", 2, 2, tt.multiple), testEvent(), store.addWrestlers(1), store.addWrestlers(1))

			ids, err := svc.AssignReferees(context.Background(), match.ID, nil)
			require.NoError(t, err)

			assert.Len(t, ids, tt.want)
			assert.Equal(t, ids, store.officials[match.ID])
			wantHired := testNow.AddDate(0, -2, 0)
			for _, id := range ids {
				require.Contains(t, store.referees, id)
				assert.True(t, store.referees[id].HiredAt.Equal(wantHired))
			}
		})
	}
}

func TestAssignReferees_SuppliedCandidates(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("battle_royal", 4, 4, true), testEvent(), store.addWrestlers(1), store.addWrestlers(1), store.addWrestlers(1), store.addWrestlers(1))
	ref := store.addReferee()

	ids, err := svc.AssignReferees(context.Background(), match.ID, []string{ref.ID, ref.ID})
	require.NoError(t, err)

	require.Len(t, ids, 2)
	assert.Equal(t, ref.ID, ids[0], "supplied referees come first")
	assert.Len(t, store.referees, 2, "one referee synthesized")
}

func TestAssignReferees_ExactCandidatesNeedNoSynthesis(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("battle_royal", 2, 2, true), testEvent(), store.addWrestlers(1), store.addWrestlers(1))
	a, b := store.addReferee(), store.addReferee()

	ids, err := svc.AssignReferees(context.Background(), match.ID, []string{a.ID, b.ID})
	require.NoError(t, err)

	assert.Equal(t, []string{a.ID, b.ID}, ids)
	assert.Len(t, store.referees, 2)
}

func TestAssignReferees_OverAssignmentAttachesNothing(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), store.addWrestlers(1), store.addWrestlers(1))
	a, b := store.addReferee(), store.addReferee()

	_, err := svc.AssignReferees(context.Background(), match.ID, []string{a.ID, b.ID})

	require.ErrorIs(t, err, ErrOverAssignment)
	assert.Empty(t, store.officials[match.ID])
	assert.Len(t, store.referees, 2)
}

func TestAssignReferees_SecondCallIsOverAssignment(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), store.addWrestlers(1), store.addWrestlers(1))

	first, err := svc.AssignReferees(context.Background(), match.ID, nil)
	require.NoError(t, err)

	_, err = svc.AssignReferees(context.Background(), match.ID, nil)
	require.ErrorIs(t, err, ErrOverAssignment)
	assert.Equal(t, first, store.officials[match.ID])
}

func TestAssignReferees_TopsUpPartialAssignment(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("battle_royal", 2, 2, true), testEvent(), store.addWrestlers(1), store.addWrestlers(1))
	a, b := store.addReferee(), store.addReferee()
	store.officials[match.ID] = []string{a.ID}

	_, err := svc.AssignReferees(context.Background(), match.ID, []string{a.ID})
	assert.ErrorIs(t, err, ErrOverAssignment, "already officiating")

	_, err = svc.AssignReferees(context.Background(), match.ID, []string{b.ID, store.addReferee().ID})
	assert.ErrorIs(t, err, ErrOverAssignment, "one slot left")

	ids, err := svc.AssignReferees(context.Background(), match.ID, []string{b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID}, ids)
	assert.Equal(t, []string{a.ID, b.ID}, store.officials[match.ID])
}

func TestAssignReferees_Errors(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), store.addWrestlers(1), store.addWrestlers(1))

	_, err := svc.AssignReferees(context.Background(), "match:missing", nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)

	_, err = svc.AssignReferees(context.Background(), match.ID, []string{"referee:ghost"})
	assert.ErrorIs(t, err, ErrRefereeNotFound)
	assert.Empty(t, store.officials[match.ID])

	store.attachErr = errors.New("write failed")
	_, err = svc.AssignReferees(context.Background(), match.ID, nil)
	assert.EqualError(t, err, "write failed")
}

func TestAssignReferees_RejectsReleasedReferee(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), store.addWrestlers(1), store.addWrestlers(1))
	ref := store.addReferee()
	released := testNow.AddDate(0, -1, 0)
	ref.DeletedOn = &released

	_, err := svc.AssignReferees(context.Background(), match.ID, []string{ref.ID})
	require.ErrorIs(t, err, ErrMemberReleased)
	assert.Empty(t, store.officials[match.ID])
	assert.Len(t, store.referees, 1, "nothing synthesized")
}

func TestAssignReferees_DuplicateCandidatesCountOnce(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), store.addWrestlers(1), store.addWrestlers(1))
	ref := store.addReferee()

	ids, err := svc.AssignReferees(context.Background(), match.ID, []string{ref.ID, ref.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{ref.ID}, ids)
}

func TestSetWinners_Replaces(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	a, b := store.addWrestlers(1), store.addWrestlers(1)
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), a, b)
	ctx := context.Background()

	require.NoError(t, svc.SetWinners(ctx, match.ID, []string{a[0].ID}))
	require.NoError(t, svc.SetWinners(ctx, match.ID, []string{b[0].ID, b[0].ID}))

	winners, err := svc.Winners(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{b[0].ID}, winners)

	require.NoError(t, svc.SetWinners(ctx, match.ID, nil))
	winners, err = svc.Winners(ctx, match.ID)
	require.NoError(t, err)
	assert.Empty(t, winners)
}

func TestSetLosers_Replaces(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	ws := store.addWrestlers(3)
	match := store.addMatch(matchType("triple_threat", 3, 3, false), testEvent(), ws[:1], ws[1:2], ws[2:])
	ctx := context.Background()

	require.NoError(t, svc.SetLosers(ctx, match.ID, []string{ws[1].ID, ws[2].ID}))
	require.NoError(t, svc.SetLosers(ctx, match.ID, []string{ws[2].ID}))

	losers, err := svc.Losers(ctx, match.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{ws[2].ID}, losers)
}

func TestOutcome_Validation(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	a, b := store.addWrestlers(1), store.addWrestlers(1)
	outsider := store.addWrestlers(1)[0]
	match := store.addMatch(matchType("singles", 2, 2, false), testEvent(), a, b)
	ctx := context.Background()

	err := svc.SetWinners(ctx, match.ID, []string{outsider.ID})
	assert.ErrorIs(t, err, ErrNotParticipant)
	assert.ErrorIs(t, err, ErrInvariantViolation)

	require.NoError(t, svc.SetLosers(ctx, match.ID, []string{b[0].ID}))
	err = svc.SetWinners(ctx, match.ID, []string{b[0].ID})
	assert.ErrorIs(t, err, ErrWinnersLosersOverlap)

	require.NoError(t, svc.SetWinners(ctx, match.ID, []string{a[0].ID}))
	err = svc.SetLosers(ctx, match.ID, []string{a[0].ID})
	assert.ErrorIs(t, err, ErrWinnersLosersOverlap)

	assert.Equal(t, []string{a[0].ID}, store.won[match.ID])
	assert.Equal(t, []string{b[0].ID}, store.lost[match.ID])

	err = svc.SetWinners(ctx, "match:missing", nil)
	assert.ErrorIs(t, err, ErrMatchNotFound)
}

func TestRecordResult(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	a, b := store.addWrestlers(2), store.addWrestlers(2)
	match := store.addMatch(matchType("tag_team", 4, 2, false), testEvent(), a, b)
	ctx := context.Background()

	require.NoError(t, svc.RecordResult(ctx, match.ID, model.WrestlerIDs(a), model.WrestlerIDs(b)))
	assert.Equal(t, model.WrestlerIDs(a), store.won[match.ID])
	assert.Equal(t, model.WrestlerIDs(b), store.lost[match.ID])

	// Swapping the result in one call is allowed.
	require.NoError(t, svc.RecordResult(ctx, match.ID, model.WrestlerIDs(b), model.WrestlerIDs(a)))
	assert.Equal(t, model.WrestlerIDs(b), store.won[match.ID])

	err := svc.RecordResult(ctx, match.ID, []string{a[0].ID}, []string{a[0].ID})
	assert.ErrorIs(t, err, ErrWinnersLosersOverlap)
	assert.Equal(t, model.WrestlerIDs(b), store.won[match.ID], "rejected result leaves outcome alone")
}

func TestCard(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	a, b := store.addWrestlers(2), store.addWrestlers(2)
	event := testEvent()
	match := store.addMatch(matchType("tag_team", 4, 2, false), event, a, b)

	cage := &model.Stipulation{ID: model.SlugID(model.TableStipulation, "steel_cage"), Name: "Steel Cage", Slug: "steel_cage"}
	store.stipulations[cage.ID] = cage
	match.StipulationID = &cage.ID

	title := store.addTitle("Tag Team", testNow.AddDate(-3, 0, 0))
	vacant := store.addTitle("Trios", testNow.AddDate(-1, 0, 0))
	wonOn := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store.addReign(title.ID, wonOn, model.WrestlerIDs(a)...)
	store.titleEdges[match.ID] = []string{title.ID, vacant.ID}

	ref := store.addReferee()
	store.officials[match.ID] = []string{ref.ID}
	store.won[match.ID] = model.WrestlerIDs(b)
	store.lost[match.ID] = model.WrestlerIDs(a)

	card, err := svc.Card(context.Background(), match.ID)
	require.NoError(t, err)

	assert.Equal(t, event, card.Event)
	assert.Equal(t, cage, card.Stipulation)
	require.Len(t, card.Sides, 2)
	if diff := cmp.Diff([][]string{model.WrestlerIDs(a), model.WrestlerIDs(b)},
		[][]string{model.WrestlerIDs(card.Sides[0]), model.WrestlerIDs(card.Sides[1])}); diff != "" {
		t.Errorf("sides mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{ref.ID}, model.RefereeIDs(card.Referees))
	assert.Equal(t, model.WrestlerIDs(b), model.WrestlerIDs(card.Winners))
	assert.Equal(t, model.WrestlerIDs(a), model.WrestlerIDs(card.Losers))

	require.True(t, card.IsTitleMatch())
	require.Len(t, card.Titles, 2)
	assert.Equal(t, title.ID, card.Titles[0].Title.ID)
	assert.ElementsMatch(t, model.WrestlerIDs(a), model.WrestlerIDs(card.Titles[0].Champions))
	require.NotNil(t, card.Titles[0].ReignStart)
	assert.True(t, card.Titles[0].ReignStart.Equal(wonOn))
	assert.Empty(t, card.Titles[1].Champions)
	assert.Nil(t, card.Titles[1].ReignStart)
}

func TestCard_UnbookedMatch(t *testing.T) {
	store := newMemStore()
	svc := newTestMatchService(store, nil)
	match := store.addMatch(matchType("triple_threat", 3, 3, false), testEvent(), store.addWrestlers(1), store.addWrestlers(1), store.addWrestlers(1))

	card, err := svc.Card(context.Background(), match.ID)
	require.NoError(t, err)
	assert.False(t, card.IsTitleMatch())
	assert.Nil(t, card.Stipulation)
	assert.Len(t, card.Sides, 3)
	assert.Empty(t, card.Referees)
	assert.Empty(t, card.Winners)

	_, err = svc.Card(context.Background(), "match:missing")
	assert.ErrorIs(t, err, ErrMatchNotFound)
}
