package service

import (
	mrand "math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hailwood/Ringside/internal/model"
)

func TestRosterSynthesizer_Wrestlers(t *testing.T) {
	s := NewRosterSynthesizer(mrand.New(mrand.NewPCG(7, 7)))
	hired := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	ws := s.Wrestlers(5, hired)
	require.Len(t, ws, 5)

	ids := model.WrestlerIDs(ws)
	assert.Len(t, model.UniqueIDs(ids), 5)
	for _, w := range ws {
		table, _, ok := model.SplitID(w.ID)
		require.True(t, ok)
		assert.Equal(t, model.TableWrestler, table)
		assert.Len(t, strings.Fields(w.Name), 3, "adjective noun number: %q", w.Name)
		assert.Equal(t, hired, w.HiredAt)
	}

	assert.Nil(t, s.Wrestlers(0, hired))
	assert.Nil(t, s.Wrestlers(-1, hired))
}

func TestRosterSynthesizer_Referees(t *testing.T) {
	s := NewRosterSynthesizer(nil)
	hired := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	rs := s.Referees(2, hired)
	require.Len(t, rs, 2)
	for _, r := range rs {
		assert.True(t, strings.HasPrefix(r.ID, model.TableReferee+":"))
		assert.Contains(t, refereeFirstNames, r.FirstName)
		assert.Contains(t, refereeLastNames, r.LastName)
		assert.Equal(t, hired, r.HiredAt)
	}
}

func TestRosterSynthesizer_SeededNamesRepeat(t *testing.T) {
	a := NewRosterSynthesizer(mrand.New(mrand.NewPCG(1, 2)))
	b := NewRosterSynthesizer(mrand.New(mrand.NewPCG(1, 2)))

	for i := 0; i < 3; i++ {
		assert.Equal(t, a.Referees(1, time.Time{})[0].FullName(), b.Referees(1, time.Time{})[0].FullName())
	}
}

func TestRosterSynthesizer_ConcurrentUse(t *testing.T) {
	s := NewRosterSynthesizer(nil)

	var wg sync.WaitGroup
	results := make([][]*model.Wrestler, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Wrestlers(10, time.Time{})
		}(i)
	}
	wg.Wait()

	var ids []string
	for _, ws := range results {
		ids = append(ids, model.WrestlerIDs(ws)...)
	}
	assert.Len(t, model.UniqueIDs(ids), 80)
}
