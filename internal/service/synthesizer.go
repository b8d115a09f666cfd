package service

import (
	"fmt"
	mrand "math/rand/v2"
	"sync"
	"time"

	"github.com/hailwood/Ringside/internal/model"
)

var (
	ringAdjectives = []string{
		"Iron", "Savage", "Golden", "Masked", "Rowdy", "Macho", "Nature", "Stone",
		"Ultimate", "Million Dollar", "Heartbreak", "Rugged", "Flying", "Crimson",
	}
	ringNouns = []string{
		"Viking", "Bulldog", "Phenom", "Express", "Outlaw", "Samoan", "Giant",
		"Cobra", "Hitman", "Dragon", "Warrior", "Mauler", "Assassin", "Kid",
	}
	refereeFirstNames = []string{
		"Earl", "Dave", "Tim", "Charles", "Mike", "Jessika", "Aubrey", "Danilo", "Rod", "Jimmy",
	}
	refereeLastNames = []string{
		"Hebner", "White", "Robinson", "Chioda", "Korita", "Carr", "Edwards", "Anfibio", "Zapata", "Korderas",
	}
)

// RosterSynthesizer produces unsaved roster members to fill shortfalls.
// Members get fresh record ids so the caller can commit them in the same
// transaction that attaches them.
type RosterSynthesizer struct {
	mu  sync.Mutex
	rng *mrand.Rand
}

// NewRosterSynthesizer creates a synthesizer. A nil rng uses a randomly seeded source.
func NewRosterSynthesizer(rng *mrand.Rand) *RosterSynthesizer {
	if rng == nil {
		rng = mrand.New(mrand.NewPCG(mrand.Uint64(), mrand.Uint64()))
	}
	return &RosterSynthesizer{rng: rng}
}

// Wrestlers returns n new wrestlers hired at hiredAt
func (s *RosterSynthesizer) Wrestlers(n int, hiredAt time.Time) []*model.Wrestler {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Wrestler, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Wrestler{
			ID:      model.NewID(model.TableWrestler),
			Name:    s.ringName(),
			HiredAt: hiredAt,
		})
	}
	return out
}

// Referees returns n new referees hired at hiredAt
func (s *RosterSynthesizer) Referees(n int, hiredAt time.Time) []*model.Referee {
	if n <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Referee, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &model.Referee{
			ID:        model.NewID(model.TableReferee),
			FirstName: refereeFirstNames[s.rng.IntN(len(refereeFirstNames))],
			LastName:  refereeLastNames[s.rng.IntN(len(refereeLastNames))],
			HiredAt:   hiredAt,
		})
	}
	return out
}

func (s *RosterSynthesizer) ringName() string {
	return fmt.Sprintf("%s %s %d",
		ringAdjectives[s.rng.IntN(len(ringAdjectives))],
		ringNouns[s.rng.IntN(len(ringNouns))],
		s.rng.IntN(1000))
}
