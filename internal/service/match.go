package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hailwood/Ringside/internal/catalog"
	"github.com/hailwood/Ringside/internal/model"
)

// MatchRepository defines the interface for match storage
type MatchRepository interface {
	CreateFromPlan(ctx context.Context, plan *model.MatchPlan) (*model.Match, error)
	Get(ctx context.Context, matchID string) (*model.Match, error)
	Competitors(ctx context.Context, matchID string) ([]model.Competitor, error)
	RefereeIDs(ctx context.Context, matchID string) ([]string, error)
	TitleIDs(ctx context.Context, matchID string) ([]string, error)
	WinnerIDs(ctx context.Context, matchID string) ([]string, error)
	LoserIDs(ctx context.Context, matchID string) ([]string, error)
	AttachReferees(ctx context.Context, matchID string, newReferees []*model.Referee, refereeIDs []string, startPosition int) error
	ReplaceWinners(ctx context.Context, matchID string, winnerIDs []string) error
	ReplaceLosers(ctx context.Context, matchID string, loserIDs []string) error
	ReplaceResult(ctx context.Context, matchID string, winnerIDs, loserIDs []string) error
}

// EventRepository defines the interface for event lookups
type EventRepository interface {
	Get(ctx context.Context, eventID string) (*model.Event, error)
}

// MatchTypeRepository defines the interface for match type lookups
type MatchTypeRepository interface {
	Get(ctx context.Context, matchTypeID string) (*model.MatchType, error)
}

// StipulationRepository defines the interface for stipulation lookups
type StipulationRepository interface {
	Get(ctx context.Context, stipulationID string) (*model.Stipulation, error)
}

// WrestlerRepository defines the interface for wrestler lookups
type WrestlerRepository interface {
	GetMany(ctx context.Context, wrestlerIDs []string) ([]*model.Wrestler, error)
}

// RefereeRepository defines the interface for referee lookups
type RefereeRepository interface {
	GetMany(ctx context.Context, refereeIDs []string) ([]*model.Referee, error)
}

// MatchService builds matches and manages their participants and outcome
type MatchService struct {
	matchRepo       MatchRepository
	eventRepo       EventRepository
	matchTypeRepo   MatchTypeRepository
	stipulationRepo StipulationRepository
	wrestlerRepo    WrestlerRepository
	refereeRepo     RefereeRepository
	titleRepo       TitleRepository

	catalog            *catalog.Catalog
	synth              *RosterSynthesizer
	championLeadMonths int
	hireLeadMonths     int
	now                func() time.Time
	logger             *slog.Logger
}

// MatchServiceConfig holds configuration for the match service
type MatchServiceConfig struct {
	MatchRepo       MatchRepository
	EventRepo       EventRepository
	MatchTypeRepo   MatchTypeRepository
	StipulationRepo StipulationRepository
	WrestlerRepo    WrestlerRepository
	RefereeRepo     RefereeRepository
	TitleRepo       TitleRepository

	Catalog     *catalog.Catalog   // defaults to catalog.Default()
	Synthesizer *RosterSynthesizer // defaults to a randomly seeded synthesizer

	// ChampionLeadMonths is how long before a title's introduction a seeded reign starts.
	ChampionLeadMonths int
	// HireLeadMonths is how long before the match synthesized roster members were hired.
	HireLeadMonths int

	Now    func() time.Time
	Logger *slog.Logger
}

// NewMatchService creates a new match service
func NewMatchService(cfg MatchServiceConfig) *MatchService {
	s := &MatchService{
		matchRepo:          cfg.MatchRepo,
		eventRepo:          cfg.EventRepo,
		matchTypeRepo:      cfg.MatchTypeRepo,
		stipulationRepo:    cfg.StipulationRepo,
		wrestlerRepo:       cfg.WrestlerRepo,
		refereeRepo:        cfg.RefereeRepo,
		titleRepo:          cfg.TitleRepo,
		catalog:            cfg.Catalog,
		synth:              cfg.Synthesizer,
		championLeadMonths: cfg.ChampionLeadMonths,
		hireLeadMonths:     cfg.HireLeadMonths,
		now:                cfg.Now,
		logger:             cfg.Logger,
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if s.synth == nil {
		s.synth = NewRosterSynthesizer(nil)
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// ============================================================================
// Referee Assignment
// ============================================================================

// AssignReferees attaches candidateIDs to a match and synthesizes any
// shortfall so the match ends with exactly the referees its type requires.
// Referees already officiating count against the requirement, so a second
// assignment after the requirement is met fails with ErrOverAssignment and
// attaches nothing.
func (s *MatchService) AssignReferees(ctx context.Context, matchID string, candidateIDs []string) ([]string, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	mt, err := s.matchTypeRepo.Get(ctx, match.MatchTypeID)
	if err != nil {
		return nil, err
	}
	if mt == nil {
		return nil, ErrMatchTypeNotFound
	}

	candidateIDs = model.UniqueIDs(candidateIDs)
	required := mt.RequiredReferees()

	attached, err := s.matchRepo.RefereeIDs(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(attached) >= required {
		return nil, fmt.Errorf("%w: %s already has %d of %d", ErrOverAssignment, matchID, len(attached), required)
	}
	if len(attached)+len(candidateIDs) > required {
		return nil, fmt.Errorf("%w: %d candidates for %d open slots", ErrOverAssignment, len(candidateIDs), required-len(attached))
	}
	officiating := make(map[string]bool, len(attached))
	for _, id := range attached {
		officiating[id] = true
	}
	for _, id := range candidateIDs {
		if officiating[id] {
			return nil, fmt.Errorf("%w: %s is already officiating", ErrOverAssignment, id)
		}
	}

	if len(candidateIDs) > 0 {
		found, err := s.refereeRepo.GetMany(ctx, candidateIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(candidateIDs) {
			return nil, fmt.Errorf("%w: %v", ErrRefereeNotFound, missingIDs(candidateIDs, model.RefereeIDs(found)))
		}
		var released []string
		for _, r := range found {
			if r.DeletedOn != nil {
				released = append(released, r.ID)
			}
		}
		if len(released) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrMemberReleased, released)
		}
	}

	shortfall := required - len(attached) - len(candidateIDs)
	newRefs := s.synth.Referees(shortfall, s.now().UTC().AddDate(0, -s.hireLeadMonths, 0))

	if err := s.matchRepo.AttachReferees(ctx, matchID, newRefs, candidateIDs, len(attached)); err != nil {
		return nil, err
	}

	all := append(append(append([]string{}, attached...), candidateIDs...), model.RefereeIDs(newRefs)...)
	s.logger.Info("referees assigned",
		slog.String("match_id", matchID),
		slog.Int("supplied", len(candidateIDs)),
		slog.Int("synthesized", len(newRefs)))
	return all, nil
}

// ============================================================================
// Outcome Recording
// ============================================================================

// SetWinners replaces the match's winners with exactly winnerIDs.
// Winners must be competitors and must not be recorded losers.
func (s *MatchService) SetWinners(ctx context.Context, matchID string, winnerIDs []string) error {
	winnerIDs = model.UniqueIDs(winnerIDs)
	if err := s.checkParticipants(ctx, matchID, winnerIDs); err != nil {
		return err
	}
	losers, err := s.matchRepo.LoserIDs(ctx, matchID)
	if err != nil {
		return err
	}
	if err := checkDisjoint(winnerIDs, losers); err != nil {
		return err
	}

	if err := s.matchRepo.ReplaceWinners(ctx, matchID, winnerIDs); err != nil {
		return err
	}
	s.logger.Info("winners recorded", slog.String("match_id", matchID), slog.Any("winners", winnerIDs))
	return nil
}

// SetLosers replaces the match's losers with exactly loserIDs.
// Losers must be competitors and must not be recorded winners.
func (s *MatchService) SetLosers(ctx context.Context, matchID string, loserIDs []string) error {
	loserIDs = model.UniqueIDs(loserIDs)
	if err := s.checkParticipants(ctx, matchID, loserIDs); err != nil {
		return err
	}
	winners, err := s.matchRepo.WinnerIDs(ctx, matchID)
	if err != nil {
		return err
	}
	if err := checkDisjoint(winners, loserIDs); err != nil {
		return err
	}

	if err := s.matchRepo.ReplaceLosers(ctx, matchID, loserIDs); err != nil {
		return err
	}
	s.logger.Info("losers recorded", slog.String("match_id", matchID), slog.Any("losers", loserIDs))
	return nil
}

// RecordResult replaces both outcome sets in one write.
func (s *MatchService) RecordResult(ctx context.Context, matchID string, winnerIDs, loserIDs []string) error {
	winnerIDs = model.UniqueIDs(winnerIDs)
	loserIDs = model.UniqueIDs(loserIDs)
	if err := checkDisjoint(winnerIDs, loserIDs); err != nil {
		return err
	}
	if err := s.checkParticipants(ctx, matchID, append(append([]string{}, winnerIDs...), loserIDs...)); err != nil {
		return err
	}

	if err := s.matchRepo.ReplaceResult(ctx, matchID, winnerIDs, loserIDs); err != nil {
		return err
	}
	s.logger.Info("result recorded",
		slog.String("match_id", matchID),
		slog.Any("winners", winnerIDs),
		slog.Any("losers", loserIDs))
	return nil
}

// Winners returns the recorded winners of a match
func (s *MatchService) Winners(ctx context.Context, matchID string) ([]string, error) {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.matchRepo.WinnerIDs(ctx, matchID)
}

// Losers returns the recorded losers of a match
func (s *MatchService) Losers(ctx context.Context, matchID string) ([]string, error) {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.matchRepo.LoserIDs(ctx, matchID)
}

func (s *MatchService) checkParticipants(ctx context.Context, matchID string, wrestlerIDs []string) error {
	if _, err := s.getMatch(ctx, matchID); err != nil {
		return err
	}
	competitors, err := s.matchRepo.Competitors(ctx, matchID)
	if err != nil {
		return err
	}
	if missing := missingIDs(wrestlerIDs, model.CompetitorIDs(competitors)); len(missing) > 0 {
		return fmt.Errorf("%w: %v", ErrNotParticipant, missing)
	}
	return nil
}

func checkDisjoint(winnerIDs, loserIDs []string) error {
	losing := make(map[string]bool, len(loserIDs))
	for _, id := range loserIDs {
		losing[id] = true
	}
	for _, id := range winnerIDs {
		if losing[id] {
			return fmt.Errorf("%w: %s", ErrWinnersLosersOverlap, id)
		}
	}
	return nil
}

// missingIDs returns the ids in want that are not in have, in want's order.
func missingIDs(want, have []string) []string {
	present := make(map[string]bool, len(have))
	for _, id := range have {
		present[id] = true
	}
	var missing []string
	for _, id := range want {
		if !present[id] {
			missing = append(missing, id)
		}
	}
	return missing
}

func (s *MatchService) getMatch(ctx context.Context, matchID string) (*model.Match, error) {
	match, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}
	return match, nil
}

// ============================================================================
// Read Side
// ============================================================================

// Card loads a match with everything attached to it, ready for display.
func (s *MatchService) Card(ctx context.Context, matchID string) (*model.MatchCard, error) {
	match, err := s.getMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	card := &model.MatchCard{Match: match}

	if card.Event, err = s.eventRepo.Get(ctx, match.EventID); err != nil {
		return nil, err
	}
	if card.MatchType, err = s.matchTypeRepo.Get(ctx, match.MatchTypeID); err != nil {
		return nil, err
	}
	if card.MatchType == nil {
		return nil, ErrMatchTypeNotFound
	}
	if match.StipulationID != nil {
		if card.Stipulation, err = s.stipulationRepo.Get(ctx, *match.StipulationID); err != nil {
			return nil, err
		}
	}

	competitors, err := s.matchRepo.Competitors(ctx, matchID)
	if err != nil {
		return nil, err
	}
	wrestlers, err := s.wrestlerRepo.GetMany(ctx, model.CompetitorIDs(competitors))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.Wrestler, len(wrestlers))
	for _, w := range wrestlers {
		byID[w.ID] = w
	}
	card.Sides = make([][]*model.Wrestler, card.MatchType.NumberOfSides)
	for _, c := range competitors {
		w, ok := byID[c.WrestlerID]
		if !ok || c.SideNumber < 0 || c.SideNumber >= len(card.Sides) {
			continue
		}
		card.Sides[c.SideNumber] = append(card.Sides[c.SideNumber], w)
	}

	refIDs, err := s.matchRepo.RefereeIDs(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if card.Referees, err = s.refereeRepo.GetMany(ctx, refIDs); err != nil {
		return nil, err
	}

	if card.Titles, err = s.titlesOnCard(ctx, matchID); err != nil {
		return nil, err
	}

	winnerIDs, err := s.matchRepo.WinnerIDs(ctx, matchID)
	if err != nil {
		return nil, err
	}
	card.Winners = pick(byID, winnerIDs)

	loserIDs, err := s.matchRepo.LoserIDs(ctx, matchID)
	if err != nil {
		return nil, err
	}
	card.Losers = pick(byID, loserIDs)

	return card, nil
}

func (s *MatchService) titlesOnCard(ctx context.Context, matchID string) ([]*model.TitleOnCard, error) {
	titleIDs, err := s.matchRepo.TitleIDs(ctx, matchID)
	if err != nil || len(titleIDs) == 0 {
		return nil, err
	}
	titles, err := s.titleRepo.GetMany(ctx, titleIDs)
	if err != nil {
		return nil, err
	}
	open, err := s.titleRepo.OpenChampionshipsMany(ctx, titleIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*model.TitleOnCard, 0, len(titles))
	for _, t := range titles {
		entry := &model.TitleOnCard{Title: t}
		reign, err := singleReign(t.ID, open[t.ID])
		switch {
		case err == nil:
			champs, err := s.wrestlerRepo.GetMany(ctx, reign.HolderIDs())
			if err != nil {
				return nil, err
			}
			wonOn := reign.WonOn
			entry.Champions = champs
			entry.ReignStart = &wonOn
		case !errors.Is(err, ErrNoChampion):
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

func pick(byID map[string]*model.Wrestler, ids []string) []*model.Wrestler {
	out := make([]*model.Wrestler, 0, len(ids))
	for _, id := range ids {
		if w, ok := byID[id]; ok {
			out = append(out, w)
		}
	}
	return out
}
