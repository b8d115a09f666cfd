package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/hailwood/Ringside/internal/model"
)

// TitleRepository defines the interface for title and championship storage
type TitleRepository interface {
	Get(ctx context.Context, titleID string) (*model.Title, error)
	GetMany(ctx context.Context, titleIDs []string) ([]*model.Title, error)
	OpenChampionships(ctx context.Context, titleID string) ([]*model.Championship, error)
	OpenChampionshipsMany(ctx context.Context, titleIDs []string) (map[string][]*model.Championship, error)
	History(ctx context.Context, titleID string) ([]*model.Championship, error)
	ApplyReignChanges(ctx context.Context, changes []*model.ReignChange) error
}

// TitleMatchRepository is the slice of match storage the title workflow reads
type TitleMatchRepository interface {
	Get(ctx context.Context, matchID string) (*model.Match, error)
	TitleIDs(ctx context.Context, matchID string) ([]string, error)
	WinnerIDs(ctx context.Context, matchID string) ([]string, error)
}

// TitleService answers who holds a title and hands titles over after matches
type TitleService struct {
	titleRepo TitleRepository
	matchRepo TitleMatchRepository
	eventRepo EventRepository
	logger    *slog.Logger
}

// TitleServiceConfig holds configuration for the title service
type TitleServiceConfig struct {
	TitleRepo TitleRepository
	MatchRepo TitleMatchRepository
	EventRepo EventRepository
	Logger    *slog.Logger
}

// NewTitleService creates a new title service
func NewTitleService(cfg TitleServiceConfig) *TitleService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &TitleService{
		titleRepo: cfg.TitleRepo,
		matchRepo: cfg.MatchRepo,
		eventRepo: cfg.EventRepo,
		logger:    logger,
	}
}

// CurrentChampion returns the open reign of a title.
// Tag champions are returned together as the holders of one reign.
func (s *TitleService) CurrentChampion(ctx context.Context, titleID string) (*model.Reign, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	open, err := s.titleRepo.OpenChampionships(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return singleReign(titleID, open)
}

// History returns every championship of a title, most recent first
func (s *TitleService) History(ctx context.Context, titleID string) ([]*model.Championship, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	rows, err := s.titleRepo.History(ctx, titleID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].WonOn.After(rows[j].WonOn) })
	return rows, nil
}

// TransferAfterMatch hands every title contested in a match to its recorded
// winners. Reigns the winners already hold are left open; any other open
// reign is closed on the event date and a new one opened per winner. All
// titles change in one write. Recording winners never does this on its own.
func (s *TitleService) TransferAfterMatch(ctx context.Context, matchID string) ([]*model.ReignChange, error) {
	match, err := s.matchRepo.Get(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, ErrMatchNotFound
	}

	titleIDs, err := s.matchRepo.TitleIDs(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(titleIDs) == 0 {
		return nil, ErrNoTitles
	}
	winnerIDs, err := s.matchRepo.WinnerIDs(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if len(winnerIDs) == 0 {
		return nil, ErrNoWinners
	}

	event, err := s.eventRepo.Get(ctx, match.EventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	open, err := s.titleRepo.OpenChampionshipsMany(ctx, titleIDs)
	if err != nil {
		return nil, err
	}

	changes := make([]*model.ReignChange, 0, len(titleIDs))
	for _, titleID := range titleIDs {
		change, err := planReignChange(titleID, open[titleID], winnerIDs, event)
		if err != nil {
			return nil, err
		}
		changes = append(changes, change)
	}

	if err := s.titleRepo.ApplyReignChanges(ctx, changes); err != nil {
		return nil, err
	}

	for _, c := range changes {
		if c.Retained {
			s.logger.Info("title retained", slog.String("title_id", c.TitleID), slog.String("match_id", matchID))
			continue
		}
		s.logger.Info("title changed hands",
			slog.String("title_id", c.TitleID),
			slog.String("match_id", matchID),
			slog.Any("new_champions", winnerIDs))
	}
	return changes, nil
}

func (s *TitleService) requireTitle(ctx context.Context, titleID string) error {
	title, err := s.titleRepo.Get(ctx, titleID)
	if err != nil {
		return err
	}
	if title == nil {
		return ErrTitleNotFound
	}
	return nil
}

// planReignChange decides what one title's ledger looks like after winners
// take the match. Only one reign may be open, so a broken ledger is reported
// rather than repaired.
func planReignChange(titleID string, open []*model.Championship, winnerIDs []string, event *model.Event) (*model.ReignChange, error) {
	change := &model.ReignChange{TitleID: titleID, On: event.Date}

	reigns := model.OpenReigns(titleID, open)
	if len(reigns) > 1 {
		return nil, fmt.Errorf("%w: %s has %d", ErrMultipleOpenReigns, titleID, len(reigns))
	}
	if len(reigns) == 1 {
		if sameIDs(reigns[0].HolderIDs(), winnerIDs) {
			change.Retained = true
			return change, nil
		}
		for _, h := range reigns[0].Holders {
			change.Closing = append(change.Closing, h.ID)
		}
	}

	for _, w := range winnerIDs {
		change.Opening = append(change.Opening, &model.Championship{
			ID:         model.NewID(model.TableChampionship),
			TitleID:    titleID,
			WrestlerID: w,
			WonOn:      event.Date,
		})
	}
	return change, nil
}

// singleReign reduces a title's open rows to its one current reign.
func singleReign(titleID string, open []*model.Championship) (*model.Reign, error) {
	reigns := model.OpenReigns(titleID, open)
	switch len(reigns) {
	case 0:
		return nil, ErrNoChampion
	case 1:
		return reigns[0], nil
	}
	return nil, fmt.Errorf("%w: %s has %d", ErrMultipleOpenReigns, titleID, len(reigns))
}

func sameIDs(a, b []string) bool {
	a, b = model.UniqueIDs(a), model.UniqueIDs(b)
	if len(a) != len(b) {
		return false
	}
	return len(missingIDs(a, b)) == 0
}
