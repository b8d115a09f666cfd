package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hailwood/Ringside/internal/model"
)

// Timing selects the date of an event the builder creates.
type Timing int

const (
	// TimingScheduled books the event for the day after the build.
	TimingScheduled Timing = iota
	// TimingPast dates the event the day before the build.
	TimingPast
	// TimingExplicit uses a caller-supplied date.
	TimingExplicit
)

// ParseTiming reads "scheduled", "past" or a YYYY-MM-DD date.
func ParseTiming(s string) (Timing, time.Time, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "scheduled":
		return TimingScheduled, time.Time{}, nil
	case "past":
		return TimingPast, time.Time{}, nil
	}
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTiming, s)
	}
	return TimingExplicit, date, nil
}

// championSeed is a withChampion call: the wrestler and the titles configured at that moment.
type championSeed struct {
	wrestler *model.Wrestler
	titles   []*model.Title
}

// RosterBuilder assembles one match. Builders come from MatchService.NewBuilder,
// belong to a single caller and are reset after every Build.
type RosterBuilder struct {
	svc *MatchService

	event       *model.Event
	matchType   *model.MatchType
	stipulation *model.Stipulation
	wrestlers   []*model.Wrestler
	titles      []*model.Title
	champions   []championSeed
	timing      Timing
	date        time.Time
	preview     *string
}

// NewBuilder returns an empty roster builder
func (s *MatchService) NewBuilder() *RosterBuilder {
	return &RosterBuilder{svc: s}
}

// WithEvent books the match on an existing event; timing is then ignored.
func (b *RosterBuilder) WithEvent(event *model.Event) *RosterBuilder {
	b.event = event
	return b
}

// WithMatchType fixes the match type; otherwise one is picked from the catalog.
func (b *RosterBuilder) WithMatchType(mt *model.MatchType) *RosterBuilder {
	b.matchType = mt
	return b
}

// WithStipulation adds a stipulation to the match.
func (b *RosterBuilder) WithStipulation(stip *model.Stipulation) *RosterBuilder {
	b.stipulation = stip
	return b
}

// WithPreview sets the match preview text.
func (b *RosterBuilder) WithPreview(text string) *RosterBuilder {
	b.preview = &text
	return b
}

// WithWrestlers adds wrestlers to the roster, ignoring ones already on it.
func (b *RosterBuilder) WithWrestlers(ws ...*model.Wrestler) *RosterBuilder {
	for _, w := range ws {
		b.addWrestler(w)
	}
	return b
}

// WithTitles puts titles on the line, ignoring ones already added.
func (b *RosterBuilder) WithTitles(ts ...*model.Title) *RosterBuilder {
	for _, t := range ts {
		if t == nil || containsTitle(b.titles, t.ID) {
			continue
		}
		b.titles = append(b.titles, t)
	}
	return b
}

// Scheduled dates a new event tomorrow. This is the default.
func (b *RosterBuilder) Scheduled() *RosterBuilder {
	b.timing = TimingScheduled
	return b
}

// Past dates a new event yesterday.
func (b *RosterBuilder) Past() *RosterBuilder {
	b.timing = TimingPast
	return b
}

// On dates a new event on date.
func (b *RosterBuilder) On(date time.Time) *RosterBuilder {
	b.timing = TimingExplicit
	b.date = date
	return b
}

// WithTiming applies a parsed timing.
func (b *RosterBuilder) WithTiming(timing Timing, date time.Time) *RosterBuilder {
	b.timing = timing
	b.date = date
	return b
}

// WithChampion makes w the incumbent of every title configured so far and
// adds w to the roster. The reigns are written by Build, starting
// ChampionLeadMonths before each title's introduction.
func (b *RosterBuilder) WithChampion(w *model.Wrestler) *RosterBuilder {
	if w == nil {
		return b
	}
	b.champions = append(b.champions, championSeed{
		wrestler: w,
		titles:   append([]*model.Title(nil), b.titles...),
	})
	b.addWrestler(w)
	return b
}

func (b *RosterBuilder) addWrestler(w *model.Wrestler) {
	if w == nil {
		return
	}
	for _, have := range b.wrestlers {
		if have.ID == w.ID {
			return
		}
	}
	b.wrestlers = append(b.wrestlers, w)
}

func (b *RosterBuilder) reset() {
	*b = RosterBuilder{svc: b.svc}
}

// Build writes the configured match in one transaction: the event when none
// was given, the match type and stipulation, synthesized wrestlers for any
// shortfall, seeded championships, the match itself and its competitor and
// title edges. The builder is reset afterwards whether or not Build succeeds.
func (b *RosterBuilder) Build(ctx context.Context) (*model.Match, error) {
	defer b.reset()

	plan, err := b.plan(ctx)
	if err != nil {
		return nil, err
	}

	match, err := b.svc.matchRepo.CreateFromPlan(ctx, plan)
	if err != nil {
		return nil, err
	}

	b.svc.logger.Info("match built",
		slog.String("match_id", match.ID),
		slog.String("event_id", match.EventID),
		slog.String("match_type", plan.MatchType.Slug),
		slog.Int("match_number", match.MatchNumber),
		slog.Int("synthesized_wrestlers", len(plan.NewWrestlers)),
		slog.Int("titles", len(plan.TitleIDs)))
	return match, nil
}

// plan turns the builder state into everything Build writes.
func (b *RosterBuilder) plan(ctx context.Context) (*model.MatchPlan, error) {
	plan := &model.MatchPlan{Match: &model.Match{ID: model.NewID(model.TableMatch), Preview: b.preview}}

	// Event
	if b.event != nil {
		plan.Event = b.event
	} else {
		date, err := b.eventDate()
		if err != nil {
			return nil, err
		}
		plan.Event = &model.Event{
			ID:   model.NewID(model.TableEvent),
			Name: "Event " + date.Format(time.DateOnly),
			Date: date,
		}
		plan.NewEvent = true
	}
	matchDate := plan.Event.Date

	// Match type and stipulation
	plan.MatchType = b.matchType
	if plan.MatchType == nil {
		if len(b.svc.catalog.MatchTypes) == 0 {
			return nil, ErrEmptyCatalog
		}
		plan.MatchType = b.svc.catalog.RandomMatchType()
	}
	if plan.MatchType.ID == "" {
		plan.MatchType.ID = model.SlugID(model.TableMatchType, plan.MatchType.Slug)
	}
	plan.Stipulation = b.stipulation
	if plan.Stipulation != nil && plan.Stipulation.ID == "" {
		plan.Stipulation.ID = model.SlugID(model.TableStipulation, plan.Stipulation.Slug)
	}
	total := plan.MatchType.TotalCompetitors

	// Roster
	if len(b.wrestlers) > total {
		return nil, fmt.Errorf("%w: %d supplied for %s (%d)", ErrTooManyWrestlers, len(b.wrestlers), plan.MatchType.Slug, total)
	}
	roster := append([]*model.Wrestler(nil), b.wrestlers...)
	if shortfall := total - len(roster); shortfall > 0 {
		plan.NewWrestlers = b.svc.synth.Wrestlers(shortfall, matchDate.AddDate(0, -b.svc.hireLeadMonths, 0))
		roster = append(roster, plan.NewWrestlers...)
	}
	plan.Competitors = splitSides(model.WrestlerIDs(roster), plan.MatchType.NumberOfSides)

	// Titles and seeded reigns
	plan.TitleIDs = model.TitleIDs(b.titles)
	championships, err := b.seedChampionships(ctx)
	if err != nil {
		return nil, err
	}
	plan.Championships = championships

	if err := validatePlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (b *RosterBuilder) eventDate() (time.Time, error) {
	now := b.svc.now().UTC()
	switch b.timing {
	case TimingScheduled:
		return now.AddDate(0, 0, 1), nil
	case TimingPast:
		return now.AddDate(0, 0, -1), nil
	case TimingExplicit:
		if b.date.IsZero() {
			return time.Time{}, fmt.Errorf("%w: missing date", ErrInvalidTiming)
		}
		return b.date.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: unknown timing %d", ErrInvalidTiming, b.timing)
}

// seedChampionships builds the incumbent reigns requested with WithChampion.
// A title that already has an open reign cannot take a seeded one.
func (b *RosterBuilder) seedChampionships(ctx context.Context) ([]*model.Championship, error) {
	if len(b.champions) == 0 {
		return nil, nil
	}

	var titleIDs []string
	for _, seed := range b.champions {
		titleIDs = append(titleIDs, model.TitleIDs(seed.titles)...)
	}
	titleIDs = model.UniqueIDs(titleIDs)
	if len(titleIDs) == 0 {
		return nil, nil
	}

	open, err := b.svc.titleRepo.OpenChampionshipsMany(ctx, titleIDs)
	if err != nil {
		return nil, err
	}
	for _, id := range titleIDs {
		if len(open[id]) > 0 {
			return nil, fmt.Errorf("%w: %s already has a champion", ErrMultipleOpenReigns, id)
		}
	}

	var out []*model.Championship
	seeded := make(map[string]bool)
	for _, seed := range b.champions {
		for _, t := range seed.titles {
			key := t.ID + "|" + seed.wrestler.ID
			if seeded[key] {
				continue
			}
			seeded[key] = true
			out = append(out, &model.Championship{
				ID:         model.NewID(model.TableChampionship),
				TitleID:    t.ID,
				WrestlerID: seed.wrestler.ID,
				WonOn:      t.IntroducedAt.AddDate(0, -b.svc.championLeadMonths, 0),
			})
		}
	}
	return out, nil
}

// validatePlan checks the roster rules on a finished plan before anything is written.
func validatePlan(plan *model.MatchPlan) error {
	mt := plan.MatchType
	distinct := model.UniqueIDs(model.CompetitorIDs(plan.Competitors))
	if len(distinct) != mt.TotalCompetitors || len(plan.Competitors) != mt.TotalCompetitors {
		return fmt.Errorf("%w: %d wrestlers for %s (%d)", ErrWrestlerCountMismatch, len(distinct), mt.Slug, mt.TotalCompetitors)
	}
	for _, c := range plan.Competitors {
		if c.SideNumber < 0 || c.SideNumber >= mt.NumberOfSides {
			return fmt.Errorf("%w: %s on side %d of %d", ErrSideOutOfRange, c.WrestlerID, c.SideNumber, mt.NumberOfSides)
		}
	}
	return nil
}

// splitSides partitions ids into sides contiguous groups in input order.
// Group sizes differ by at most one and the larger groups come first.
func splitSides(ids []string, sides int) []model.Competitor {
	if sides <= 0 {
		return nil
	}
	out := make([]model.Competitor, 0, len(ids))
	base, extra := len(ids)/sides, len(ids)%sides
	i := 0
	for side := 0; side < sides; side++ {
		size := base
		if side < extra {
			size++
		}
		for j := 0; j < size; j++ {
			out = append(out, model.Competitor{WrestlerID: ids[i], SideNumber: side})
			i++
		}
	}
	return out
}

func containsTitle(ts []*model.Title, id string) bool {
	for _, t := range ts {
		if t.ID == id {
			return true
		}
	}
	return false
}

// BuildRequest is a roster build described by ids and slugs, as an operator enters it.
type BuildRequest struct {
	EventID     string
	MatchType   string // slug
	Stipulation string // slug
	WrestlerIDs []string
	TitleIDs    []string
	ChampionID  string
	Timing      string
	Preview     string
}

// BuilderFor resolves a request into a configured builder.
// Every referenced record must exist.
func (s *MatchService) BuilderFor(ctx context.Context, req BuildRequest) (*RosterBuilder, error) {
	b := s.NewBuilder()

	timing, date, err := ParseTiming(req.Timing)
	if err != nil {
		return nil, err
	}
	b.WithTiming(timing, date)

	if req.EventID != "" {
		event, err := s.eventRepo.Get(ctx, req.EventID)
		if err != nil {
			return nil, err
		}
		if event == nil {
			return nil, fmt.Errorf("%w: %s", ErrEventNotFound, req.EventID)
		}
		b.WithEvent(event)
	}

	if req.MatchType != "" {
		mt, ok := s.catalog.MatchType(req.MatchType)
		if !ok {
			if mt, err = s.matchTypeRepo.Get(ctx, model.SlugID(model.TableMatchType, req.MatchType)); err != nil {
				return nil, err
			}
		}
		if mt == nil {
			return nil, fmt.Errorf("%w: %s", ErrMatchTypeNotFound, req.MatchType)
		}
		b.WithMatchType(mt)
	}

	if req.Stipulation != "" {
		stip, ok := s.catalog.Stipulation(req.Stipulation)
		if !ok {
			if stip, err = s.stipulationRepo.Get(ctx, model.SlugID(model.TableStipulation, req.Stipulation)); err != nil {
				return nil, err
			}
		}
		if stip == nil {
			return nil, fmt.Errorf("%w: %s", ErrStipulationNotFound, req.Stipulation)
		}
		b.WithStipulation(stip)
	}

	if req.Preview != "" {
		b.WithPreview(req.Preview)
	}

	wrestlers, err := s.wrestlers(ctx, req.WrestlerIDs)
	if err != nil {
		return nil, err
	}
	b.WithWrestlers(wrestlers...)

	if ids := model.UniqueIDs(req.TitleIDs); len(ids) > 0 {
		titles, err := s.titleRepo.GetMany(ctx, ids)
		if err != nil {
			return nil, err
		}
		if missing := missingIDs(ids, model.TitleIDs(titles)); len(missing) > 0 {
			return nil, fmt.Errorf("%w: %v", ErrTitleNotFound, missing)
		}
		b.WithTitles(titles...)
	}

	if req.ChampionID != "" {
		champ, err := s.wrestlers(ctx, []string{req.ChampionID})
		if err != nil {
			return nil, err
		}
		b.WithChampion(champ[0])
	}

	return b, nil
}

func (s *MatchService) wrestlers(ctx context.Context, ids []string) ([]*model.Wrestler, error) {
	ids = model.UniqueIDs(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := s.wrestlerRepo.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	if missing := missingIDs(ids, model.WrestlerIDs(found)); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrWrestlerNotFound, missing)
	}
	// Released wrestlers stay readable for old cards but cannot be booked.
	var released []string
	for _, w := range found {
		if w.DeletedOn != nil {
			released = append(released, w.ID)
		}
	}
	if len(released) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMemberReleased, released)
	}
	return found, nil
}
