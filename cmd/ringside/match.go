package main

import (
	"github.com/spf13/cobra"

	"github.com/hailwood/Ringside/internal/model"
	"github.com/hailwood/Ringside/internal/service"
)

var (
	buildReq   service.BuildRequest
	refereeIDs []string
	winnerIDs  []string
	loserIDs   []string
	listEvent  string
)

var errNoOutcome = model.NewBadRequestError("pass --winner, --loser or both")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Build matches, assign referees and record results",
}

// matchBuildCmd builds one match roster
var matchBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a match and fill its roster",
	Long: `Builds a match in one transaction. Anything not given is filled in:
a new event dated by --timing, a random match type from the catalog, and
synthesized wrestlers for every open roster spot.

--champion makes the wrestler the incumbent of every --title and puts them
on the roster.`,
	Example: `  ringside match build --type tag_team --title title:abc --timing past
  ringside match build --type singles --wrestler wrestler:a --wrestler wrestler:b --stipulation ladder`,
	Args: cobra.NoArgs,
	RunE: runMatchBuild,
}

var matchShowCmd = &cobra.Command{
	Use:   "show [match-id]",
	Short: "Show a match card",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchShow,
}

var matchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List an event's matches in card order",
	Args:  cobra.NoArgs,
	RunE:  runMatchList,
}

var matchRefereesCmd = &cobra.Command{
	Use:   "referees [match-id]",
	Short: "Assign referees, synthesizing any the match still needs",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatchReferees,
}

var matchResultCmd = &cobra.Command{
	Use:   "result [match-id]",
	Short: "Record winners and losers, replacing any recorded before",
	Long: `Records the outcome of a match. Winners and losers must be competitors
and may not overlap. Titles do not change hands until "title transfer" runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatchResult,
}

func init() {
	f := matchBuildCmd.Flags()
	f.StringVar(&buildReq.MatchType, "type", "", "Match type slug (default: random from the catalog)")
	f.StringVar(&buildReq.EventID, "event", "", "Existing event id (default: a new event)")
	f.StringVar(&buildReq.Stipulation, "stipulation", "", "Stipulation slug")
	f.StringSliceVar(&buildReq.WrestlerIDs, "wrestler", nil, "Wrestler id to put on the roster (repeatable)")
	f.StringSliceVar(&buildReq.TitleIDs, "title", nil, "Title id on the line (repeatable)")
	f.StringVar(&buildReq.ChampionID, "champion", "", "Wrestler id to seed as champion of every --title")
	f.StringVar(&buildReq.Timing, "timing", "scheduled", "Date of a new event: scheduled, past or YYYY-MM-DD")
	f.StringVar(&buildReq.Preview, "preview", "", "Match preview text")

	matchListCmd.Flags().StringVar(&listEvent, "event", "", "Event id (required)")
	_ = matchListCmd.MarkFlagRequired("event")

	matchRefereesCmd.Flags().StringSliceVar(&refereeIDs, "referee", nil, "Referee id to assign (repeatable)")

	matchResultCmd.Flags().StringSliceVar(&winnerIDs, "winner", nil, "Winning wrestler id (repeatable)")
	matchResultCmd.Flags().StringSliceVar(&loserIDs, "loser", nil, "Losing wrestler id (repeatable)")

	matchCmd.AddCommand(matchBuildCmd)
	matchCmd.AddCommand(matchShowCmd)
	matchCmd.AddCommand(matchListCmd)
	matchCmd.AddCommand(matchRefereesCmd)
	matchCmd.AddCommand(matchResultCmd)
}

func runMatchBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	b, err := app.matches.BuilderFor(ctx, buildReq)
	if err != nil {
		return err
	}
	match, err := b.Build(ctx)
	if err != nil {
		return err
	}
	card, err := app.matches.Card(ctx, match.ID)
	if err != nil {
		return err
	}
	return printJSON(cmd, card)
}

func runMatchShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	card, err := app.matches.Card(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, card)
}

func runMatchList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	event, err := app.events.Get(ctx, listEvent)
	if err != nil {
		return err
	}
	if event == nil {
		return service.ErrEventNotFound
	}
	matches, err := app.matchRepo.ListByEvent(ctx, listEvent)
	if err != nil {
		return err
	}
	return printJSON(cmd, matches)
}

func runMatchReferees(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ids, err := app.matches.AssignReferees(ctx, args[0], refereeIDs)
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]any{"match_id": args[0], "referees": ids})
}

func runMatchResult(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	var err error
	switch {
	case cmd.Flags().Changed("winner") && cmd.Flags().Changed("loser"):
		err = app.matches.RecordResult(ctx, args[0], winnerIDs, loserIDs)
	case cmd.Flags().Changed("winner"):
		err = app.matches.SetWinners(ctx, args[0], winnerIDs)
	case cmd.Flags().Changed("loser"):
		err = app.matches.SetLosers(ctx, args[0], loserIDs)
	default:
		return errNoOutcome
	}
	if err != nil {
		return err
	}

	winners, err := app.matches.Winners(ctx, args[0])
	if err != nil {
		return err
	}
	losers, err := app.matches.Losers(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, map[string]any{"match_id": args[0], "winners": winners, "losers": losers})
}
