package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/hailwood/Ringside/internal/model"
)

var (
	titleName       string
	titleIntroduced string
)

var titleCmd = &cobra.Command{
	Use:   "title",
	Short: "Titles and the championship ledger",
}

var titleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Introduce a new title",
	Args:  cobra.NoArgs,
	RunE:  runTitleCreate,
}

var titleChampionCmd = &cobra.Command{
	Use:   "champion [title-id]",
	Short: "Show the current reign of a title",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitleChampion,
}

var titleHistoryCmd = &cobra.Command{
	Use:   "history [title-id]",
	Short: "List every reign of a title, most recent first",
	Args:  cobra.ExactArgs(1),
	RunE:  runTitleHistory,
}

// titleTransferCmd is the explicit step that moves titles after a result
var titleTransferCmd = &cobra.Command{
	Use:   "transfer [match-id]",
	Short: "Hand the match's titles to its recorded winners",
	Long: `Closes the current reign of every title contested in the match on the
event date and opens a reign for each winner. Champions who won keep their
reign. Recording a result never does this on its own.`,
	Args: cobra.ExactArgs(1),
	RunE: runTitleTransfer,
}

func init() {
	titleCreateCmd.Flags().StringVar(&titleName, "name", "", "Title name (required)")
	titleCreateCmd.Flags().StringVar(&titleIntroduced, "introduced", "", "Introduction date YYYY-MM-DD (default: today)")
	_ = titleCreateCmd.MarkFlagRequired("name")

	titleCmd.AddCommand(titleCreateCmd)
	titleCmd.AddCommand(titleChampionCmd)
	titleCmd.AddCommand(titleHistoryCmd)
	titleCmd.AddCommand(titleTransferCmd)
}

func runTitleCreate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	introduced, err := parseDate(titleIntroduced)
	if err != nil {
		return err
	}
	title := &model.Title{Name: titleName, IntroducedAt: introduced}
	if err := app.titleRepo.Create(ctx, title); err != nil {
		return err
	}
	logger.Info("title introduced", slog.String("title_id", title.ID), slog.String("name", title.Name))
	return printJSON(cmd, title)
}

func runTitleChampion(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	reign, err := app.titles.CurrentChampion(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, reign)
}

func runTitleHistory(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rows, err := app.titles.History(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, rows)
}

func runTitleTransfer(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	changes, err := app.titles.TransferAfterMatch(ctx, args[0])
	if err != nil {
		return err
	}
	return printJSON(cmd, changes)
}

// parseDate reads a YYYY-MM-DD flag; empty means today in UTC.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, model.NewBadRequestError("dates must be YYYY-MM-DD, got " + s)
	}
	return d, nil
}
