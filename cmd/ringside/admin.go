package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/model"
)

// migrateCmd applies the embedded schema
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Applies every embedded migration. Statements are idempotent, so running
migrate against an up-to-date database changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Match types and stipulations",
}

var catalogSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upsert the configured catalog into the database",
	Long: `Writes every match type and stipulation from the catalog (the embedded
default, or RINGSIDE_CATALOG_PATH) so matches booked by id can find them.`,
	Args: cobra.NoArgs,
	RunE: runCatalogSync,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List match types stored in the database",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Wrestlers and referees",
}

var rosterListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active wrestlers",
	Args:  cobra.NoArgs,
	RunE:  runRosterList,
}

var rosterReleaseCmd = &cobra.Command{
	Use:   "release [wrestler-or-referee-id]",
	Short: "Release a wrestler or referee, keeping their match history",
	Example: `  ringside roster release wrestler:4f1c...
  ringside roster release referee:9ab2...`,
	Args: cobra.ExactArgs(1),
	RunE: runRosterRelease,
}

func init() {
	catalogCmd.AddCommand(catalogSyncCmd)
	catalogCmd.AddCommand(catalogListCmd)

	rosterCmd.AddCommand(rosterListCmd)
	rosterCmd.AddCommand(rosterReleaseCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	migs, err := database.Migrations()
	if err != nil {
		return err
	}
	if err := database.Migrate(ctx, app.db); err != nil {
		return err
	}
	logger.Info("schema applied", slog.Int("migrations", len(migs)))
	return nil
}

func runCatalogSync(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	types := app.cat.AllMatchTypes()
	if err := app.matchTypes.Upsert(ctx, types...); err != nil {
		return err
	}
	stips := app.cat.AllStipulations()
	if err := app.stipulations.Upsert(ctx, stips...); err != nil {
		return err
	}
	logger.Info("catalog synced",
		slog.Int("match_types", len(types)),
		slog.Int("stipulations", len(stips)))
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	types, err := app.matchTypes.List(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd, types)
}

func runRosterList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	ws, err := app.wrestlers.ListActive(ctx)
	if err != nil {
		return err
	}
	return printJSON(cmd, ws)
}

func runRosterRelease(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	id := args[0]
	table, _, ok := model.SplitID(id)
	if !ok {
		return model.NewBadRequestError(fmt.Sprintf("%q is not a record id", id))
	}

	var err error
	switch table {
	case model.TableWrestler:
		err = app.wrestlers.SoftDelete(ctx, id)
	case model.TableReferee:
		err = app.referees.SoftDelete(ctx, id)
	default:
		return model.NewBadRequestError(fmt.Sprintf("%s records cannot be released", table))
	}
	if err != nil {
		return err
	}
	logger.Info("roster member released", slog.String("id", id))
	return nil
}
