package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hailwood/Ringside/internal/catalog"
	"github.com/hailwood/Ringside/internal/config"
	"github.com/hailwood/Ringside/internal/database"
	"github.com/hailwood/Ringside/internal/repository"
	"github.com/hailwood/Ringside/internal/service"
)

var (
	// Global flags
	logLevel string
	timeout  time.Duration

	// Set up by PersistentPreRunE
	logger *slog.Logger
	app    *application
)

// application holds everything a subcommand needs once configuration is loaded.
type application struct {
	db  *database.SurrealDB
	cat *catalog.Catalog

	events       *repository.EventRepository
	matchTypes   *repository.MatchTypeRepository
	stipulations *repository.StipulationRepository
	matchRepo    *repository.MatchRepository
	titleRepo    *repository.TitleRepository
	wrestlers    *repository.WrestlerRepository
	referees     *repository.RefereeRepository

	matches *service.MatchService
	titles  *service.TitleService
}

var rootCmd = &cobra.Command{
	Use:   "ringside",
	Short: "Book matches and keep the title ledger for a wrestling promotion",
	Long: `ringside is the operator tool for the promotion's booking data.

It builds match rosters, assigns referees, records results and hands titles
over after matches. Every command talks to SurrealDB using the DB_* environment
variables; output is JSON on stdout and logs go to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !needsDatabase(cmd) {
			return nil
		}
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		level, _ := cfg.SlogLevel()
		logger = newLogger(os.Stderr, level)
		slog.SetDefault(logger)

		app, err = newApplication(cmd.Context(), cfg)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides RINGSIDE_LOG_LEVEL)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Operation timeout")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(rosterCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(titleCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, rootCmd); err != nil {
		reportError(err)
		stop()
		os.Exit(1)
	}
}

// execute runs the command tree and closes the database whether or not the
// command failed. cobra skips post-run hooks after a RunE error.
func execute(ctx context.Context, root *cobra.Command) error {
	defer closeApplication()
	return root.ExecuteContext(ctx)
}

func closeApplication() {
	if app == nil {
		return
	}
	if err := app.db.Close(); err != nil && logger != nil {
		logger.Warn("closing database", slog.String("error", err.Error()))
	}
	app = nil
}

// needsDatabase is false for cobra's own help and completion commands.
func needsDatabase(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		switch c.Name() {
		case "help", "completion":
			return false
		}
	}
	return cmd.Runnable()
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// newApplication connects to the database and wires repositories into services.
func newApplication(ctx context.Context, cfg *config.Config) (*application, error) {
	cat, err := catalog.LoadFile(cfg.Roster.CatalogPath)
	if err != nil {
		return nil, err
	}

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})
	if err := db.Connect(ctx); err != nil {
		return nil, err
	}
	logger.Debug("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database))

	a := &application{
		db:           db,
		cat:          cat,
		events:       repository.NewEventRepository(db),
		matchTypes:   repository.NewMatchTypeRepository(db),
		stipulations: repository.NewStipulationRepository(db),
		matchRepo:    repository.NewMatchRepository(db),
		titleRepo:    repository.NewTitleRepository(db),
		wrestlers:    repository.NewWrestlerRepository(db),
		referees:     repository.NewRefereeRepository(db),
	}

	a.matches = service.NewMatchService(service.MatchServiceConfig{
		MatchRepo:          a.matchRepo,
		EventRepo:          a.events,
		MatchTypeRepo:      a.matchTypes,
		StipulationRepo:    a.stipulations,
		WrestlerRepo:       a.wrestlers,
		RefereeRepo:        a.referees,
		TitleRepo:          a.titleRepo,
		Catalog:            cat,
		ChampionLeadMonths: cfg.Roster.ChampionLeadMonths,
		HireLeadMonths:     cfg.Roster.HireLeadMonths,
		Logger:             logger,
	})
	a.titles = service.NewTitleService(service.TitleServiceConfig{
		TitleRepo: a.titleRepo,
		MatchRepo: a.matchRepo,
		EventRepo: a.events,
		Logger:    logger,
	})
	return a, nil
}

// commandContext bounds a subcommand by --timeout.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, timeout)
}

// printJSON writes v to the command's output as indented JSON.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// reportError logs a failed command with its problem details.
func reportError(err error) {
	l := logger
	if l == nil {
		l = newLogger(os.Stderr, slog.LevelInfo)
	}
	pd := service.Problem(err)
	l.Error("command failed",
		slog.String("error", err.Error()),
		slog.Int("status", pd.Status),
		slog.String("title", pd.Title))
}
