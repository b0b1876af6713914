// Command ingest is the cricstats pipeline CLI.
//
// Usage:
//
//	cricstats-ingest scrape --player "Virat Kohli" --stat all
//	cricstats-ingest transform --player "Virat Kohli"
//	cricstats-ingest aggregate --player "Virat Kohli" --stat batting --scope master
//	cricstats-ingest pipeline --player "Virat Kohli" --scope player
//	cricstats-ingest migrate up
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/cricstats/internal/aggregate"
	"github.com/albapepper/cricstats/internal/config"
	"github.com/albapepper/cricstats/internal/db"
	"github.com/albapepper/cricstats/internal/ingest"
	"github.com/albapepper/cricstats/internal/provider/cricinfo"
	"github.com/albapepper/cricstats/internal/stats"
	"github.com/albapepper/cricstats/internal/storage"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "cricstats-ingest",
		Short:        "Cricketer stats ingestion CLI",
		SilenceUsage: true,
	}

	root.AddCommand(scrapeCmd())
	root.AddCommand(transformCmd())
	root.AddCommand(aggregateCmd())
	root.AddCommand(pipelineCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Shared flags
// --------------------------------------------------------------------------

type runFlags struct {
	player string
	stat   string
	scope  string
}

func (f *runFlags) register(cmd *cobra.Command, withScope bool) {
	cmd.Flags().StringVar(&f.player, "player", "", "Player name, e.g. \"Virat Kohli\"")
	cmd.Flags().StringVar(&f.stat, "stat", stats.SelectAll, "Category (batting, bowling, fielding, allround, personal_info) or all")
	if withScope {
		cmd.Flags().StringVar(&f.scope, "scope", string(storage.ScopeMaster), "Aggregate scope (master or player)")
	}
	_ = cmd.MarkFlagRequired("player")
}

func (f *runFlags) categories() ([]stats.Category, error) {
	return stats.ParseSelector(f.stat)
}

// --------------------------------------------------------------------------
// Stage commands
// --------------------------------------------------------------------------

func scrapeCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape a player's stats into the raw stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := flags.categories()
			if err != nil {
				return err
			}
			return runStage(true, func(ctx context.Context, p *ingest.Pipeline) error {
				start := time.Now()
				pl, res, err := p.Scrape(ctx, flags.player, cats)
				if err != nil {
					return err
				}
				logStage("Scrape finished", pl.Name, start, res)
				return nil
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func transformCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Transform stored raw tables into the tf stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := flags.categories()
			if err != nil {
				return err
			}
			return runStage(false, func(ctx context.Context, p *ingest.Pipeline) error {
				pl, err := p.Resolve(ctx, flags.player)
				if err != nil {
					return err
				}
				start := time.Now()
				logStage("Transform finished", pl.Name, start, p.Transform(ctx, pl, cats))
				return nil
			})
		},
	}
	flags.register(cmd, false)
	return cmd
}

func aggregateCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Merge a player's transformed tables into the master tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := flags.categories()
			if err != nil {
				return err
			}
			scope, err := storage.ParseScope(flags.scope)
			if err != nil {
				return err
			}
			return runStage(false, func(ctx context.Context, p *ingest.Pipeline) error {
				pl, err := p.Resolve(ctx, flags.player)
				if err != nil {
					return err
				}
				return reportAggregate(p.Aggregate(ctx, pl, cats, scope))
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func pipelineCmd() *cobra.Command {
	var flags runFlags
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Scrape, transform and aggregate one player",
		RunE: func(cmd *cobra.Command, args []string) error {
			cats, err := flags.categories()
			if err != nil {
				return err
			}
			scope, err := storage.ParseScope(flags.scope)
			if err != nil {
				return err
			}
			return runStage(true, func(ctx context.Context, p *ingest.Pipeline) error {
				res, err := p.Run(ctx, flags.player, cats, scope)
				if err != nil {
					return err
				}
				return reportAggregate(res)
			})
		},
	}
	flags.register(cmd, true)
	return cmd
}

func logStage(msg, name string, start time.Time, res ingest.StageResult) {
	logger.Info(msg, "player", name, "duration", time.Since(start).Round(time.Millisecond), "summary", res.Summary())
	for _, e := range res.Errors {
		logger.Error("stage error", "stage", res.Stage, "error", e)
	}
}

// reportAggregate logs every failed category and turns any failure into a
// non-zero exit so a single category can be re-run.
func reportAggregate(res *aggregate.Result) error {
	failed := res.Failed()
	for _, o := range failed {
		logger.Error("aggregate error", "category", o.Category, "error", o.Error)
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d categories failed: %s", len(failed), res.Summary())
	}
	return nil
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the postgres blob store schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(func(m *db.Migrator) error { return m.Up() })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("steps must be an integer: %w", err)
				}
				steps = n
			}
			return runMigrate(func(m *db.Migrator) error { return m.Down(steps) })
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(func(m *db.Migrator) error {
				version, dirty, ok, err := m.Version()
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", version, dirty)
				return nil
			})
		},
	})
	return cmd
}

func runMigrate(fn func(m *db.Migrator) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	m, err := db.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	return cfg, nil
}

// runStage handles config loading, storage setup, and context cancellation.
// The scraper is only built for stages that hit the network.
func runStage(withScraper bool, fn func(ctx context.Context, p *ingest.Pipeline) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	var scraper ingest.Scraper
	if withScraper {
		scraper = cricinfo.NewClient(cricinfo.Config{
			SearchBaseURL:     cfg.SearchBaseURL,
			StatsBaseURL:      cfg.StatsBaseURL,
			ProfileBaseURL:    cfg.ProfileBaseURL,
			RequestsPerMinute: cfg.ScrapeRPM,
			Timeout:           cfg.ScrapeTimeout,
			Concurrency:       cfg.ScrapeConcurrency,
			UserAgent:         cfg.UserAgent,
		}, logger)
	}

	return fn(ctx, ingest.New(scraper, storage.NewLoader(store, logger), logger))
}
