package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ytscout/ytscout/internal/config"
	"github.com/ytscout/ytscout/internal/scout"
	"github.com/ytscout/ytscout/internal/store"
	"github.com/ytscout/ytscout/internal/tui"
	"github.com/ytscout/ytscout/internal/youtube"
)

// loadSettings applies command-line overrides on top of the config file.
func loadSettings() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if flagMetric != "" {
		cfg.Metric = flagMetric
	}
	if flagMaxAge != "" {
		if _, err := config.ParseAge(flagMaxAge); err != nil {
			return nil, fmt.Errorf("invalid --max-age value: %w", err)
		}
		cfg.MaxAge = flagMaxAge
	}
	return cfg, nil
}

// newLogger writes to the state-dir log file; the TUI owns the terminal so
// stderr is not an option while it runs.
func newLogger() zerolog.Logger {
	path := config.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(f).With().Timestamp().Logger()
}

// newConsoleLogger is for subcommands that own the terminal.
func newConsoleLogger() zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(w).With().Timestamp().Logger().Level(zerolog.WarnLevel)
}

// buildFinder wires the store, the configured lister and the stats client
// into the query pipeline.
func buildFinder(cfg *config.Config, db *store.Store, logger zerolog.Logger) (*scout.Finder, *youtube.Client) {
	client := youtube.NewClient(cfg.Key(), logger)

	var lister youtube.Lister = client
	if cfg.Listing == config.ListingRSS {
		lister = youtube.NewRSSLister()
	}

	return scout.New(db, lister, client, logger), client
}

func loadNiches() config.Niches {
	path := flagNiches
	if path == "" {
		path = config.DefaultNichesPath()
	}
	niches, err := config.LoadNiches(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[warn] %v\n", err)
	}
	return niches
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	niches := loadNiches()
	if flagNiche != "" {
		if _, ok := niches[flagNiche]; !ok {
			return fmt.Errorf("unknown niche %q (known: %v)", flagNiche, niches.Names())
		}
	}

	db, err := store.Open(config.CachePath())
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer db.Close()

	logger := newLogger()
	finder, client := buildFinder(cfg, db, logger)

	minScore := cfg.MinScore
	if cmd.Flags().Changed("min-score") {
		minScore = flagMinScore
	}

	return tui.Run(tui.RunOpts{
		Cfg:          cfg,
		Niches:       niches,
		Finder:       finder,
		Comments:     client,
		Niche:        flagNiche,
		Keyword:      flagKeyword,
		MinScore:     minScore,
		SortBy:       flagSort,
		ForceRefresh: flagRefresh,
	})
}
