package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/conorfennell/zeal/internal/config"
	"github.com/conorfennell/zeal/internal/deck"
	"github.com/conorfennell/zeal/internal/storage"
)

// app holds what PersistentPreRunE builds for the subcommands.
type app struct {
	configPath string
	cfg        config.Config
	logger     *slog.Logger
	store      storage.Store
	deck       *deck.Deck
}

func newRootCmd() *cobra.Command {
	a := &app{}
	defaults := config.Default()

	rootCmd := &cobra.Command{
		Use:   "zeal",
		Short: "Spaced-repetition scheduler for saved vocabulary",
		Long: `zeal keeps a deck of saved items and schedules each one for review
with the SM-2 algorithm. Items are opaque ids; import them from markdown
Q:/A: files or git repositories, or save them by id.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.open(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "path to a YAML config file")
	pf.String("backend", defaults.Backend, "record store backend: sqlite, file or memory")
	pf.String("db", defaults.DBPath, "SQLite database path")
	pf.String("data-file", defaults.DataFile, "JSON file path for the file backend")
	pf.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")
	pf.String("log-format", defaults.LogFormat, "log format: text or json")

	rootCmd.AddCommand(
		serveCmd(a),
		saveCmd(a),
		removeCmd(a),
		dueCmd(a),
		reviewCmd(a),
		statsCmd(a),
		listCmd(a),
		exportCmd(a),
		importCmd(a),
	)
	return rootCmd
}

func (a *app) open(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cfg.Logger()
	slog.SetDefault(a.logger)

	store, err := storage.Open(cfg.Backend, cfg.StoreLocation(), storage.Options{
		InitialEase: cfg.Scheduler.InitialEase,
		Logger:      a.logger,
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	a.store = store
	a.deck = deck.New(store, cfg.Params(), deck.WithLogger(a.logger))

	a.logger.Debug("Store opened", "backend", cfg.Backend, "location", cfg.StoreLocation())
	return nil
}
