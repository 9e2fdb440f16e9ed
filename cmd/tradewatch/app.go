package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradewatch/internal/config"
	"tradewatch/internal/database"
	"tradewatch/internal/logger"
)

// app holds what every command needs: configuration, a logger and an open store.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	repo   database.Repository
}

// withApp loads configuration, builds the logger and opens the store around run.
// Only commands that notify need the full validation gate.
func withApp(validate bool, run func(cmd *cobra.Command, a *app) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			return errors.Wrap(err, "cannot load config")
		}
		if validate {
			if err := cfg.Err(); err != nil {
				return err
			}
		}

		log, err := logger.New(cfg.Log)
		if err != nil {
			return errors.Wrap(err, "cannot build logger")
		}
		defer func() { _ = log.Sync() }()
		log = log.With(zap.String("command", cmd.CommandPath()))

		repo, err := database.Open(cmd.Context(), cfg.Database.Path)
		if err != nil {
			log.Error("could not open database", zap.String("path", cfg.Database.Path), zap.Error(err))
			return errors.Wrap(err, "open database")
		}
		defer func() {
			if err := repo.Close(); err != nil {
				log.Warn("could not close database", zap.Error(err))
			}
		}()

		return run(cmd, &app{cfg: cfg, logger: log, repo: repo})
	}
}
