package main

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tradewatch/internal/notify"
	"tradewatch/internal/scheduler"
	"tradewatch/internal/source"
	"tradewatch/internal/tracker"
)

var (
	cfgFile string
	runOnce bool
)

var rootCmd = &cobra.Command{
	Use:          "tradewatch",
	Short:        "Track politician stock trades and email alerts for new disclosures",
	SilenceUsage: true,
	RunE: withApp(true, func(cmd *cobra.Command, a *app) error {
		src, err := source.NewClient(a.cfg.DataSource, a.logger)
		if err != nil {
			return errors.Wrap(err, "create data source")
		}
		notifier, err := notify.New(&a.cfg, a.logger)
		if err != nil {
			return errors.Wrap(err, "create notifier")
		}
		t := tracker.NewTracker(a.logger, a.repo, src, notifier, &a.cfg)

		if runOnce {
			t.CheckForNewTrades(cmd.Context())
			return nil
		}
		return runContinuously(cmd.Context(), a, t, notifier)
	}),
}

func runContinuously(ctx context.Context, a *app, t *tracker.Tracker, notifier notify.Notifier) error {
	a.logger.Info("starting politician trade tracker",
		zap.Strings("politicians", a.cfg.Politicians),
		zap.Int("check_interval_minutes", a.cfg.CheckIntervalMinutes),
	)

	if a.cfg.Email.Enabled {
		if err := notifier.TestConnection(ctx); err != nil {
			a.logger.Warn("email connection test failed, notifications may not work", zap.Error(err))
		} else {
			a.logger.Info("email connection test passed")
		}
	}

	t.CheckForNewTrades(ctx)

	runner := scheduler.New(a.logger, ctx)
	id, err := runner.Every(a.cfg.CheckInterval(), t.CheckForNewTrades)
	if err != nil {
		return errors.Wrap(err, "schedule trade check")
	}
	runner.Start()
	a.logger.Info("scheduler running", zap.Time("next_check", runner.Next(id).Truncate(time.Second)))

	<-ctx.Done()
	a.logger.Info("shutting down")
	runner.Stop()
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "Config file path")
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run one check and exit")
}
