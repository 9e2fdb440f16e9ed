package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	recentPolitician string
	recentDays       int
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List trades disclosed within the last N days",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
		if recentDays < 1 {
			return errors.Errorf("--days must be at least 1, got %d", recentDays)
		}
		trades, err := a.repo.RecentTrades(cmd.Context(), recentPolitician, recentDays)
		if err != nil {
			return errors.Wrap(err, "query recent trades")
		}
		return printTrades(cmd.OutOrStdout(), trades)
	}),
}

func init() {
	rootCmd.AddCommand(recentCmd)
	recentCmd.Flags().StringVar(&recentPolitician, "politician", "", "Only show trades by this politician")
	recentCmd.Flags().IntVar(&recentDays, "days", 30, "Trailing window in days")
}
