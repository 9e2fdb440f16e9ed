package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List stored trades that were never announced",
	Args:  cobra.NoArgs,
	RunE: withApp(false, func(cmd *cobra.Command, a *app) error {
		trades, err := a.repo.UnnotifiedTrades(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "query pending trades")
		}
		return printTrades(cmd.OutOrStdout(), trades)
	}),
}

func init() {
	rootCmd.AddCommand(pendingCmd)
}
