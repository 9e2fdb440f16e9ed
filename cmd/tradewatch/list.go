package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"tradewatch/internal/model"
)

// printTrades writes trades as an aligned table.
func printTrades(w io.Writer, trades []model.Trade) error {
	if len(trades) == 0 {
		_, err := fmt.Fprintln(w, "no trades")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDISCLOSED\tTRADED\tPOLITICIAN\tTICKER\tTYPE\tAMOUNT\tNOTIFIED")
	for _, t := range trades {
		traded := "N/A"
		if t.TransactionDate != nil {
			traded = t.TransactionDate.Format("2006-01-02")
		}
		amount := t.AmountRange
		if amount == "" {
			amount = "N/A"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%t\n",
			t.ID, t.DisclosureDate.Format("2006-01-02"), traded,
			t.PoliticianName, t.Ticker, t.TransactionType, amount, t.Notified)
	}
	return tw.Flush()
}
