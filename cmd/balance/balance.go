// Package balance handles the balance command: reconstruct the daily
// account balance from imported files.
package balance

import (
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"budget-dashboard/cmd/root"
	"budget-dashboard/internal/analytics"
)

// Cmd represents the balance command.
var Cmd = &cobra.Command{
	Use:   "balance",
	Short: "Reconstruct the daily account balance",
	Long: `Reconstruct the daily account balance from the input files. The starting
balance is inferred from the statement's trailing balance, or from --anchor
when the current balance is known.`,
	Run: balanceFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.Anchor, "anchor", "", "Known current balance to anchor the series on")
	Cmd.Flags().StringVar(&root.Start, "start", "", "Range start (YYYY-MM-DD)")
	Cmd.Flags().StringVar(&root.End, "end", "", "Range end (YYYY-MM-DD)")
}

func balanceFunc(cmd *cobra.Command, args []string) {
	files := root.ReadInputs()
	services := root.NewServices(cmd.Context())

	for _, result := range services.Ingest.ImportBank(cmd.Context(), files) {
		if result.Err != nil {
			root.Log.Fatalf("Failed to import %s: %v", result.Filename, result.Err)
		}
	}

	anchor := decimal.Zero
	if root.Anchor != "" {
		var err error
		anchor, err = decimal.NewFromString(root.Anchor)
		if err != nil {
			root.Log.Fatalf("Invalid anchor balance %q: %v", root.Anchor, err)
		}
	}

	start, err := parseDateFlag(root.Start)
	if err != nil {
		root.Log.Fatalf("Invalid start date %q: %v", root.Start, err)
	}
	end, err := parseDateFlag(root.End)
	if err != nil {
		root.Log.Fatalf("Invalid end date %q: %v", root.End, err)
	}

	series := analytics.BalanceSeries(services.Store.FilterByDate(start, end), anchor)
	if len(series) == 0 {
		root.Log.Info("No transactions in range")
		return
	}

	if out := root.SharedFlags.Output; out != "" {
		if err := writeSeriesCSV(series, out); err != nil {
			root.Log.Fatalf("Failed to write CSV: %v", err)
		}
		return
	}
	for _, point := range series {
		fmt.Printf("%s  %s\n", point.Date.Format("2006-01-02"), point.Balance.StringFixed(2))
	}
}

type seriesRow struct {
	Date    string `csv:"Date"`
	Balance string `csv:"Balance"`
}

func writeSeriesCSV(series []analytics.BalancePoint, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rows := make([]seriesRow, len(series))
	for i, point := range series {
		rows[i] = seriesRow{
			Date:    point.Date.Format("2006-01-02"),
			Balance: point.Balance.StringFixed(2),
		}
	}
	return gocsv.MarshalFile(&rows, file)
}

func parseDateFlag(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
