// Package spending handles the spending command: break expenses down per
// category.
package spending

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"budget-dashboard/cmd/root"
	"budget-dashboard/internal/analytics"
)

// Cmd represents the spending command.
var Cmd = &cobra.Command{
	Use:   "spending",
	Short: "Break spending down per category",
	Long: `Import the input files and print the total spent per category, largest
first. Only expenses (negative amounts) count; income is ignored.`,
	Run: spendingFunc,
}

func spendingFunc(cmd *cobra.Command, args []string) {
	files := root.ReadInputs()
	services := root.NewServices(cmd.Context())

	for _, result := range services.Ingest.ImportBank(cmd.Context(), files) {
		if result.Err != nil {
			root.Log.Fatalf("Failed to import %s: %v", result.Filename, result.Err)
		}
	}

	totals := analytics.SpendingByCategory(services.Store.Batches())
	if len(totals) == 0 {
		root.Log.Info("No expenses found")
		return
	}

	if out := root.SharedFlags.Output; out != "" {
		if err := writeTotalsCSV(totals, out); err != nil {
			root.Log.Fatalf("Failed to write CSV: %v", err)
		}
		return
	}
	for _, total := range totals {
		fmt.Printf("%-15s %s\n", total.Category, total.Amount.StringFixed(2))
	}
}

type totalRow struct {
	Category string `csv:"Category"`
	Amount   string `csv:"Amount"`
}

func writeTotalsCSV(totals []analytics.CategoryTotal, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	rows := make([]totalRow, len(totals))
	for i, total := range totals {
		rows[i] = totalRow{Category: total.Category, Amount: total.Amount.StringFixed(2)}
	}
	return gocsv.MarshalFile(&rows, file)
}
