// Package importer handles the import command: parse bank statements or
// parquet archives and optionally write the result as CSV.
package importer

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"budget-dashboard/cmd/root"
	"budget-dashboard/internal/common"
	"budget-dashboard/internal/ingest"
	"budget-dashboard/internal/logging"
)

var archival bool

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import bank statements or parquet archives",
	Long: `Import OFX/OFC bank statement files or parquet archive files, categorize
their transactions and report the per-file outcome. With -o, the imported
transactions are also written out: a .parquet path produces an archive,
anything else a CSV file.`,
	Run: importFunc,
}

func init() {
	Cmd.Flags().BoolVarP(&archival, "archive", "a", false, "Treat inputs as parquet archives")
}

func importFunc(cmd *cobra.Command, args []string) {
	files := root.ReadInputs()
	services := root.NewServices(cmd.Context())

	var results []ingest.Result
	if archival {
		results = services.Ingest.ImportArchive(cmd.Context(), files)
	} else {
		results = services.Ingest.ImportBank(cmd.Context(), files)
	}

	failed := 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			root.Log.WithError(result.Err).Error("Import failed",
				logging.Field{Key: "file", Value: result.Filename})
			continue
		}
		root.Log.Info("Imported file",
			logging.Field{Key: "file", Value: result.Filename},
			logging.Field{Key: "transactions", Value: result.Count})
	}

	if failed == len(results) {
		root.Log.Fatalf("All %d input file(s) failed to import", failed)
	}

	if out := root.SharedFlags.Output; out != "" {
		if strings.EqualFold(filepath.Ext(out), ".parquet") {
			if err := services.Codec.Save(out, services.Store.Batches()); err != nil {
				root.Log.Fatalf("Failed to write parquet archive: %v", err)
			}
		} else {
			if err := common.WriteTransactionsToCSV(services.Store.Transactions(), out, root.Log); err != nil {
				root.Log.Fatalf("Failed to write CSV: %v", err)
			}
		}
	}

	root.Log.Info("Import completed",
		logging.Field{Key: "transactions", Value: services.Store.Count()})
}
