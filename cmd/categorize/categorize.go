// Package categorize handles the categorize command: classify a single
// transaction description against the keyword rules.
package categorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"budget-dashboard/cmd/root"
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Categorize a transaction description",
	Long: `Run a single transaction description through the keyword rules and print
the resulting category. Useful to check which rule a description hits.`,
	Run: categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&root.Description, "description", "d", "", "Transaction description to categorize")
	Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) {
	services := root.NewServices(cmd.Context())
	category := services.Engine.Categorize(cmd.Context(), root.Description)
	fmt.Println(category)
}
