// Package main provides the entry point for the budget-dashboard CLI.
package main

import (
	"budget-dashboard/cmd/balance"
	"budget-dashboard/cmd/categorize"
	"budget-dashboard/cmd/importer"
	"budget-dashboard/cmd/root"
	"budget-dashboard/cmd/serve"
	"budget-dashboard/cmd/spending"
)

func main() {
	root.Init()

	root.Cmd.AddCommand(importer.Cmd)
	root.Cmd.AddCommand(balance.Cmd)
	root.Cmd.AddCommand(spending.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(serve.Cmd)

	if err := root.Cmd.Execute(); err != nil {
		root.Log.Fatalf("%v", err)
	}
}
