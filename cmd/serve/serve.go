// Package serve handles the serve command: run the dashboard HTTP API.
package serve

import (
	"github.com/spf13/cobra"

	"budget-dashboard/cmd/root"
	"budget-dashboard/internal/server"
)

var addr string

// Cmd represents the serve command.
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	Long: `Start the HTTP API: upload statements and archives, read the balance
series and spending breakdown, edit categories and export parquet archives.`,
	Run: serveFunc,
}

func init() {
	Cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
}

func serveFunc(cmd *cobra.Command, args []string) {
	services := root.NewServices(cmd.Context())

	listen := addr
	if listen == "" {
		listen = root.Cfg.Server.Addr
	}

	srv := server.New(services.Ingest, services.Store, root.Cfg.Data.Directory, root.Log)
	if err := srv.Run(listen); err != nil {
		root.Log.Fatalf("HTTP server failed: %v", err)
	}
}
