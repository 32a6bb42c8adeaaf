// Package server exposes the dashboard API over HTTP. Uploads, analytics
// views, category edits and parquet export all map one-to-one onto the
// ingest service, the analytics functions and the transaction store.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"budget-dashboard/internal/ingest"
	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/store"
)

// Server bundles the HTTP handlers with their dependencies.
type Server struct {
	ingest    *ingest.Service
	store     *store.TransactionStore
	exportDir string
	logger    logging.Logger
}

// New returns a Server exporting parquet files to exportDir.
func New(ingestSvc *ingest.Service, st *store.TransactionStore, exportDir string, logger logging.Logger) *Server {
	return &Server{ingest: ingestSvc, store: st, exportDir: exportDir, logger: logger}
}

// Router builds the gin engine with every API route registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", s.health)
		api.POST("/uploads/bank", s.uploadBank)
		api.POST("/uploads/archive", s.uploadArchive)
		api.GET("/balance", s.balance)
		api.GET("/spending", s.spending)
		api.GET("/transactions", s.transactions)
		api.PUT("/transactions/:id/category", s.updateCategory)
		api.POST("/export", s.export)
	}
	return r
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("starting HTTP server", logging.Field{Key: "addr", Value: addr})
	return s.Router().Run(addr)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"transactions": s.store.Count(),
	})
}
