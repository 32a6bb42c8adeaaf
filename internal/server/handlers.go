package server

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"budget-dashboard/internal/analytics"
	"budget-dashboard/internal/ingest"
	"budget-dashboard/internal/models"
	"budget-dashboard/internal/parsererror"
)

// uploadResult is the JSON shape of a per-file import outcome.
type uploadResult struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	Error    string `json:"error,omitempty"`
}

func (s *Server) uploadBank(c *gin.Context) {
	files, ok := s.readUploads(c)
	if !ok {
		return
	}
	s.respondUpload(c, s.ingest.ImportBank(c.Request.Context(), files))
}

func (s *Server) uploadArchive(c *gin.Context) {
	files, ok := s.readUploads(c)
	if !ok {
		return
	}
	s.respondUpload(c, s.ingest.ImportArchive(c.Request.Context(), files))
}

// readUploads collects the multipart "files" parts into memory.
func (s *Server) readUploads(c *gin.Context) ([]ingest.File, bool) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return nil, false
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files uploaded"})
		return nil, false
	}

	files := make([]ingest.File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read " + header.Filename})
			return nil, false
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read " + header.Filename})
			return nil, false
		}
		files = append(files, ingest.File{Name: header.Filename, Data: data})
	}
	return files, true
}

// respondUpload reports every file's outcome. The request succeeds as long
// as at least one file imported; it fails with 422 when none did.
func (s *Server) respondUpload(c *gin.Context, results []ingest.Result) {
	out := make([]uploadResult, len(results))
	anyOK := false
	for i, r := range results {
		out[i] = uploadResult{Filename: r.Filename, Count: r.Count, Error: r.Error()}
		if r.Err == nil {
			anyOK = true
		}
	}

	status := http.StatusOK
	if !anyOK {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{
		"results":      out,
		"transactions": s.store.Count(),
	})
}

func (s *Server) balance(c *gin.Context) {
	start, end, ok := s.dateRange(c)
	if !ok {
		return
	}

	anchor := decimal.Zero
	if raw := c.Query("anchor"); raw != "" {
		var err error
		anchor, err = decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anchor balance"})
			return
		}
	}

	batches := s.store.FilterByDate(start, end)
	series := analytics.BalanceSeries(batches, anchor)
	if series == nil {
		c.JSON(http.StatusOK, gin.H{
			"series":  []analytics.BalancePoint{},
			"message": "no transactions loaded",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": series})
}

func (s *Server) spending(c *gin.Context) {
	start, end, ok := s.dateRange(c)
	if !ok {
		return
	}

	totals := analytics.SpendingByCategory(s.store.FilterByDate(start, end))
	if totals == nil {
		c.JSON(http.StatusOK, gin.H{
			"categories": []analytics.CategoryTotal{},
			"message":    "no expenses loaded",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": totals})
}

func (s *Server) transactions(c *gin.Context) {
	start, end, ok := s.dateRange(c)
	if !ok {
		return
	}

	transactions := []models.Transaction{}
	for _, tx := range s.store.Transactions() {
		day := tx.Day()
		if !start.IsZero() && day.Before(start) {
			continue
		}
		if !end.IsZero() && day.After(end) {
			continue
		}
		transactions = append(transactions, tx)
	}
	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// dateRange parses the optional start/end query bounds shared by the view
// endpoints; it writes the 400 response itself on bad input.
func (s *Server) dateRange(c *gin.Context) (time.Time, time.Time, bool) {
	start, err := parseDateParam(c.Query("start"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
		return time.Time{}, time.Time{}, false
	}
	end, err := parseDateParam(c.Query("end"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// categoryUpdateRequest is the body of a category edit.
type categoryUpdateRequest struct {
	Category string `json:"category" binding:"required"`
}

func (s *Server) updateCategory(c *gin.Context) {
	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category is required"})
		return
	}

	err := s.store.UpdateCategory(c.Param("id"), req.Category)
	if err != nil {
		var invalid *parsererror.InvalidCategoryError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":      err.Error(),
				"categories": models.Categories(),
			})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "category": req.Category})
}

func (s *Server) export(c *gin.Context) {
	path, err := s.store.Export(s.exportDir)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

// parseDateParam parses an optional YYYY-MM-DD query value; empty means
// unbounded.
func parseDateParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", raw)
}
