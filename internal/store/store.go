// Package store holds the uploaded transaction batches in memory for the
// lifetime of the process. It is the single authoritative copy: every view
// and edit goes through the store, and everything it hands out is a copy so
// callers cannot mutate held state behind its back.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
	"budget-dashboard/internal/parsererror"
)

// Archiver persists the held batches; satisfied by archive.Codec.
type Archiver interface {
	Save(path string, batches []models.Batch) error
}

// TransactionStore is the in-memory batch store. Safe for concurrent use.
type TransactionStore struct {
	mu      sync.Mutex
	batches []models.Batch
	codec   Archiver
	logger  logging.Logger
}

// New returns an empty store that exports through codec.
func New(codec Archiver, logger logging.Logger) *TransactionStore {
	return &TransactionStore{codec: codec, logger: logger}
}

// Replace discards everything held and installs batches as the new content.
// Uploading bank statements starts a fresh session.
func (s *TransactionStore) Replace(batches []models.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches = cloneBatches(batches)
	s.logger.Info("replaced store content",
		logging.Field{Key: "batches", Value: len(s.batches)},
		logging.Field{Key: "transactions", Value: s.countLocked()})
}

// Append adds batches to the held content. Archival uploads extend the
// current session instead of replacing it.
func (s *TransactionStore) Append(batches []models.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.batches = append(s.batches, cloneBatches(batches)...)
	s.logger.Info("appended to store",
		logging.Field{Key: "batches", Value: len(batches)},
		logging.Field{Key: "transactions", Value: s.countLocked()})
}

// Clear discards everything held.
func (s *TransactionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = nil
}

// Batches returns a copy of the held batches in upload order.
func (s *TransactionStore) Batches() []models.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneBatches(s.batches)
}

// Count returns the total number of held transactions.
func (s *TransactionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.countLocked()
}

func (s *TransactionStore) countLocked() int {
	n := 0
	for _, batch := range s.batches {
		n += len(batch.Transactions)
	}
	return n
}

// Transactions returns every held transaction flattened across batches,
// newest first. Transactions without an id are assigned one on first read so
// later category edits can address them.
func (s *TransactionStore) Transactions() []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Transaction
	for bi := range s.batches {
		for ti := range s.batches[bi].Transactions {
			if s.batches[bi].Transactions[ti].ID == "" {
				s.batches[bi].Transactions[ti].ID = uuid.NewString()
			}
			out = append(out, s.batches[bi].Transactions[ti])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

// FilterByDate returns a copy of the held batches keeping only transactions
// within [start, end] by calendar day. A zero start or end leaves that side
// unbounded.
func (s *TransactionStore) FilterByDate(start, end time.Time) []models.Batch {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Batch
	for _, batch := range s.batches {
		filtered := models.Batch{SourceFile: batch.SourceFile}
		for _, tx := range batch.Transactions {
			day := tx.Day()
			if !start.IsZero() && day.Before(start) {
				continue
			}
			if !end.IsZero() && day.After(end) {
				continue
			}
			filtered.Transactions = append(filtered.Transactions, tx)
		}
		out = append(out, filtered)
	}
	return out
}

// UpdateCategory reassigns the category of the transaction with the given
// id. Values outside the enumerated category set are rejected with an
// InvalidCategoryError and the stored record is left untouched.
func (s *TransactionStore) UpdateCategory(id, category string) error {
	if !models.ValidCategory(category) {
		return &parsererror.InvalidCategoryError{Category: category}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for bi := range s.batches {
		for ti := range s.batches[bi].Transactions {
			if s.batches[bi].Transactions[ti].ID == id {
				s.batches[bi].Transactions[ti].Category = category
				s.logger.Info("updated transaction category",
					logging.Field{Key: "id", Value: id},
					logging.Field{Key: "category", Value: category})
				return nil
			}
		}
	}
	return fmt.Errorf("transaction %s not found", id)
}

// Export writes the held transactions to a timestamped parquet file under
// dir and returns the file path. Exporting an empty store is an error.
func (s *TransactionStore) Export(dir string) (string, error) {
	s.mu.Lock()
	batches := cloneBatches(s.batches)
	s.mu.Unlock()

	if len(batches) == 0 {
		return "", fmt.Errorf("nothing to export")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("transactions_%s.parquet",
		time.Now().Format("20060102_150405")))
	if err := s.codec.Save(path, batches); err != nil {
		return "", err
	}
	return path, nil
}

func cloneBatches(batches []models.Batch) []models.Batch {
	if len(batches) == 0 {
		return nil
	}
	out := make([]models.Batch, len(batches))
	for i, batch := range batches {
		out[i] = batch.Clone()
	}
	return out
}
