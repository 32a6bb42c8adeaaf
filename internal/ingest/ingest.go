// Package ingest routes uploaded files to the right decoder by extension and
// applies the resulting batches to the store. Bank statement uploads replace
// the store content; archival uploads extend it.
package ingest

import (
	"context"
	"path/filepath"
	"strings"

	"budget-dashboard/internal/archive"
	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
	"budget-dashboard/internal/ofxparser"
	"budget-dashboard/internal/parsererror"
	"budget-dashboard/internal/store"
)

// File is one uploaded file: its client-side name and raw content.
type File struct {
	Name string
	Data []byte
}

// Result is the per-file outcome of an import. Files succeed or fail
// independently; one malformed file never blocks the rest of the upload.
type Result struct {
	Filename string `json:"filename"`
	Count    int    `json:"count"`
	Err      error  `json:"-"`
}

// Error returns the failure message for JSON responses, empty on success.
func (r Result) Error() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Service decodes uploads and applies them to the store.
type Service struct {
	parser *ofxparser.Parser
	codec  *archive.Codec
	store  *store.TransactionStore
	logger logging.Logger
}

// NewService wires the decoders and the store together.
func NewService(parser *ofxparser.Parser, codec *archive.Codec, st *store.TransactionStore, logger logging.Logger) *Service {
	return &Service{parser: parser, codec: codec, store: st, logger: logger}
}

// ImportBank decodes bank statement files (.ofx, .ofc) and replaces the
// store content with the successfully decoded batches. When every file fails
// the current content is kept rather than replaced with nothing.
func (s *Service) ImportBank(ctx context.Context, files []File) []Result {
	batches, results := s.decode(ctx, files, false)
	if len(batches) > 0 {
		s.store.Replace(batches)
	}
	return results
}

// ImportArchive decodes archival files (.parquet) and appends the
// successfully decoded batches to the store.
func (s *Service) ImportArchive(ctx context.Context, files []File) []Result {
	batches, results := s.decode(ctx, files, true)
	s.store.Append(batches)
	return results
}

func (s *Service) decode(ctx context.Context, files []File, archival bool) ([]models.Batch, []Result) {
	var batches []models.Batch
	results := make([]Result, 0, len(files))
	for _, file := range files {
		batch, err := s.decodeOne(ctx, file, archival)
		result := Result{Filename: file.Name, Err: err}
		if err == nil {
			result.Count = len(batch.Transactions)
			batches = append(batches, batch)
		} else {
			s.logger.WithError(err).Warn("failed to import file",
				logging.Field{Key: "file", Value: file.Name})
		}
		results = append(results, result)
	}
	return batches, results
}

func (s *Service) decodeOne(ctx context.Context, file File, archival bool) (models.Batch, error) {
	ext := strings.ToLower(filepath.Ext(file.Name))
	if archival {
		if ext != ".parquet" {
			return models.Batch{}, &parsererror.UnsupportedFormatError{
				Filename:  file.Name,
				Extension: ext,
			}
		}
		return s.codec.Load(file.Data, file.Name)
	}

	switch ext {
	case ".ofx":
		return s.parser.Parse(ctx, file.Data, file.Name)
	case ".ofc":
		return s.parser.ParseOFC(ctx, file.Data, file.Name)
	default:
		return models.Batch{}, &parsererror.UnsupportedFormatError{
			Filename:  file.Name,
			Extension: ext,
		}
	}
}
