// Package parsererror defines the error taxonomy for file ingestion and
// category edits. Every failure kind gets its own type so callers can react
// per kind without string matching.
package parsererror

import (
	"fmt"
	"strings"
)

// UnsupportedFormatError indicates an upload whose file extension is not
// recognized. No parser is invoked for such files.
type UnsupportedFormatError struct {
	Filename  string
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q for %s", e.Extension, e.Filename)
}

// ParseFailureError indicates bytes that do not conform to the claimed
// format. It wraps the upstream decoder's failure reason.
type ParseFailureError struct {
	Filename string
	Format   string
	Err      error
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("failed to parse %s as %s: %v", e.Filename, e.Format, e.Err)
}

func (e *ParseFailureError) Unwrap() error {
	return e.Err
}

// MissingFieldError indicates an archival file that lacks mandatory columns.
// Fields names every absent column.
type MissingFieldError struct {
	Filename string
	Fields   []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required columns in %s: %s",
		e.Filename, strings.Join(e.Fields, ", "))
}

// InvalidCategoryError indicates a category edit with a value outside the
// enumerated category set. The stored category is left unchanged.
type InvalidCategoryError struct {
	Category string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q", e.Category)
}
