// Package common provides the CSV output shared by the CLI commands.
package common

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
)

// Delimiter used for CSV output. Configurable through the csv.delimiter
// config key.
var Delimiter rune = ','

// SetDelimiter sets the delimiter for CSV output.
func SetDelimiter(delim rune) {
	Delimiter = delim
	gocsv.TagSeparator = fmt.Sprintf("%c", delim)
}

// csvRow maps one transaction to the flat CSV layout the commands emit.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Currency    string `csv:"Currency"`
	Category    string `csv:"Category"`
	Type        string `csv:"Type"`
	AccountID   string `csv:"AccountID"`
	AccountType string `csv:"AccountType"`
}

// WriteTransactionsToCSV writes transactions to csvFile, creating parent
// directories as needed. Amounts are fixed to two decimal places.
func WriteTransactionsToCSV(transactions []models.Transaction, csvFile string, logger logging.Logger) error {
	if transactions == nil {
		return fmt.Errorf("cannot write nil transactions to CSV")
	}

	dir := filepath.Dir(csvFile)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	file, err := os.Create(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.WithError(err).Warn("failed to close file")
		}
	}()

	rows := make([]csvRow, len(transactions))
	for i, tx := range transactions {
		rows[i] = csvRow{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Currency:    tx.Currency,
			Category:    tx.Category,
			Type:        tx.Type,
			AccountID:   tx.AccountID,
			AccountType: tx.AccountType,
		}
	}

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = Delimiter
	if err := gocsv.MarshalCSV(rows, gocsv.NewSafeCSVWriter(csvWriter)); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}

	logger.Info("wrote transactions to CSV",
		logging.Field{Key: "file", Value: csvFile},
		logging.Field{Key: "count", Value: len(rows)})
	return nil
}
