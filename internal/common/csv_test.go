package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
)

func TestWriteTransactionsToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "transactions.csv")
	transactions := []models.Transaction{
		{
			Date:        time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-50"),
			Description: "CARREFOUR PARIS",
			Currency:    "EUR",
			Category:    models.CategoryGroceries,
			Type:        "debit",
			AccountID:   "0001234567",
			AccountType: "checking",
		},
	}

	require.NoError(t, WriteTransactionsToCSV(transactions, path, logging.NewNopLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Description,Amount,Currency,Category,Type,AccountID,AccountType", lines[0])
	assert.Equal(t, "2024-01-03,CARREFOUR PARIS,-50.00,EUR,Courses,debit,0001234567,checking", lines[1])
}

func TestWriteTransactionsToCSVRejectsNil(t *testing.T) {
	err := WriteTransactionsToCSV(nil, filepath.Join(t.TempDir(), "x.csv"), logging.NewNopLogger())
	assert.Error(t, err)
}

func TestWriteTransactionsToCSVCustomDelimiter(t *testing.T) {
	SetDelimiter(';')
	defer SetDelimiter(',')

	path := filepath.Join(t.TempDir(), "transactions.csv")
	transactions := []models.Transaction{
		{
			Date:        time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC),
			Amount:      decimal.RequireFromString("-9.99"),
			Description: "NETFLIX.COM",
			Currency:    "EUR",
			Category:    models.CategoryLeisure,
			Type:        "debit",
		},
	}
	require.NoError(t, WriteTransactionsToCSV(transactions, path, logging.NewNopLogger()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "NETFLIX.COM;-9.99;EUR")
}
