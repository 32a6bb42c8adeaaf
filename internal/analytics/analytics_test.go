package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget-dashboard/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(date time.Time, amount string, category string) models.Transaction {
	return models.Transaction{
		Date:     date,
		Amount:   decimal.RequireFromString(amount),
		Category: category,
	}
}

func TestBalanceSeriesFromTrailingBalance(t *testing.T) {
	batch := models.Batch{
		SourceFile: "statement.ofx",
		Transactions: []models.Transaction{
			tx(day(2024, time.January, 1), "-50", models.CategoryGroceries),
			tx(day(2024, time.January, 3), "100", models.CategoryIncome),
		},
	}
	batch.Transactions[0].Balance = decimal.RequireFromString("200")
	batch.Transactions[1].Balance = decimal.RequireFromString("200")

	series := BalanceSeries([]models.Batch{batch}, decimal.Zero)
	require.Len(t, series, 3)

	// Start = 200 - (-50 + 100) = 150, then cumulative per day.
	assert.Equal(t, day(2024, time.January, 1), series[0].Date)
	assert.True(t, series[0].Balance.Equal(decimal.RequireFromString("100")))
	assert.True(t, series[1].Balance.Equal(decimal.RequireFromString("100")))
	assert.True(t, series[2].Balance.Equal(decimal.RequireFromString("200")))
}

func TestBalanceSeriesWithAnchor(t *testing.T) {
	batch := models.Batch{
		Transactions: []models.Transaction{
			tx(day(2024, time.January, 1), "-50", models.CategoryGroceries),
			tx(day(2024, time.January, 3), "100", models.CategoryIncome),
		},
	}

	series := BalanceSeries([]models.Batch{batch}, decimal.RequireFromString("500"))
	require.Len(t, series, 3)

	// Start = 500 - 50 = 450.
	assert.True(t, series[0].Balance.Equal(decimal.RequireFromString("400")))
	assert.True(t, series[1].Balance.Equal(decimal.RequireFromString("400")))
	assert.True(t, series[2].Balance.Equal(decimal.RequireFromString("500")))
}

func TestBalanceSeriesDenseRange(t *testing.T) {
	batch := models.Batch{
		Transactions: []models.Transaction{
			tx(day(2024, time.March, 1), "10", ""),
			tx(day(2024, time.March, 10), "10", ""),
		},
	}

	series := BalanceSeries([]models.Batch{batch}, decimal.RequireFromString("20"))
	require.Len(t, series, 10)
	for i, point := range series {
		assert.Equal(t, day(2024, time.March, 1+i), point.Date)
	}
	// Quiet days carry the previous value forward.
	for i := 0; i < 9; i++ {
		assert.True(t, series[i].Balance.Equal(decimal.RequireFromString("10")), "day %d", i)
	}
	assert.True(t, series[9].Balance.Equal(decimal.RequireFromString("20")))
}

func TestBalanceSeriesEmptyInput(t *testing.T) {
	assert.Nil(t, BalanceSeries(nil, decimal.Zero))
	assert.Nil(t, BalanceSeries([]models.Batch{{SourceFile: "empty.ofx"}}, decimal.Zero))
}

func TestBalanceSeriesEmptyFirstBatchStartsAtZero(t *testing.T) {
	batches := []models.Batch{
		{SourceFile: "empty.ofx"},
		{Transactions: []models.Transaction{tx(day(2024, time.May, 2), "25", "")}},
	}

	series := BalanceSeries(batches, decimal.Zero)
	require.Len(t, series, 1)
	assert.True(t, series[0].Balance.Equal(decimal.RequireFromString("25")))
}

func TestBalanceSeriesSpansMultipleBatches(t *testing.T) {
	batches := []models.Batch{
		{Transactions: []models.Transaction{tx(day(2024, time.June, 3), "-10", "")}},
		{Transactions: []models.Transaction{tx(day(2024, time.June, 1), "-30", "")}},
	}

	series := BalanceSeries(batches, decimal.RequireFromString("60"))
	require.Len(t, series, 3)
	assert.Equal(t, day(2024, time.June, 1), series[0].Date)
	assert.True(t, series[0].Balance.Equal(decimal.RequireFromString("70")))
	assert.True(t, series[2].Balance.Equal(decimal.RequireFromString("60")))
}

func TestSpendingByCategorySumsExpensesOnly(t *testing.T) {
	batches := []models.Batch{
		{Transactions: []models.Transaction{
			tx(day(2024, time.January, 5), "-40.50", models.CategoryGroceries),
			tx(day(2024, time.January, 6), "-9.50", models.CategoryGroceries),
			tx(day(2024, time.January, 7), "-20", models.CategoryTransport),
			tx(day(2024, time.January, 8), "2500", models.CategoryIncome),
			tx(day(2024, time.January, 9), "0", models.CategoryBanking),
		}},
	}

	totals := SpendingByCategory(batches)
	require.Len(t, totals, 2)
	assert.Equal(t, models.CategoryGroceries, totals[0].Category)
	assert.True(t, totals[0].Amount.Equal(decimal.RequireFromString("50")))
	assert.Equal(t, models.CategoryTransport, totals[1].Category)
	assert.True(t, totals[1].Amount.Equal(decimal.RequireFromString("20")))
}

func TestSpendingByCategoryTieBreaksByName(t *testing.T) {
	batches := []models.Batch{
		{Transactions: []models.Transaction{
			tx(day(2024, time.January, 5), "-10", models.CategoryTransport),
			tx(day(2024, time.January, 6), "-10", models.CategoryGroceries),
		}},
	}

	totals := SpendingByCategory(batches)
	require.Len(t, totals, 2)
	assert.Equal(t, models.CategoryGroceries, totals[0].Category)
	assert.Equal(t, models.CategoryTransport, totals[1].Category)
}

func TestSpendingByCategoryUncategorizedFallsBack(t *testing.T) {
	batches := []models.Batch{
		{Transactions: []models.Transaction{tx(day(2024, time.January, 5), "-15", "")}},
	}

	totals := SpendingByCategory(batches)
	require.Len(t, totals, 1)
	assert.Equal(t, models.CategoryFallback, totals[0].Category)
}

func TestSpendingByCategoryEmpty(t *testing.T) {
	assert.Nil(t, SpendingByCategory(nil))
	assert.Nil(t, SpendingByCategory([]models.Batch{{Transactions: []models.Transaction{
		tx(day(2024, time.January, 8), "100", models.CategoryIncome),
	}}}))
}
