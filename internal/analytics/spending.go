package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"budget-dashboard/internal/models"
)

// CategoryTotal is the absolute amount spent in one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// SpendingByCategory sums the absolute value of every expense (negative
// amount) per category across all batches. Income and zero-amount entries
// are ignored. Categories are returned largest first; equal totals fall back
// to category name so the ordering is stable across runs.
func SpendingByCategory(batches []models.Batch) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	for _, batch := range batches {
		for _, tx := range batch.Transactions {
			if !tx.IsExpense() {
				continue
			}
			category := tx.Category
			if category == "" {
				category = models.CategoryFallback
			}
			totals[category] = totals[category].Add(tx.Amount.Abs())
		}
	}
	if len(totals) == 0 {
		return nil
	}

	out := make([]CategoryTotal, 0, len(totals))
	for category, amount := range totals {
		out = append(out, CategoryTotal{Category: category, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}
