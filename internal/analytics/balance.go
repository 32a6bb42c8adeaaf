// Package analytics derives the two dashboard views from the held
// transaction batches: the daily account-balance series and the per-category
// spending totals. All functions are total over their input domain: empty or
// degenerate input yields an empty result, never an error.
package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"budget-dashboard/internal/models"
)

// BalancePoint is one day of the reconstructed balance series.
type BalancePoint struct {
	Date    time.Time       `json:"date"`
	Balance decimal.Decimal `json:"balance"`
}

// BalanceSeries reconstructs the daily cumulative balance over all batches.
//
// The starting balance is inferred rather than read: when anchor is non-zero
// it is taken as the balance as-of now, so the balance before all known
// transactions is anchor minus the sum of every amount. Otherwise the first
// batch's trailing statement balance minus that batch's own total is used;
// when even that cannot be computed the series starts at zero rather than
// failing.
//
// The result is a dense per-day series: every calendar day between the
// earliest and latest transaction appears, days without transactions carry
// the previous cumulative value forward.
func BalanceSeries(batches []models.Batch, anchor decimal.Decimal) []BalancePoint {
	all := flatten(batches)
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date.Before(all[j].Date)
	})

	running := startingBalance(batches, all, anchor)

	daily := make(map[time.Time]decimal.Decimal)
	for _, tx := range all {
		day := tx.Day()
		daily[day] = daily[day].Add(tx.Amount)
	}

	minDay := all[0].Day()
	maxDay := all[len(all)-1].Day()

	var series []BalancePoint
	for day := minDay; !day.After(maxDay); day = day.AddDate(0, 0, 1) {
		running = running.Add(daily[day])
		series = append(series, BalancePoint{Date: day, Balance: running})
	}
	return series
}

// startingBalance derives what the balance must have been before all known
// transactions.
func startingBalance(batches []models.Batch, all []models.Transaction, anchor decimal.Decimal) decimal.Decimal {
	if !anchor.IsZero() {
		return anchor.Sub(sumAmounts(all))
	}

	// The trailing balance of the first uploaded file is the end balance
	// after that file's transactions.
	first := batches[0]
	if first.Empty() {
		return decimal.Zero
	}
	return first.Transactions[0].Balance.Sub(sumAmounts(first.Transactions))
}

func sumAmounts(transactions []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range transactions {
		sum = sum.Add(tx.Amount)
	}
	return sum
}

func flatten(batches []models.Batch) []models.Transaction {
	var out []models.Transaction
	for _, batch := range batches {
		out = append(out, batch.Transactions...)
	}
	return out
}
