// Package archive reads and writes the parquet archival format used to
// persist categorized transactions between sessions. Saved files round-trip
// through Load; foreign parquet files are accepted as long as they carry the
// mandatory columns, with the remaining fields back-filled with defaults.
package archive

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/format"
	"github.com/shopspring/decimal"

	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
	"budget-dashboard/internal/parsererror"
)

// Columns every archival file must carry. Files missing any of these are
// rejected; every other column is optional and back-filled on load.
var mandatoryColumns = []string{"date", "amount", "description", "category"}

// row is the on-disk schema of an archived transaction.
type row struct {
	Date        time.Time `parquet:"date,timestamp(millisecond)"`
	Amount      float64   `parquet:"amount"`
	Description string    `parquet:"description"`
	Type        string    `parquet:"type"`
	Category    string    `parquet:"category"`
	AccountID   string    `parquet:"account_id"`
	AccountType string    `parquet:"account_type"`
	Currency    string    `parquet:"currency"`
	Balance     float64   `parquet:"balance"`
}

// Codec persists transaction batches as parquet files.
type Codec struct {
	logger           logging.Logger
	fallbackCurrency string
}

// NewCodec returns a Codec stamping fallbackCurrency on rows that lack one.
func NewCodec(logger logging.Logger, fallbackCurrency string) *Codec {
	if fallbackCurrency == "" {
		fallbackCurrency = models.DefaultCurrency
	}
	return &Codec{logger: logger, fallbackCurrency: fallbackCurrency}
}

// Save writes every transaction of every batch to a single parquet file at
// path. Saving with no transactions is an error so an export can never
// silently produce an empty archive.
func (c *Codec) Save(path string, batches []models.Batch) error {
	var rows []row
	for _, batch := range batches {
		for _, tx := range batch.Transactions {
			amount, _ := tx.Amount.Float64()
			balance, _ := tx.Balance.Float64()
			rows = append(rows, row{
				Date:        tx.Date,
				Amount:      amount,
				Description: tx.Description,
				Type:        tx.Type,
				Category:    tx.Category,
				AccountID:   tx.AccountID,
				AccountType: tx.AccountType,
				Currency:    tx.Currency,
				Balance:     balance,
			})
		}
	}
	if len(rows) == 0 {
		return fmt.Errorf("no transactions to save to %s", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}
	defer f.Close()

	if err := parquet.Write(f, rows); err != nil {
		return fmt.Errorf("writing parquet rows: %w", err)
	}

	c.logger.Info("saved transaction archive",
		logging.Field{Key: "path", Value: path},
		logging.Field{Key: "rows", Value: len(rows)})
	return nil
}

// Load decodes a parquet archive into a batch. Files missing any mandatory
// column are rejected with a MissingFieldError naming all absent columns;
// optional columns absent from the file are back-filled with defaults.
func (c *Codec) Load(data []byte, filename string) (models.Batch, error) {
	pf, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return models.Batch{}, &parsererror.ParseFailureError{
			Filename: filename,
			Format:   "parquet",
			Err:      err,
		}
	}

	schema := pf.Schema()
	var missing []string
	for _, col := range mandatoryColumns {
		if _, ok := schema.Lookup(col); !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return models.Batch{}, &parsererror.MissingFieldError{
			Filename: filename,
			Fields:   missing,
		}
	}

	transactions, err := c.readRows(pf, schema)
	if err != nil {
		return models.Batch{}, &parsererror.ParseFailureError{
			Filename: filename,
			Format:   "parquet",
			Err:      err,
		}
	}

	c.logger.Info("loaded transaction archive",
		logging.Field{Key: "file", Value: filename},
		logging.Field{Key: "rows", Value: len(transactions)})
	return models.Batch{SourceFile: filename, Transactions: transactions}, nil
}

// readRows decodes every row group column-by-column so files written by
// other tools, with extra or missing optional columns, still load.
func (c *Codec) readRows(pf *parquet.File, schema *parquet.Schema) ([]models.Transaction, error) {
	columns := make(map[string]columnInfo)
	for _, field := range schema.Fields() {
		col, ok := schema.Lookup(field.Name())
		if !ok {
			continue
		}
		columns[field.Name()] = columnInfo{index: col.ColumnIndex, node: col.Node}
	}

	var transactions []models.Transaction
	buf := make([]parquet.Row, 64)
	for _, group := range pf.RowGroups() {
		rows := group.Rows()
		for {
			n, err := rows.ReadRows(buf)
			for _, r := range buf[:n] {
				tx, convErr := c.convertRow(r, columns)
				if convErr != nil {
					rows.Close()
					return nil, convErr
				}
				transactions = append(transactions, tx)
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				rows.Close()
				return nil, err
			}
		}
		if err := rows.Close(); err != nil {
			return nil, err
		}
	}
	return transactions, nil
}

type columnInfo struct {
	index int
	node  parquet.Node
}

func (c *Codec) convertRow(r parquet.Row, columns map[string]columnInfo) (models.Transaction, error) {
	tx := models.Transaction{
		AccountID:   models.DefaultAccountID,
		AccountType: models.DefaultAccountType,
		Currency:    c.fallbackCurrency,
	}

	values := make(map[int]parquet.Value, len(r))
	for _, v := range r {
		values[v.Column()] = v
	}

	for name, info := range columns {
		v, ok := values[info.index]
		if !ok || v.IsNull() {
			continue
		}
		switch name {
		case "date":
			date, err := dateValue(v, info.node)
			if err != nil {
				return models.Transaction{}, err
			}
			tx.Date = date
		case "amount":
			amount, err := decimalValue(v)
			if err != nil {
				return models.Transaction{}, fmt.Errorf("column amount: %w", err)
			}
			tx.Amount = amount
		case "balance":
			balance, err := decimalValue(v)
			if err != nil {
				return models.Transaction{}, fmt.Errorf("column balance: %w", err)
			}
			tx.Balance = balance
		case "description":
			tx.Description = stringValue(v)
		case "type":
			tx.Type = stringValue(v)
		case "category":
			tx.Category = stringValue(v)
		case "account_id":
			if s := stringValue(v); s != "" {
				tx.AccountID = s
			}
		case "account_type":
			if s := stringValue(v); s != "" {
				tx.AccountType = s
			}
		case "currency":
			if s := stringValue(v); s != "" {
				tx.Currency = s
			}
		}
	}

	if tx.Category == "" {
		tx.Category = models.CategoryFallback
	}
	return tx, nil
}

// dateValue decodes the date column across the encodings archives show up
// with: timestamps at any unit, DATE days, or a plain string.
func dateValue(v parquet.Value, node parquet.Node) (time.Time, error) {
	logical := node.Type().LogicalType()
	switch v.Kind() {
	case parquet.Int64:
		if logical != nil && logical.Timestamp != nil {
			return timestampValue(v.Int64(), logical.Timestamp.Unit), nil
		}
		// Bare int64 dates are taken as millisecond timestamps.
		return time.UnixMilli(v.Int64()).UTC(), nil
	case parquet.Int32:
		if logical != nil && logical.Date != nil {
			return time.Unix(0, 0).UTC().AddDate(0, 0, int(v.Int32())), nil
		}
		return time.Time{}, fmt.Errorf("column date: unsupported int32 encoding")
	case parquet.ByteArray:
		date, err := models.ParseDate(string(v.ByteArray()))
		if err != nil {
			return time.Time{}, fmt.Errorf("column date: %w", err)
		}
		return date, nil
	default:
		return time.Time{}, fmt.Errorf("column date: unsupported kind %s", v.Kind())
	}
}

func timestampValue(raw int64, unit format.TimeUnit) time.Time {
	switch {
	case unit.Micros != nil:
		return time.UnixMicro(raw).UTC()
	case unit.Nanos != nil:
		return time.Unix(0, raw).UTC()
	default:
		return time.UnixMilli(raw).UTC()
	}
}

func decimalValue(v parquet.Value) (decimal.Decimal, error) {
	switch v.Kind() {
	case parquet.Double:
		return decimal.NewFromFloat(v.Double()), nil
	case parquet.Float:
		return decimal.NewFromFloat(float64(v.Float())), nil
	case parquet.Int64:
		return decimal.NewFromInt(v.Int64()), nil
	case parquet.Int32:
		return decimal.NewFromInt(int64(v.Int32())), nil
	case parquet.ByteArray:
		d, err := decimal.NewFromString(strings.TrimSpace(string(v.ByteArray())))
		if err != nil {
			return decimal.Zero, err
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("unsupported kind %s", v.Kind())
	}
}

func stringValue(v parquet.Value) string {
	if v.Kind() == parquet.ByteArray {
		return string(v.ByteArray())
	}
	return v.String()
}
