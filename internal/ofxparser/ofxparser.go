// Package ofxparser converts OFX and OFC bank statement exports into the
// canonical transaction batch. Decoding of both SGML (OFX 1.x) and XML
// (OFX 2.x) containers is delegated to ofxgo; this package maps the first
// account statement onto the canonical record shape and assigns categories
// at parse time.
package ofxparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"budget-dashboard/internal/categorizer"
	"budget-dashboard/internal/logging"
	"budget-dashboard/internal/models"
	"budget-dashboard/internal/parsererror"
)

// Parser parses OFX/OFC statement files. It is a pure function of its input
// bytes; the only collaboration is the categorization engine applied to each
// transaction description.
type Parser struct {
	engine           *categorizer.Engine
	logger           logging.Logger
	fallbackCurrency string
}

// New creates a Parser. fallbackCurrency is used when the statement header
// carries no currency code.
func New(engine *categorizer.Engine, logger logging.Logger, fallbackCurrency string) *Parser {
	if fallbackCurrency == "" {
		fallbackCurrency = models.DefaultCurrency
	}
	return &Parser{engine: engine, logger: logger, fallbackCurrency: fallbackCurrency}
}

// statement is the per-file header data replicated onto every transaction of
// the batch.
type statement struct {
	accountID    string
	accountType  string
	currency     string
	balance      decimal.Decimal
	transactions []ofxgo.Transaction
}

// Parse decodes an OFX export and returns one batch of canonical
// transactions. The first bank statement in the file is used; credit-card
// statements are considered when no bank statement is present.
func (p *Parser) Parse(ctx context.Context, data []byte, filename string) (models.Batch, error) {
	resp, err := ofxgo.ParseResponse(bytes.NewReader(data))
	if err != nil {
		return models.Batch{}, &parsererror.ParseFailureError{
			Filename: filename,
			Format:   "OFX",
			Err:      err,
		}
	}

	stmt, err := firstStatement(resp)
	if err != nil {
		return models.Batch{}, &parsererror.ParseFailureError{
			Filename: filename,
			Format:   "OFX",
			Err:      err,
		}
	}

	currency := stmt.currency
	if currency == "" || currency == "XXX" {
		currency = p.fallbackCurrency
	}

	batch := models.Batch{SourceFile: filename}
	for _, line := range stmt.transactions {
		description := strings.TrimSpace(string(line.Memo))
		if description == "" {
			description = p.payeeName(line)
		}

		batch.Transactions = append(batch.Transactions, models.Transaction{
			Date:        line.DtPosted.Time,
			Amount:      decimalFromAmount(line.TrnAmt),
			Description: description,
			Type:        strings.ToLower(line.TrnType.String()),
			Category:    p.engine.Categorize(ctx, description),
			AccountID:   stmt.accountID,
			AccountType: stmt.accountType,
			Currency:    currency,
			Balance:     stmt.balance,
		})
	}

	p.logger.WithFields(
		logging.Field{Key: "file", Value: filename},
		logging.Field{Key: "account", Value: stmt.accountID},
		logging.Field{Key: "count", Value: len(batch.Transactions)},
	).Info("Parsed OFX statement")
	return batch, nil
}

// ParseOFC handles the OFC variant. The format is near-identical to OFX, so
// the OFX decode is attempted first; when it fails the file is reported as
// unsupported and an empty batch is returned, so one odd file never aborts
// the sibling files of an upload.
func (p *Parser) ParseOFC(ctx context.Context, data []byte, filename string) (models.Batch, error) {
	batch, err := p.Parse(ctx, data, filename)
	if err == nil {
		return batch, nil
	}

	p.logger.WithError(err).WithField("file", filename).Warn("OFC variant not decodable as OFX")
	return models.Batch{SourceFile: filename}, &parsererror.ParseFailureError{
		Filename: filename,
		Format:   "OFC",
		Err:      errors.New("OFC format not supported"),
	}
}

// firstStatement picks the statement the batch is built from: the first bank
// statement, else the first credit-card statement.
func firstStatement(resp *ofxgo.Response) (statement, error) {
	for _, msg := range resp.Bank {
		stmt, ok := msg.(*ofxgo.StatementResponse)
		if !ok {
			continue
		}
		out := statement{
			accountID:   stmt.BankAcctFrom.AcctID.String(),
			accountType: strings.ToLower(stmt.BankAcctFrom.AcctType.String()),
			currency:    stmt.CurDef.String(),
			balance:     decimalFromAmount(stmt.BalAmt),
		}
		if stmt.BankTranList != nil {
			out.transactions = stmt.BankTranList.Transactions
		}
		return out, nil
	}

	for _, msg := range resp.CreditCard {
		stmt, ok := msg.(*ofxgo.CCStatementResponse)
		if !ok {
			continue
		}
		out := statement{
			accountID:   stmt.CCAcctFrom.AcctID.String(),
			accountType: "creditcard",
			currency:    stmt.CurDef.String(),
			balance:     decimalFromAmount(stmt.BalAmt),
		}
		if stmt.BankTranList != nil {
			out.transactions = stmt.BankTranList.Transactions
		}
		return out, nil
	}

	return statement{}, fmt.Errorf("no account statement in OFX response")
}

// payeeName extracts the payee from either the NAME element or the
// structured PAYEE aggregate.
func (p *Parser) payeeName(line ofxgo.Transaction) string {
	if name := strings.TrimSpace(string(line.Name)); name != "" {
		return name
	}
	if line.Payee != nil {
		return strings.TrimSpace(string(line.Payee.Name))
	}
	return ""
}

func decimalFromAmount(amount ofxgo.Amount) decimal.Decimal {
	dec, err := decimal.NewFromString(amount.String())
	if err != nil {
		return decimal.Zero
	}
	return dec
}
