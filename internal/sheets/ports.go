// Package sheets mirrors transactions into a spreadsheet, one row each.
package sheets

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// Header is written as the first row of the sheet.
var Header = []any{"ID", "Date", "Type", "Amount", "Account", "Category", "Description", "Reconciled"}

// Row is the flattened form of a transaction. ID is the lookup key and
// always occupies the first column.
type Row struct {
	ID          string
	Date        string
	Type        string
	Amount      string
	Account     string
	Category    string
	Description string
	Reconciled  bool
}

// RowFromTransaction flattens a projected transaction. Expenses are
// written as negative amounts so the column sums to a net figure.
func RowFromTransaction(t core.Transaction) Row {
	r := Row{
		ID:         t.ID.String(),
		Date:       t.Date.UTC().Format(time.DateOnly),
		Type:       string(t.Type),
		Amount:     core.Signed(t.Type, t.Amount).StringFixed(2),
		Reconciled: t.IsReconciled,
	}
	if t.Account != nil {
		r.Account = t.Account.Name
	}
	if t.Category != nil {
		r.Category = t.Category.Name
	}
	if t.Description != nil {
		r.Description = *t.Description
	}
	return r
}

func (r Row) Values() []any {
	return []any{r.ID, r.Date, r.Type, r.Amount, r.Account, r.Category, r.Description, r.Reconciled}
}

// Exporter is the outbound port the worker writes through.
type Exporter interface {
	// Upsert replaces the row with the same ID, or appends it.
	Upsert(ctx context.Context, row Row) error
	// Remove drops the row with the given ID. Missing rows are not an error.
	Remove(ctx context.Context, id string) error
	// ReplaceAll rewrites the whole sheet with rows, in order.
	ReplaceAll(ctx context.Context, rows []Row) error
}
