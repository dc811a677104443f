package sheets

import (
	"testing"
	"time"

	"fintrack/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestRowFromTransaction(t *testing.T) {
	desc := "Groceries"
	tx := core.Transaction{
		Base:         core.Base{ID: uuid.MustParse("6f1c3c52-1b7e-4d2a-8f0e-5a1a9b0c2d3e")},
		Type:         core.Expense,
		Amount:       decimal.RequireFromString("42.5"),
		Description:  &desc,
		Date:         time.Date(2025, 4, 3, 18, 30, 0, 0, time.UTC),
		IsReconciled: true,
		Account:      &core.Account{Name: "Checking"},
	}

	r := RowFromTransaction(tx)
	want := Row{
		ID:          "6f1c3c52-1b7e-4d2a-8f0e-5a1a9b0c2d3e",
		Date:        "2025-04-03",
		Type:        "expense",
		Amount:      "-42.50",
		Account:     "Checking",
		Description: "Groceries",
		Reconciled:  true,
	}
	if r != want {
		t.Errorf("RowFromTransaction() = %+v, want %+v", r, want)
	}

	tx.Type = core.Income
	tx.Category = &core.Category{Name: "Salary"}
	r = RowFromTransaction(tx)
	if r.Amount != "42.50" || r.Category != "Salary" {
		t.Errorf("income row = %+v", r)
	}
	if got := len(r.Values()); got != len(Header) {
		t.Errorf("Values() has %d columns, header has %d", got, len(Header))
	}
}
