package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Balances and amounts travel as JSON numbers, matching what API clients send.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultCurrency is used when an account or the settings row omits one.
const DefaultCurrency = "USD"

// Money columns are NUMERIC(18,2).
const (
	MoneyScale         = 2
	MoneyIntegerDigits = 16
)

var moneyLimit = decimal.New(1, MoneyIntegerDigits)

// ValidateMoney checks that d fits a money column without rounding.
func ValidateMoney(field string, d decimal.Decimal) error {
	if !d.Equal(d.Round(MoneyScale)) {
		return NewValidationError(field, fmt.Sprintf("must have at most %d decimal places", MoneyScale))
	}
	if d.Abs().GreaterThanOrEqual(moneyLimit) {
		return NewValidationError(field, fmt.Sprintf("must have at most %d digits before the decimal point", MoneyIntegerDigits))
	}
	return nil
}

// ValidateAmount checks a transaction amount: strictly positive and a valid money value.
func ValidateAmount(field string, d decimal.Decimal) error {
	if !d.IsPositive() {
		return NewValidationError(field, "must be greater than 0")
	}
	return ValidateMoney(field, d)
}

// Signed returns the amount as it affects an account balance.
func Signed(t TransactionType, amount decimal.Decimal) decimal.Decimal {
	if t == Expense {
		return amount.Neg()
	}
	return amount
}
