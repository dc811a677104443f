package core

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	Base
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Description *string         `json:"description"`
	SortOrder   float64         `json:"sort_order"`
	DeletedAt   *time.Time      `json:"-"`
}

type AccountCreate struct {
	Name        string          `json:"name"`
	Type        AccountType     `json:"type"`
	Balance     decimal.Decimal `json:"balance"`
	Currency    string          `json:"currency"`
	Description *string         `json:"description"`
	SortOrder   float64         `json:"sort_order"`
}

func (in *AccountCreate) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Currency = normalizeCurrency(in.Currency)
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
}

func (in AccountCreate) Validate() error {
	if err := validateName("name", in.Name, MaxNameLength); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return NewValidationError("type", "must be one of checking, savings, credit_card, cash, other")
	}
	if err := ValidateMoney("balance", in.Balance); err != nil {
		return err
	}
	return validateCurrency("currency", in.Currency)
}

// NewAccount builds the entity to insert.
func NewAccount(in AccountCreate, now time.Time) Account {
	return Account{
		Base:        NewBase(now),
		Name:        in.Name,
		Type:        in.Type,
		Balance:     in.Balance,
		Currency:    in.Currency,
		Description: in.Description,
		SortOrder:   in.SortOrder,
	}
}

// AccountUpdate is a partial update: nil pointers and unset optionals are left alone.
type AccountUpdate struct {
	Name        *string          `json:"name"`
	Type        *AccountType     `json:"type"`
	Balance     *decimal.Decimal `json:"balance"`
	Currency    *string          `json:"currency"`
	Description Optional[string] `json:"description"`
	SortOrder   *float64         `json:"sort_order"`
}

func (p *AccountUpdate) Normalize() {
	trimPtr(p.Name)
	if p.Currency != nil {
		*p.Currency = normalizeCurrency(*p.Currency)
	}
}

func (p AccountUpdate) Validate() error {
	if p.Name != nil {
		if err := validateName("name", *p.Name, MaxNameLength); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return NewValidationError("type", "must be one of checking, savings, credit_card, cash, other")
	}
	if p.Balance != nil {
		if err := ValidateMoney("balance", *p.Balance); err != nil {
			return err
		}
	}
	if p.Currency != nil {
		return validateCurrency("currency", *p.Currency)
	}
	return nil
}

// Apply copies every present field onto a.
func (p AccountUpdate) Apply(a *Account) {
	if p.Name != nil {
		a.Name = *p.Name
	}
	if p.Type != nil {
		a.Type = *p.Type
	}
	if p.Balance != nil {
		a.Balance = *p.Balance
	}
	if p.Currency != nil {
		a.Currency = *p.Currency
	}
	p.Description.apply(&a.Description)
	if p.SortOrder != nil {
		a.SortOrder = *p.SortOrder
	}
}
