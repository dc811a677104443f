package core

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is always returned with its Account resolved, and with its
// Category resolved when one is set and still live.
type Transaction struct {
	Base
	AccountID    uuid.UUID       `json:"account_id"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  *string         `json:"description"`
	Date         time.Time       `json:"date"`
	IsReconciled bool            `json:"is_reconciled"`
	SortOrder    float64         `json:"sort_order"`
	DeletedAt    *time.Time      `json:"-"`

	Account  *Account  `json:"account"`
	Category *Category `json:"category"`
}

type TransactionCreate struct {
	AccountID    uuid.UUID       `json:"account_id"`
	CategoryID   *uuid.UUID      `json:"category_id"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  *string         `json:"description"`
	Date         time.Time       `json:"date"`
	IsReconciled bool            `json:"is_reconciled"`
	SortOrder    float64         `json:"sort_order"`
}

func (in TransactionCreate) Validate() error {
	if in.AccountID == uuid.Nil {
		return NewValidationError("account_id", "is required")
	}
	if in.CategoryID != nil && *in.CategoryID == uuid.Nil {
		return NewValidationError("category_id", "must be a valid id or null")
	}
	if !in.Type.Valid() {
		return NewValidationError("type", "must be income or expense")
	}
	if err := ValidateAmount("amount", in.Amount); err != nil {
		return err
	}
	if in.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	return nil
}

func NewTransaction(in TransactionCreate, now time.Time) Transaction {
	return Transaction{
		Base:         NewBase(now),
		AccountID:    in.AccountID,
		CategoryID:   in.CategoryID,
		Type:         in.Type,
		Amount:       in.Amount,
		Description:  in.Description,
		Date:         in.Date.UTC(),
		IsReconciled: in.IsReconciled,
		SortOrder:    in.SortOrder,
	}
}

type TransactionUpdate struct {
	AccountID    *uuid.UUID          `json:"account_id"`
	CategoryID   Optional[uuid.UUID] `json:"category_id"`
	Type         *TransactionType    `json:"type"`
	Amount       *decimal.Decimal    `json:"amount"`
	Description  Optional[string]    `json:"description"`
	Date         *time.Time          `json:"date"`
	IsReconciled *bool               `json:"is_reconciled"`
	SortOrder    *float64            `json:"sort_order"`
}

func (p TransactionUpdate) Validate() error {
	if p.AccountID != nil && *p.AccountID == uuid.Nil {
		return NewValidationError("account_id", "must be a valid id")
	}
	if p.CategoryID.Set && !p.CategoryID.Null && p.CategoryID.Value == uuid.Nil {
		return NewValidationError("category_id", "must be a valid id or null")
	}
	if p.Type != nil && !p.Type.Valid() {
		return NewValidationError("type", "must be income or expense")
	}
	if p.Amount != nil {
		if err := ValidateAmount("amount", *p.Amount); err != nil {
			return err
		}
	}
	if p.Date != nil && p.Date.IsZero() {
		return NewValidationError("date", "must not be empty")
	}
	return nil
}

// Apply copies every present field onto t. Resolved relations are not
// touched; callers re-read the projection afterwards.
func (p TransactionUpdate) Apply(t *Transaction) {
	if p.AccountID != nil {
		t.AccountID = *p.AccountID
	}
	p.CategoryID.apply(&t.CategoryID)
	if p.Type != nil {
		t.Type = *p.Type
	}
	if p.Amount != nil {
		t.Amount = *p.Amount
	}
	p.Description.apply(&t.Description)
	if p.Date != nil {
		t.Date = p.Date.UTC()
	}
	if p.IsReconciled != nil {
		t.IsReconciled = *p.IsReconciled
	}
	if p.SortOrder != nil {
		t.SortOrder = *p.SortOrder
	}
}
