package services

import (
	"context"
	"errors"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/google/uuid"
)

// TransactionService returns every transaction with its account and
// category resolved, including right after create and update.
type TransactionService struct {
	base
}

func NewTransactionService(store *storage.Store, opts Options) *TransactionService {
	return &TransactionService{base: newBase(store, opts, log.ComponentTransaction)}
}

func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	return s.store.ListTransactions(ctx)
}

func (s *TransactionService) Get(ctx context.Context, id uuid.UUID) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

func (s *TransactionService) Create(ctx context.Context, in core.TransactionCreate) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	t := core.NewTransaction(in, s.now())
	var out core.Transaction
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := checkReferences(ctx, q, t.AccountID, t.CategoryID); err != nil {
			return err
		}
		if err := q.InsertTransaction(ctx, t); err != nil {
			return err
		}
		var err error
		out, err = q.GetTransaction(ctx, t.ID)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldResourceID, out.ID.String(),
		"account_id", out.AccountID.String(),
		"amount", out.Amount.String())
	s.publish(ctx, amqp.ResourceTransaction, amqp.ActionCreated, out.ID.String())
	return out, nil
}

func (s *TransactionService) Update(ctx context.Context, id uuid.UUID, patch core.TransactionUpdate) (core.Transaction, error) {
	if err := patch.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var out core.Transaction
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		t, err := q.GetTransaction(ctx, id)
		if err != nil {
			return err
		}

		// only references the patch changes need to be live
		var accountID uuid.UUID
		if patch.AccountID != nil {
			accountID = *patch.AccountID
		}
		var categoryID *uuid.UUID
		if patch.CategoryID.Set && !patch.CategoryID.Null {
			categoryID = &patch.CategoryID.Value
		}
		if err := checkReferences(ctx, q, accountID, categoryID); err != nil {
			return err
		}

		patch.Apply(&t)
		t.Touch(s.now())
		if err := q.UpdateTransaction(ctx, t); err != nil {
			return err
		}
		out, err = q.GetTransaction(ctx, id)
		return err
	})
	if err != nil {
		return core.Transaction{}, err
	}

	s.logger.InfoContext(ctx, "Transaction updated", log.FieldResourceID, id.String())
	s.publish(ctx, amqp.ResourceTransaction, amqp.ActionUpdated, id.String())
	return out, nil
}

func (s *TransactionService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetTransaction(ctx, id); err != nil {
			return err
		}
		return q.SoftDeleteTransaction(ctx, id, s.now())
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Transaction deleted", log.FieldResourceID, id.String())
	s.publish(ctx, amqp.ResourceTransaction, amqp.ActionDeleted, id.String())
	return nil
}

// checkReferences requires the referenced account and category to exist
// and not be soft-deleted. A zero accountID or nil categoryID is skipped.
func checkReferences(ctx context.Context, q *storage.Queries, accountID uuid.UUID, categoryID *uuid.UUID) error {
	if accountID != uuid.Nil {
		if _, err := q.GetAccount(ctx, accountID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.NewValidationError("account_id", "account not found")
			}
			return err
		}
	}
	if categoryID != nil {
		if _, err := q.GetCategory(ctx, *categoryID); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				return core.NewValidationError("category_id", "category not found")
			}
			return err
		}
	}
	return nil
}
