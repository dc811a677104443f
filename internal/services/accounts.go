package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/google/uuid"
)

type AccountService struct {
	base
}

func NewAccountService(store *storage.Store, opts Options) *AccountService {
	return &AccountService{base: newBase(store, opts, log.ComponentAccount)}
}

func (s *AccountService) List(ctx context.Context) ([]core.Account, error) {
	return s.store.ListAccounts(ctx)
}

func (s *AccountService) Get(ctx context.Context, id uuid.UUID) (core.Account, error) {
	return s.store.GetAccount(ctx, id)
}

func (s *AccountService) Create(ctx context.Context, in core.AccountCreate) (core.Account, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}

	a := core.NewAccount(in, s.now())
	var out core.Account
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		if err := q.InsertAccount(ctx, a); err != nil {
			return err
		}
		var err error
		out, err = q.GetAccount(ctx, a.ID)
		return err
	})
	if err != nil {
		return core.Account{}, err
	}

	s.logger.InfoContext(ctx, "Account created", log.FieldResourceID, out.ID.String())
	s.publish(ctx, amqp.ResourceAccount, amqp.ActionCreated, out.ID.String())
	return out, nil
}

// Update applies only the fields present in patch.
func (s *AccountService) Update(ctx context.Context, id uuid.UUID, patch core.AccountUpdate) (core.Account, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return core.Account{}, err
	}

	var out core.Account
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		a, err := q.GetAccount(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(&a)
		a.Touch(s.now())
		if err := q.UpdateAccount(ctx, a); err != nil {
			return err
		}
		out, err = q.GetAccount(ctx, id)
		return err
	})
	if err != nil {
		return core.Account{}, err
	}

	s.logger.InfoContext(ctx, "Account updated", log.FieldResourceID, id.String())
	s.publish(ctx, amqp.ResourceAccount, amqp.ActionUpdated, id.String())
	return out, nil
}

// Delete hides the account. A second call fails with core.ErrNotFound.
func (s *AccountService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetAccount(ctx, id); err != nil {
			return err
		}
		return q.SoftDeleteAccount(ctx, id, s.now())
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Account deleted", log.FieldResourceID, id.String())
	s.publish(ctx, amqp.ResourceAccount, amqp.ActionDeleted, id.String())
	return nil
}
