package services

import (
	"context"
	"fmt"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserService manages accounts that may authenticate against the API.
// Users are removed outright rather than soft-deleted.
type UserService struct {
	base
	cost int
}

func NewUserService(store *storage.Store, bcryptCost int, opts Options) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{
		base: newBase(store, opts, log.ComponentUser),
		cost: bcryptCost,
	}
}

func (s *UserService) List(ctx context.Context) ([]core.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (core.User, error) {
	return s.store.GetUser(ctx, id)
}

func (s *UserService) Create(ctx context.Context, in core.UserCreate) (core.User, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return core.User{}, err
	}

	hashed, err := s.hash(in.Password)
	if err != nil {
		return core.User{}, err
	}

	u := core.NewUser(in, hashed, s.now())
	if err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.InsertUser(ctx, u)
	}); err != nil {
		return core.User{}, err
	}

	s.logger.InfoContext(ctx, "User created", log.FieldUserID, u.ID.String())
	s.publish(ctx, amqp.ResourceUser, amqp.ActionCreated, u.ID.String())
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id uuid.UUID, patch core.UserUpdate) (core.User, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return core.User{}, err
	}

	var hashed string
	if patch.Password != nil {
		var err error
		if hashed, err = s.hash(*patch.Password); err != nil {
			return core.User{}, err
		}
	}

	var out core.User
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		u, err := q.GetUser(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(&u)
		if hashed != "" {
			u.HashedPassword = hashed
		}
		u.Touch(s.now())
		if err := q.UpdateUser(ctx, u); err != nil {
			return err
		}
		out, err = q.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return core.User{}, err
	}

	s.logger.InfoContext(ctx, "User updated", log.FieldUserID, id.String())
	s.publish(ctx, amqp.ResourceUser, amqp.ActionUpdated, id.String())
	return out, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.DeleteUser(ctx, id)
	}); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "User deleted", log.FieldUserID, id.String())
	s.publish(ctx, amqp.ResourceUser, amqp.ActionDeleted, id.String())
	return nil
}

func (s *UserService) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
