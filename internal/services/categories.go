package services

import (
	"context"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/storage"

	"github.com/google/uuid"
)

// CategoryService keeps (name, type) unique among live categories; a
// clash on create or update surfaces as core.ErrConflict.
type CategoryService struct {
	base
}

func NewCategoryService(store *storage.Store, opts Options) *CategoryService {
	return &CategoryService{base: newBase(store, opts, log.ComponentCategory)}
}

func (s *CategoryService) List(ctx context.Context) ([]core.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

func (s *CategoryService) Create(ctx context.Context, in core.CategoryCreate) (core.Category, error) {
	in.Normalize()
	if err := in.Validate(); err != nil {
		return core.Category{}, err
	}

	c := core.NewCategory(in, s.now())
	if err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		return q.InsertCategory(ctx, c)
	}); err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "Category created", log.FieldResourceID, c.ID.String())
	s.publish(ctx, amqp.ResourceCategory, amqp.ActionCreated, c.ID.String())
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, patch core.CategoryUpdate) (core.Category, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return core.Category{}, err
	}

	var out core.Category
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		c, err := q.GetCategory(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(&c)
		c.Touch(s.now())
		if err := q.UpdateCategory(ctx, c); err != nil {
			return err
		}
		out, err = q.GetCategory(ctx, id)
		return err
	})
	if err != nil {
		return core.Category{}, err
	}

	s.logger.InfoContext(ctx, "Category updated", log.FieldResourceID, id.String())
	s.publish(ctx, amqp.ResourceCategory, amqp.ActionUpdated, id.String())
	return out, nil
}

func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.store.WithTx(ctx, func(q *storage.Queries) error {
		if _, err := q.GetCategory(ctx, id); err != nil {
			return err
		}
		return q.SoftDeleteCategory(ctx, id, s.now())
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Category deleted", log.FieldResourceID, id.String())
	s.publish(ctx, amqp.ResourceCategory, amqp.ActionDeleted, id.String())
	return nil
}
