package core

import (
	"strings"
	"time"
)

// Category groups transactions. (Name, Type) is unique among live categories.
type Category struct {
	Base
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     *string         `json:"color"`
	Icon      *string         `json:"icon"`
	SortOrder float64         `json:"sort_order"`
	DeletedAt *time.Time      `json:"-"`
}

type CategoryCreate struct {
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	Color     *string         `json:"color"`
	Icon      *string         `json:"icon"`
	SortOrder float64         `json:"sort_order"`
}

func (in *CategoryCreate) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	trimPtr(in.Color)
	trimPtr(in.Icon)
}

func (in CategoryCreate) Validate() error {
	if err := validateName("name", in.Name, MaxNameLength); err != nil {
		return err
	}
	if !in.Type.Valid() {
		return NewValidationError("type", "must be income or expense")
	}
	if err := validateColor(in.Color); err != nil {
		return err
	}
	return validateIcon(in.Icon)
}

func NewCategory(in CategoryCreate, now time.Time) Category {
	return Category{
		Base:      NewBase(now),
		Name:      in.Name,
		Type:      in.Type,
		Color:     in.Color,
		Icon:      in.Icon,
		SortOrder: in.SortOrder,
	}
}

type CategoryUpdate struct {
	Name      *string          `json:"name"`
	Type      *TransactionType `json:"type"`
	Color     Optional[string] `json:"color"`
	Icon      Optional[string] `json:"icon"`
	SortOrder *float64         `json:"sort_order"`
}

func (p *CategoryUpdate) Normalize() {
	trimPtr(p.Name)
	if p.Color.Set && !p.Color.Null {
		p.Color.Value = strings.TrimSpace(p.Color.Value)
	}
	if p.Icon.Set && !p.Icon.Null {
		p.Icon.Value = strings.TrimSpace(p.Icon.Value)
	}
}

func (p CategoryUpdate) Validate() error {
	if p.Name != nil {
		if err := validateName("name", *p.Name, MaxNameLength); err != nil {
			return err
		}
	}
	if p.Type != nil && !p.Type.Valid() {
		return NewValidationError("type", "must be income or expense")
	}
	if err := validateColor(p.Color.Ptr()); err != nil {
		return err
	}
	return validateIcon(p.Icon.Ptr())
}

func (p CategoryUpdate) Apply(c *Category) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	p.Color.apply(&c.Color)
	p.Icon.apply(&c.Icon)
	if p.SortOrder != nil {
		c.SortOrder = *p.SortOrder
	}
}
