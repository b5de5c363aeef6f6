// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"shop/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns all categories ordered by id.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	items := []models.Category{}
	if err := s.db.WithContext(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id int) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return &c, nil
}

// Create inserts a new category. The database assigns the ID, which is
// written back into c.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	c.ID = 0
	if err := s.db.WithContext(ctx).Select("Title").Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update overwrites every mutable column of the category identified by c.ID.
// Returns ErrNotFound if no such row exists.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	res := s.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", c.ID).
		Updates(map[string]any{"title": c.Title})
	if res.Error != nil {
		return fmt.Errorf("update category: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a category by ID. A category that products still reference
// is never removed: ErrCategoryInUse is returned instead. Returns ErrNotFound
// if no such row exists.
func (s *CategoryStore) Delete(ctx context.Context, id int) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return fmt.Errorf("count category products: %w", err)
		}
		if products > 0 {
			return ErrCategoryInUse
		}

		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCategoryInUse):
		return err
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrCategoryInUse
	default:
		return fmt.Errorf("delete category: %w", err)
	}
}
