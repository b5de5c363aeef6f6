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

// ProductStore manages products. Every read preloads the product's category.
type ProductStore struct {
	db *gorm.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) withCategory(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Preload("Category")
}

// List returns all products ordered by id.
func (s *ProductStore) List(ctx context.Context) ([]models.Product, error) {
	items := []models.Product{}
	if err := s.withCategory(ctx).Order("id").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return items, nil
}

// ListByCategory returns the products whose category is categoryID.
func (s *ProductStore) ListByCategory(ctx context.Context, categoryID int) ([]models.Product, error) {
	items := []models.Product{}
	err := s.withCategory(ctx).
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	return items, nil
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id int) (*models.Product, error) {
	var p models.Product
	err := s.withCategory(ctx).First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return &p, nil
}

// Create inserts a new product and loads its category into p.Category.
// Returns ErrCategoryMissing if p.CategoryID does not reference a category.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) error {
	p.ID = 0
	p.Category = nil

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		err := tx.First(&category, p.CategoryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryMissing
		}
		if err != nil {
			return err
		}

		if err := tx.Select("Title", "Description", "Price", "Image", "CategoryID").Create(p).Error; err != nil {
			return err
		}
		p.Category = &category
		return nil
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrCategoryMissing), errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrCategoryMissing
	default:
		return fmt.Errorf("create product: %w", err)
	}
}
