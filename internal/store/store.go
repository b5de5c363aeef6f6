// Package store provides database access methods for all shop entities.
// Each store struct wraps the shared *gorm.DB and exposes typed query methods.
// Every method takes the request context, so one request maps to one unit
// of work on the pool.
package store

import "errors"

var (
	// ErrNotFound is returned by writes that target a row that does not exist.
	// Reads return (nil, nil) on a miss instead.
	ErrNotFound = errors.New("record not found")

	// ErrCategoryInUse is returned when deleting a category products still reference.
	ErrCategoryInUse = errors.New("category is referenced by products")

	// ErrCategoryMissing is returned when a product references an unknown category.
	ErrCategoryMissing = errors.New("category does not exist")

	// ErrDuplicateUsername is returned when a username is already taken.
	ErrDuplicateUsername = errors.New("username already taken")
)
