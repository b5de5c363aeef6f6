// store_test.go provides a shared test database helper for all store
// tests. Each test gets a private in-memory SQLite database with the
// full schema and foreign keys enforced.
package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"shop/internal/database"
	"shop/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := database.OpenSQLite("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

// seedCategory inserts a category directly and returns it.
func seedCategory(t *testing.T, db *gorm.DB, title string) models.Category {
	t.Helper()
	c := models.Category{Title: title}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// seedProduct inserts a product under categoryID and returns it.
func seedProduct(t *testing.T, db *gorm.DB, title string, categoryID int) models.Product {
	t.Helper()
	p := models.Product{
		Title:       title,
		Description: "A " + title,
		Price:       decimal.RequireFromString("9.99"),
		Image:       "img.png",
		CategoryID:  categoryID,
	}
	require.NoError(t, db.Omit("Category").Create(&p).Error)
	return p
}

var ctx = context.Background()
