// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"

	"shop/internal/cache"
	"shop/internal/models"
	"shop/internal/store"
)

// CategoryListPath is the route of the cached category list.
const CategoryListPath = "/v1/categories"

// Categories groups the category resource handlers and their dependencies.
type Categories struct {
	categoryStore *store.CategoryStore
	responseCache *cache.ResponseCache
}

// NewCategories creates the category handlers. responseCache may be nil.
func NewCategories(categoryStore *store.CategoryStore, responseCache *cache.ResponseCache) *Categories {
	return &Categories{categoryStore: categoryStore, responseCache: responseCache}
}

// List returns every category.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categoryStore.List(r.Context())
	if err != nil {
		serverError(w, r, err, "failed to list categories")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one category, or null when it does not exist.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	c, err := h.categoryStore.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "failed to get category")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Create validates and stores a new category.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var c models.Category
	if err := decodeJSON(w, r, &c); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if fe := validateCategory(&c); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	if err := h.categoryStore.Create(r.Context(), &c); err != nil {
		serverError(w, r, err, "failed to create category")
		return
	}
	h.responseCache.InvalidatePath(r.Context(), CategoryListPath)
	writeJSON(w, http.StatusOK, c)
}

// Update overwrites the category named by the path. The payload must carry
// the same id.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Category not found.")
		return
	}
	var c models.Category
	if err := decodeJSON(w, r, &c); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if c.ID != id {
		writeMessage(w, http.StatusNotFound, "Category not found.")
		return
	}
	if fe := validateCategory(&c); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	err := h.categoryStore.Update(r.Context(), &c)
	if errors.Is(err, store.ErrNotFound) {
		writeMessage(w, http.StatusNotFound, "Category not found.")
		return
	}
	if err != nil {
		serverError(w, r, err, "failed to update category")
		return
	}
	h.responseCache.InvalidatePath(r.Context(), CategoryListPath)
	writeJSON(w, http.StatusOK, c)
}

// Delete removes a category no product references.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "Category not found.")
		return
	}

	err := h.categoryStore.Delete(r.Context(), id)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Category not found.")
		return
	case errors.Is(err, store.ErrCategoryInUse):
		writeMessage(w, http.StatusConflict, "Category is used by products and cannot be deleted.")
		return
	case err != nil:
		serverError(w, r, err, "failed to delete category")
		return
	}
	h.responseCache.InvalidatePath(r.Context(), CategoryListPath)
	writeMessage(w, http.StatusOK, "Category deleted.")
}
