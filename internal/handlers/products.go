package handlers

import (
	"errors"
	"net/http"

	"shop/internal/models"
	"shop/internal/store"
)

// Products groups the product resource handlers.
type Products struct {
	productStore *store.ProductStore
}

// NewProducts creates the product handlers.
func NewProducts(productStore *store.ProductStore) *Products {
	return &Products{productStore: productStore}
}

// List returns every product with its category.
func (h *Products) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.productStore.List(r.Context())
	if err != nil {
		serverError(w, r, err, "failed to list products")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// ListByCategory returns the products of the category named by the path.
func (h *Products) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusOK, []models.Product{})
		return
	}
	items, err := h.productStore.ListByCategory(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "failed to list products by category")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// Get returns one product, or null when it does not exist.
func (h *Products) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	p, err := h.productStore.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "failed to get product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Create validates and stores a new product in an existing category.
func (h *Products) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(w, r, &p); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if fe := validateProduct(&p); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	err := h.productStore.Create(r.Context(), &p)
	if errors.Is(err, store.ErrCategoryMissing) {
		fe := fieldErrors{}
		fe.add("CategoryId", "Category does not exist.")
		writeValidation(w, fe)
		return
	}
	if err != nil {
		serverError(w, r, err, "failed to create product")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
