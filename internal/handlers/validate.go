package handlers

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"shop/internal/models"
)

// Validation limits for entity fields, in characters.
const (
	minTitleLen       = 3
	maxCategoryTitle  = 60
	maxProductTitle   = 120
	minDescriptionLen = 3
	maxDescriptionLen = 900
	maxUsernameLen    = 20
	maxPasswordBytes  = 72 // bcrypt input limit
)

// Prices are stored as NUMERIC(10,2).
const maxPriceScale = 2

var maxPrice = decimal.New(1, 8)

// fieldErrors maps a payload property to the messages describing what is
// wrong with it. An empty map means the payload is valid.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// checkText requires a non-blank value whose length is within [min, max].
func (fe fieldErrors) checkText(field, value string, min, max int) {
	if strings.TrimSpace(value) == "" {
		fe.add(field, fmt.Sprintf("The %s field is required.", field))
		return
	}
	if n := utf8.RuneCountInString(value); n < min || n > max {
		fe.add(field, fmt.Sprintf("%s must be between %d and %d characters.", field, min, max))
	}
}

// validateCategory checks a category payload.
func validateCategory(c *models.Category) fieldErrors {
	fe := fieldErrors{}
	fe.checkText("Title", c.Title, minTitleLen, maxCategoryTitle)
	return fe
}

// validateProduct checks a product payload. Whether the category exists is
// decided by the store.
func validateProduct(p *models.Product) fieldErrors {
	fe := fieldErrors{}
	fe.checkText("Title", p.Title, minTitleLen, maxProductTitle)
	fe.checkText("Description", p.Description, minDescriptionLen, maxDescriptionLen)
	switch {
	case !p.Price.IsPositive():
		fe.add("Price", "Price must be greater than 0.")
	case p.Price.GreaterThanOrEqual(maxPrice):
		fe.add("Price", fmt.Sprintf("Price must be less than %s.", maxPrice))
	case !p.Price.Equal(p.Price.Truncate(maxPriceScale)):
		fe.add("Price", fmt.Sprintf("Price must have at most %d decimal places.", maxPriceScale))
	}
	if strings.TrimSpace(p.Image) == "" {
		fe.add("Image", "The Image field is required.")
	}
	if p.CategoryID <= 0 {
		fe.add("CategoryId", "The CategoryId field is required.")
	}
	return fe
}

// validateUser checks a user payload. Registration ignores the submitted
// role, so it is only checked when checkRole is set.
func validateUser(u *models.User, checkRole bool) fieldErrors {
	fe := fieldErrors{}
	fe.checkText("Username", u.Username, 1, maxUsernameLen)
	switch {
	case strings.TrimSpace(u.Password) == "":
		fe.add("Password", "The Password field is required.")
	case len(u.Password) > maxPasswordBytes:
		fe.add("Password", fmt.Sprintf("Password must be at most %d bytes.", maxPasswordBytes))
	}
	if checkRole && !u.Role.Valid() {
		fe.add("Role", fmt.Sprintf("Role must be one of: %s, %s.", models.RoleEmployee, models.RoleManager))
	}
	return fe
}
