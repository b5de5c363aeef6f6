// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"shop/internal/models"
	"shop/internal/store"
	"shop/internal/token"
)

// Users groups the user resource and login handlers.
type Users struct {
	userStore *store.UserStore
	tokens    *token.Service
}

// NewUsers creates the user handlers.
func NewUsers(userStore *store.UserStore, tokens *token.Service) *Users {
	return &Users{userStore: userStore, tokens: tokens}
}

// credentials is the login payload.
type credentials struct {
	Username string `json:"Username"`
	Password string `json:"Password"`
}

// loginResponse is returned on a successful login.
type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token"`
}

// List returns every user with passwords masked.
func (h *Users) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userStore.List(r.Context())
	if err != nil {
		serverError(w, r, err, "failed to list users")
		return
	}
	for i := range users {
		users[i] = users[i].Masked()
	}
	writeJSON(w, http.StatusOK, users)
}

// Get returns one user with the password masked, or null when no user has
// the id.
func (h *Users) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	u, err := h.userStore.FindByID(r.Context(), id)
	if err != nil {
		serverError(w, r, err, "failed to get user")
		return
	}
	if u == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, u.Masked())
}

// Create registers a new employee. Any submitted role is ignored.
func (h *Users) Create(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := decodeJSON(w, r, &u); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if fe := validateUser(&u, false); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}
	u.Role = models.RoleEmployee

	err := h.userStore.Create(r.Context(), &u)
	if errors.Is(err, store.ErrDuplicateUsername) {
		writeMessage(w, http.StatusConflict, "Username is already taken.")
		return
	}
	if err != nil {
		serverError(w, r, err, "failed to create user")
		return
	}

	zerolog.Ctx(r.Context()).Info().Int("user_id", u.ID).Str("username", u.Username).Msg("user registered")
	w.Header().Set("Location", "/v1/users/"+strconv.Itoa(u.ID))
	writeJSON(w, http.StatusCreated, u.Masked())
}

// Update replaces username, password and role of the user named by the
// path. The payload must carry the same id.
func (h *Users) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	var u models.User
	if err := decodeJSON(w, r, &u); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	if u.ID != id {
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	}
	if fe := validateUser(&u, true); len(fe) > 0 {
		writeValidation(w, fe)
		return
	}

	err := h.userStore.Update(r.Context(), &u)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "User not found.")
		return
	case errors.Is(err, store.ErrDuplicateUsername):
		writeMessage(w, http.StatusConflict, "Username is already taken.")
		return
	case err != nil:
		serverError(w, r, err, "failed to update user")
		return
	}
	writeJSON(w, http.StatusOK, u.Masked())
}

// Login exchanges valid credentials for a signed token. Unknown usernames
// and wrong passwords get the same answer.
func (h *Users) Login(w http.ResponseWriter, r *http.Request) {
	var c credentials
	if err := decodeJSON(w, r, &c); err != nil {
		writeMessage(w, http.StatusBadRequest, "Malformed JSON body.")
		return
	}

	u, err := h.userStore.Authenticate(r.Context(), c.Username, c.Password)
	if err != nil {
		serverError(w, r, err, "failed to authenticate user")
		return
	}
	if u == nil {
		zerolog.Ctx(r.Context()).Info().Str("username", c.Username).Msg("login failed")
		writeMessage(w, http.StatusNotFound, "Invalid username or password.")
		return
	}

	signed, err := h.tokens.Generate(u)
	if err != nil {
		serverError(w, r, err, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{User: u.Masked(), Token: signed})
}
