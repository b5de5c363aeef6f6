package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/internal/models"
	"shop/internal/token"
)

// ctxWithClaims returns a context carrying the given claims using the same
// context key the middleware uses. This allows tests to simulate the state
// after Authenticate has run without minting a token.
func ctxWithClaims(ctx context.Context, claims *token.Claims) context.Context {
	return context.WithValue(ctx, ClaimsKey, claims)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestAuthenticate(t *testing.T) {
	svc := token.NewService("middleware-test-secret", "shop", time.Hour)
	raw, err := svc.Generate(&models.User{ID: 7, Username: "alice", Role: models.RoleEmployee})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantClaims bool
	}{
		{"no header", "", false},
		{"valid bearer", "Bearer " + raw, true},
		{"lowercase scheme", "bearer " + raw, true},
		{"wrong scheme", "Basic " + raw, false},
		{"missing token", "Bearer", false},
		{"garbage token", "Bearer not.a.jwt", false},
		{"extra fields", "Bearer " + raw + " extra", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *token.Claims
			handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = ClaimsFromCtx(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code, "authenticate never rejects")
			if !tt.wantClaims {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, "alice", got.Username)
			assert.Equal(t, models.RoleEmployee, got.Role)
			assert.Equal(t, 7, got.UserID())
		})
	}
}

func TestAuthenticateTagsLoggerWithUserID(t *testing.T) {
	svc := token.NewService("middleware-test-secret", "shop", time.Hour)
	raw, err := svc.Generate(&models.User{ID: 7, Username: "alice", Role: models.RoleEmployee})
	require.NoError(t, err)

	var buf bytes.Buffer
	handler := Authenticate(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		zerolog.Ctx(r.Context()).Info().Msg("handled")
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	req.Header.Set("Authorization", "Bearer "+raw)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Contains(t, buf.String(), `"user_id":7`)

	buf.Reset()
	req = httptest.NewRequest(http.MethodGet, "/v1/categories", nil)
	req = req.WithContext(zerolog.New(&buf).WithContext(req.Context()))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.Contains(t, buf.String(), `"message":"handled"`)
	assert.NotContains(t, buf.String(), "user_id")
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		claims     *token.Claims
		allowed    []models.Role
		wantStatus int
		wantBody   string
	}{
		{
			name:       "anonymous",
			allowed:    []models.Role{models.RoleEmployee},
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"message":"Authentication required."}`,
		},
		{
			name:       "matching role",
			claims:     &token.Claims{Username: "e", Role: models.RoleEmployee},
			allowed:    []models.Role{models.RoleEmployee},
			wantStatus: http.StatusOK,
		},
		{
			name:       "manager is not employee",
			claims:     &token.Claims{Username: "m", Role: models.RoleManager},
			allowed:    []models.Role{models.RoleEmployee},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"Forbidden."}`,
		},
		{
			name:       "employee on manager route",
			claims:     &token.Claims{Username: "e", Role: models.RoleEmployee},
			allowed:    []models.Role{models.RoleManager},
			wantStatus: http.StatusForbidden,
			wantBody:   `{"message":"Forbidden."}`,
		},
		{
			name:       "any of several roles",
			claims:     &token.Claims{Username: "m", Role: models.RoleManager},
			allowed:    []models.Role{models.RoleEmployee, models.RoleManager},
			wantStatus: http.StatusOK,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, called := okHandler()
			handler := RequireRole(tt.allowed...)(next)

			req := httptest.NewRequest(http.MethodPut, "/v1/categories/1", nil)
			if tt.claims != nil {
				req = req.WithContext(ctxWithClaims(req.Context(), tt.claims))
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, *called)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rr.Body.String())
			}
		})
	}
}

func TestClaimsFromCtxEmpty(t *testing.T) {
	assert.Nil(t, ClaimsFromCtx(context.Background()))
}
