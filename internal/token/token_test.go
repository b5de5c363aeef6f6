package token

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shop/internal/models"
)

func testUser() *models.User {
	return &models.User{ID: 42, Username: "alice", Role: models.RoleEmployee, PasswordHash: "hash"}
}

func TestGenerateAndVerify(t *testing.T) {
	svc := NewService("secret", "shop", time.Hour)

	raw, err := svc.Generate(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, 2, strings.Count(raw, "."), "compact JWS has three segments")

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, models.RoleEmployee, claims.Role)
	assert.Equal(t, 42, claims.UserID())
	assert.Equal(t, "shop", claims.Issuer)
}

func TestTokenDoesNotCarryPassword(t *testing.T) {
	svc := NewService("secret", "shop", time.Hour)
	u := testUser()
	u.Password = "plaintext"

	raw, err := svc.Generate(u)
	require.NoError(t, err)

	parts := strings.Split(raw, ".")
	require.Len(t, parts, 3)
	payload, err := jwt.NewParser().DecodeSegment(parts[1])
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "plaintext")
	assert.NotContains(t, string(payload), "hash")
}

func TestVerifyExpired(t *testing.T) {
	svc := NewService("secret", "shop", time.Minute)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	raw, err := svc.Generate(testUser())
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalid)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestVerifyRejects(t *testing.T) {
	svc := NewService("secret", "shop", time.Hour)
	good, err := svc.Generate(testUser())
	require.NoError(t, err)

	otherKey, err := NewService("other-secret", "shop", time.Hour).Generate(testUser())
	require.NoError(t, err)

	otherIssuer, err := NewService("secret", "elsewhere", time.Hour).Generate(testUser())
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Username: "alice",
		Role:     models.RoleManager,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shop",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	noRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "shop",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"tampered", good[:len(good)-2] + "xx"},
		{"wrong key", otherKey},
		{"wrong issuer", otherIssuer},
		{"alg none", unsigned},
		{"missing role", noRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.raw)
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}
