package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-chat/internal/models"
)

const testSecret = "test-secret"

func mintToken(t *testing.T, secret string, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestValidateAcceptsSignedToken(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	signed := mintToken(t, testSecret, Claims{
		UserID:   7,
		Username: "kim",
		Role:     models.RoleChild,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})

	claims, err := validator.Validate(signed)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "kim", claims.Username)
	assert.Equal(t, models.RoleChild, claims.Role)
	assert.False(t, claims.IsMonitor())
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	signed := mintToken(t, "other-secret", Claims{UserID: 7})

	_, err := validator.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	signed := mintToken(t, testSecret, Claims{
		UserID: 7,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	_, err := validator.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsMissingUserID(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	signed := mintToken(t, testSecret, Claims{Username: "ghost"})

	_, err := validator.Validate(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	validator := NewTokenValidator(testSecret)
	_, err := validator.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIsMonitorRoles(t *testing.T) {
	assert.True(t, Claims{Role: models.RoleParent}.IsMonitor())
	assert.True(t, Claims{Role: models.RoleAdmin}.IsMonitor())
	assert.False(t, Claims{Role: models.RoleChild}.IsMonitor())
	assert.False(t, Claims{}.IsMonitor())
}
