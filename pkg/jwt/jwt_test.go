package jwt

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := Generate("", "u", "c", "admin", "gestao-api", 60)
	assert.Error(t, err)
}

func TestParse_ConservaClaims(t *testing.T) {
	tok, err := Generate("s3cr3t", "user-1", "company-1", "financeiro", "gestao-api", 5)
	require.NoError(t, err)

	userID, companyID, role, err := Parse("s3cr3t", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "company-1", companyID)
	assert.Equal(t, "financeiro", role)
}

func TestParse_Rechazos(t *testing.T) {
	expired, err := Generate("s3cr3t", "u", "c", "admin", "gestao-api", -1)
	require.NoError(t, err)
	_, _, _, err = Parse("s3cr3t", expired)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	tok, err := Generate("s3cr3t", "u", "c", "admin", "gestao-api", 5)
	require.NoError(t, err)
	_, _, _, err = Parse("otro", tok)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, _, _, err = Parse("", tok)
	assert.ErrorIs(t, err, ErrEmptySecret)

	sinTenant, err := Generate("s3cr3t", "u", "", "admin", "gestao-api", 5)
	require.NoError(t, err)
	_, _, _, err = Parse("s3cr3t", sinTenant)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}
