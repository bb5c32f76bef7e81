package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestGenerateAndParse(t *testing.T) {
	tok, err := Generate(testSecret, "u1", "pf1", RoleVendedor, "distribuidora-test", 60)
	require.NoError(t, err)

	userID, profileID, role, err := Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
	assert.Equal(t, "pf1", profileID)
	assert.Equal(t, RoleVendedor, role)
}

func TestParse_ExpiredToken(t *testing.T) {
	tok, err := Generate(testSecret, "u1", "pf1", RoleAdmin, "distribuidora-test", -1)
	require.NoError(t, err)

	_, _, _, err = Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := Generate(testSecret, "u1", "pf1", RoleAdmin, "distribuidora-test", 60)
	require.NoError(t, err)

	_, _, _, err = Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := Generate("", "u1", "pf1", RoleAdmin, "x", 60)
	assert.Error(t, err)
	_, _, _, err = Parse("", "a.b.c")
	assert.Error(t, err)
}
