package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashIsSaltedAndVerifiable(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	first, err := h.Hash("SecurePass123")
	require.NoError(t, err)
	second, err := h.Hash("SecurePass123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "identical passwords must hash differently")
	assert.True(t, h.Verify("SecurePass123", first))
	assert.True(t, h.Verify("SecurePass123", second))
}

func TestHasher_VerifyRejectsWrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("SecurePass123")
	require.NoError(t, err)

	assert.False(t, h.Verify("WrongPass456", hash))
}

func TestHasher_VerifyRejectsMalformedHash(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("SecurePass123", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("SecurePass123", ""))
}

func TestNewHasher_ClampsBogusCost(t *testing.T) {
	h := NewHasher(1000)

	hash, err := h.Hash("SecurePass123")
	require.NoError(t, err)
	assert.True(t, h.Verify("SecurePass123", hash))
}
