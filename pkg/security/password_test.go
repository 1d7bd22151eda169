package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("111111")
	require.NoError(t, err)
	assert.NotEqual(t, "111111", hash)

	assert.NoError(t, h.Compare(hash, "111111"))
	assert.ErrorIs(t, h.Compare(hash, "222222"), ErrMismatch)
}

func TestBcryptHasherRejectsShortPasskey(t *testing.T) {
	_, err := NewBcryptHasher(bcrypt.MinCost).Hash("123")
	assert.Error(t, err)
}
