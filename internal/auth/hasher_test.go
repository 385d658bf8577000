package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	hash, err := h.Hash("hunter2")
	require.NoError(t, err)
	assert.True(t, IsBcryptHash(hash))
	assert.NotEqual(t, "hunter2", hash)

	assert.True(t, h.Verify(hash, "hunter2"))
	assert.False(t, h.Verify(hash, "hunter3"))
	assert.False(t, h.NeedsRehash(hash))
}

func TestBcryptHasherLegacyPlaintext(t *testing.T) {
	h := BcryptHasher{Cost: bcrypt.MinCost}

	assert.True(t, h.Verify("plain-pass", "plain-pass"))
	assert.False(t, h.Verify("plain-pass", "Plain-pass"))
	assert.True(t, h.NeedsRehash("plain-pass"))
	assert.False(t, h.Verify("", ""))
}

func TestIsBcryptHash(t *testing.T) {
	assert.False(t, IsBcryptHash("$2a$short"))
	assert.False(t, IsBcryptHash(""))
}
