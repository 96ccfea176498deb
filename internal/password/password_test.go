package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundTrip(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("Password123!")
	require.NoError(t, err)
	assert.NotEqual(t, []byte("Password123!"), hash)

	assert.True(t, h.Verify("Password123!", hash))
	assert.False(t, h.Verify("wrongpass", hash))
}

func TestHashesAreSalted(t *testing.T) {
	h := NewBcryptHasher(4)

	first, err := h.Hash("Password123!")
	require.NoError(t, err)
	second, err := h.Hash("Password123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestEmptyInputNotShortCircuited(t *testing.T) {
	h := NewBcryptHasher(4)

	hash, err := h.Hash("")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, h.Verify("", hash))
	assert.False(t, h.Verify("x", hash))
	assert.False(t, h.Verify("", nil))
}

func TestInvalidCostFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)

	hash, err := h.Hash("pw")
	require.NoError(t, err)
	assert.True(t, h.Verify("pw", hash))
}
