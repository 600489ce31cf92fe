package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHashAndCompareHash(t *testing.T) {
	hash, err := GetHash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, CompareHash(hash, "password123"))
	assert.Error(t, CompareHash(hash, "wrong-password"))
}

func TestGetHash_SaltIsFresh(t *testing.T) {
	first, err := GetHash("password123")
	require.NoError(t, err)
	second, err := GetHash("password123")
	require.NoError(t, err)

	// bcrypt генерирует новую соль при каждом вызове.
	assert.NotEqual(t, first, second)
	assert.NoError(t, CompareHash(first, "password123"))
	assert.NoError(t, CompareHash(second, "password123"))
}
