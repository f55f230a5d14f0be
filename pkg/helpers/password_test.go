package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pw123")
	require.NoError(t, err)

	assert.NotEqual(t, "pw123", hash)
	assert.True(t, CompareHashAndPassword(hash, "pw123"))
	assert.False(t, CompareHashAndPassword(hash, "pw124"))
}

func TestHashPasswordIsSalted(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestPasswordFitsCountsBytes(t *testing.T) {
	assert.True(t, PasswordFits(strings.Repeat("a", 72)))
	assert.True(t, PasswordFits(strings.Repeat("é", 36)))
	assert.False(t, PasswordFits(strings.Repeat("é", 37)), "74 bytes, 37 runes")

	_, err := HashPassword(strings.Repeat("é", 40))
	assert.Error(t, err)
}

func TestCompareRejectsMalformedHash(t *testing.T) {
	assert.False(t, CompareHashAndPassword("plain-text", "plain-text"))
}
