// Tiendat | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPasscode(t *testing.T) {
	hash, err := HashPasscode("1234")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	ok, err := VerifyPasscode("1234", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPasscode("4321", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasscodeMalformedHash(t *testing.T) {
	_, err := VerifyPasscode("1234", "not-a-bcrypt-hash")
	assert.Error(t, err)
}

func TestHashesAreSalted(t *testing.T) {
	h1, err := HashPasscode("1234")
	require.NoError(t, err)
	h2, err := HashPasscode("1234")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasscodeTimingSafe(t *testing.T) {
	hash, err := HashPasscode("1234")
	require.NoError(t, err)

	t.Run("matches stored hash", func(t *testing.T) {
		ok, err := VerifyPasscodeTimingSafe("1234", &hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("mismatch is false", func(t *testing.T) {
		ok, err := VerifyPasscodeTimingSafe("0000", &hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("nil hash is always false, never an error", func(t *testing.T) {
		ok, err := VerifyPasscodeTimingSafe("1234", nil)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty hash is always false", func(t *testing.T) {
		empty := ""
		ok, err := VerifyPasscodeTimingSafe("1234", &empty)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
