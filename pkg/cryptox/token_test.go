package cryptox_test

import (
	"encoding/base64"
	"testing"

	"github.com/neurolock/neurolock/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	t.Run("rejects non-positive sizes", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)

		_, err = cryptox.GenerateToken(-1)
		require.Error(t, err)
	})

	t.Run("produces url-safe tokens of the right entropy", func(t *testing.T) {
		token, err := cryptox.GenerateToken(cryptox.TokenSize128)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		require.Len(t, raw, cryptox.TokenSize128)
	})

	t.Run("tokens are unique", func(t *testing.T) {
		seen := make(map[string]struct{}, 1000)
		for range 1000 {
			token, err := cryptox.GenerateToken(cryptox.TokenSize128)
			require.NoError(t, err)
			_, dup := seen[token]
			require.False(t, dup, "duplicate token %q", token)
			seen[token] = struct{}{}
		}
	})
}

func TestFingerprintToken(t *testing.T) {
	t.Parallel()

	a := cryptox.FingerprintToken("token-a")
	b := cryptox.FingerprintToken("token-b")

	require.NotEqual(t, a, b)
	require.Equal(t, a, cryptox.FingerprintToken("token-a"))
	require.Len(t, a, 43) // base64url of a SHA-256 sum
}
