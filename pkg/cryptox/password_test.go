package cryptox_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/neurolock/neurolock/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	hash, err := cryptox.HashPassword("hunter2!")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	require.NoError(t, cryptox.VerifyPassword("hunter2!", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong", hash), cryptox.ErrPasswordMismatch)
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	cases := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$bogus$c2FsdA$aGFzaA",
	}
	for _, encoded := range cases {
		require.Error(t, cryptox.VerifyPassword("pw", encoded), "hash %q", encoded)
	}
}

func TestHashesAreSalted(t *testing.T) {
	cryptox.SetPepperPath(filepath.Join(t.TempDir(), "pepper"))

	h1, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)
	h2, err := cryptox.HashPassword("same-password")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2)
	require.NoError(t, cryptox.VerifyPassword("same-password", h1))
	require.NoError(t, cryptox.VerifyPassword("same-password", h2))
}
