package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUser_PasswordHashing(t *testing.T) {
	t.Parallel()

	u := &User{Email: "a@b.com"}
	require.NoError(t, u.SetPassword("secret"))

	// Plaintext must never be stored.
	require.NotEqual(t, "secret", u.PasswordHash)
	require.NotEmpty(t, u.PasswordHash)

	require.True(t, u.CheckPassword("secret"))
	require.False(t, u.CheckPassword("wrong"))
	require.False(t, u.CheckPassword(""))
}
