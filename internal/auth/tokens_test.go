package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret")

	t.Run("access token carries the user id", func(t *testing.T) {
		token, err := m.SignAccess("507f1f77bcf86cd799439011")
		require.NoError(t, err)

		id, err := m.VerifyAccess(token)
		require.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", id)
	})

	t.Run("refresh token carries the user id", func(t *testing.T) {
		token, err := m.SignRefresh("507f1f77bcf86cd799439011")
		require.NoError(t, err)

		id, err := m.VerifyRefresh(token)
		require.NoError(t, err)
		assert.Equal(t, "507f1f77bcf86cd799439011", id)
	})

	t.Run("access and refresh secrets are not interchangeable", func(t *testing.T) {
		token, err := m.SignAccess("507f1f77bcf86cd799439011")
		require.NoError(t, err)

		_, err = m.VerifyRefresh(token)
		assert.Error(t, err)
	})

	t.Run("tokens from another manager are rejected", func(t *testing.T) {
		other := NewTokenManager("different", "secrets")
		token, err := other.SignAccess("507f1f77bcf86cd799439011")
		require.NoError(t, err)

		_, err = m.VerifyAccess(token)
		assert.Error(t, err)
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := m.VerifyAccess("not.a.token")
		assert.Error(t, err)
	})
}
