package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassword(t *testing.T) {
	hash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	ok, err := CheckPassword(hash, "admin123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = CheckPassword(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = CheckPassword("not-a-hash", "admin123")
	assert.Error(t, err)
}

func TestTokenManager(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	m := NewTokenManager("secret", 12*time.Hour)
	m.now = func() time.Time { return now }

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	claims, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.True(t, claims.IsAdmin)

	other := NewTokenManager("other", time.Hour)
	other.now = m.now
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	now = now.Add(13 * time.Hour)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	_, err = m.Verify("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
