package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_AccessToken(t *testing.T) {
	m := NewManager("secret", 3600, 86400)

	token, err := m.GenerateAccessToken(42, "alice", "ally")
	require.NoError(t, err)

	claims, err := m.VerifyToken(token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "ally", claims.Nickname)
	assert.Equal(t, "access", claims.TokenType)
}

func TestManager_TokenTypeDiscrimination(t *testing.T) {
	m := NewManager("secret", 3600, 86400)

	access, err := m.GenerateAccessToken(42, "alice", "")
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(42, "alice")
	require.NoError(t, err)

	_, err = m.VerifyToken(refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyRefreshToken(access)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := m.VerifyRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestManager_ExpiredToken(t *testing.T) {
	m := NewManager("secret", -60, 86400)

	token, err := m.GenerateAccessToken(42, "alice", "")
	require.NoError(t, err)

	_, err = m.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManager_WrongSecret(t *testing.T) {
	m := NewManager("secret", 3600, 86400)
	other := NewManager("different", 3600, 86400)

	token, err := m.GenerateAccessToken(42, "alice", "")
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
