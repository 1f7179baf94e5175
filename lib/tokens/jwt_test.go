package tokens

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rentstack/pmp/db/models"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	secret := []byte("test-secret")
	user := &models.User{ID: uuid.New()}

	token, err := GenerateAccessToken(secret, 3600, user)
	require.NoError(t, err)

	userId, err := ParseToken(secret, token, false)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userId)
}

func TestRefreshTokenRejectedAsAccessToken(t *testing.T) {
	secret := []byte("test-secret")
	user := &models.User{ID: uuid.New()}

	refresh, err := GenerateRefreshToken(secret, 3600, user)
	require.NoError(t, err)

	_, err = ParseToken(secret, refresh, false)
	assert.Error(t, err)

	userId, err := ParseToken(secret, refresh, true)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userId)
}

func TestExpiredTokenRejected(t *testing.T) {
	secret := []byte("test-secret")
	user := &models.User{ID: uuid.New()}

	token, err := GenerateAccessToken(secret, -60, user)
	require.NoError(t, err)

	_, err = ParseToken(secret, token, false)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	user := &models.User{ID: uuid.New()}

	token, err := GenerateAccessToken([]byte("secret-a"), 3600, user)
	require.NoError(t, err)

	_, err = ParseToken([]byte("secret-b"), token, false)
	assert.Error(t, err)
}
