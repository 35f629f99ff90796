package jwtPkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	token, exp, err := Sign("s3cret", map[string]interface{}{"id": "u-1", "email": "a@b.mm"}, time.Hour)
	require.NoError(t, err)
	assert.Greater(t, exp, time.Now().Unix())

	parsed, err := VerifyToken(token, "s3cret")
	require.NoError(t, err)

	user, err := UserFromClaims(parsed.Claims.(jwt.MapClaims))
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "a@b.mm", user.Email)
	assert.Empty(t, user.Username)

	_, err = VerifyToken(token, "other")
	assert.Error(t, err)
}

func TestSign_NoSecret(t *testing.T) {
	_, _, err := Sign("", nil, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
}

func TestVerify_Expired(t *testing.T) {
	token, _, err := Sign("s3cret", map[string]interface{}{"id": "u-1", "email": "a@b.mm"}, -time.Minute)
	require.NoError(t, err)

	_, err = VerifyToken(token, "s3cret")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestUserFromClaims_Missing(t *testing.T) {
	_, err := UserFromClaims(jwt.MapClaims{"id": "u-1"})
	assert.Error(t, err)
}
