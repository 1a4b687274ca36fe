package util

import (
	"testing"
	"time"

	"kiongozi_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	user := &model.User{Email: "amina@example.com", Role: model.Learner}
	user.ID = 42

	token, err := GenerateJWT(user, "test-secret-key-for-unit-tests-only!", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT(token, "test-secret-key-for-unit-tests-only!")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, model.Learner, claims.Role)
	assert.Equal(t, "amina@example.com", claims.Email)
}

func TestParseJWT_WrongSecret(t *testing.T) {
	user := &model.User{Email: "amina@example.com", Role: model.Learner}
	user.ID = 1

	token, err := GenerateJWT(user, "correct-secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT(token, "wrong-secret")
	assert.Error(t, err)
}

func TestParseJWT_Expired(t *testing.T) {
	user := &model.User{Email: "amina@example.com"}
	user.ID = 1

	token, err := GenerateJWT(user, "secret", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT(token, "secret")
	assert.Error(t, err)
}
