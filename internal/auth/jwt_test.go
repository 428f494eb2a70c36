package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_GenerateValidateRoundtrip(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	userID := uuid.New()

	token, err := svc.Generate(userID, "user@example.com", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID, "every token carries a JTI for revocation")
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestJWT_UniqueJTIPerToken(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	userID := uuid.New()

	t1, err := svc.Generate(userID, "a@b.c", "user")
	require.NoError(t, err)
	t2, err := svc.Generate(userID, "a@b.c", "user")
	require.NoError(t, err)

	c1, err := svc.Validate(t1)
	require.NoError(t, err)
	c2, err := svc.Validate(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.ID, c2.ID)
}

func TestJWT_WrongSecretRejected(t *testing.T) {
	token, err := NewJWTService("secret-one", 1).Generate(uuid.New(), "a@b.c", "user")
	require.NoError(t, err)

	_, err = NewJWTService("secret-two", 1).Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWT_GarbageRejected(t *testing.T) {
	svc := NewJWTService("test-secret", 1)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
