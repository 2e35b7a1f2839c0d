package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"github.com/ymatsuda/todo-api/internal/models"
)

const testSecret = "test-secret"

func TestGenerateToken_RoundTrip(t *testing.T) {
	user := &models.User{
		ID:    42,
		Email: "a@x.com",
		Name:  "Alice",
	}

	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	require.Equal(t, uint64(42), claims.UserID)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "Alice", claims.Name)
	require.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseToken_WrongSecret(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@x.com", Name: "Alice"}

	token, err := GenerateToken(user, testSecret)
	require.NoError(t, err)

	_, err = ParseToken(token, "other-secret")
	require.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	now := time.Now()
	claims := Claims{
		UserID: 1,
		Email:  "a@x.com",
		Name:   "Alice",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(token, testSecret)
	require.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not-a-token", testSecret)
	require.Error(t, err)
}
