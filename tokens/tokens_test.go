package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParseRoundtrip(t *testing.T) {
	Init("test-secret")

	token, err := Sign("64f0c0ffee0000000000aaaa", true)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c0ffee0000000000aaaa", claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Greater(t, claims.RemainingTTL(), 55*time.Minute)
}

func TestParseRejectsTamperedToken(t *testing.T) {
	Init("test-secret")

	token, err := Sign("user1", false)
	require.NoError(t, err)

	_, err = Parse(token + "x")
	assert.Error(t, err)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	Init("test-secret")
	token, err := Sign("user1", false)
	require.NoError(t, err)

	Init("another-secret")
	_, err = Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	Init("test-secret")

	claims := Claims{
		UserID: "user1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}

func TestParseRejectsEmptySubject(t *testing.T) {
	Init("test-secret")

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = Parse(token)
	assert.Error(t, err)
}
