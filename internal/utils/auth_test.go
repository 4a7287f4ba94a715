package utils_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/university-timetable/internal/utils"
)

// minCost keeps the bcrypt tests fast; production cost comes from config.
const minCost = 4

func Test_HashPassword_RoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("s3cret-pass", minCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, utils.VerifyPassword(hash, "s3cret-pass"))
	assert.False(t, utils.VerifyPassword(hash, "wrong-pass"))
	assert.False(t, utils.VerifyPassword("not-a-bcrypt-hash", "s3cret-pass"))
}

func Test_NewAccessToken_CarriesClaims(t *testing.T) {
	const secret = "test-secret"

	access, err := utils.NewAccessToken(secret, 42, "LECTURER", 15)
	require.NoError(t, err)
	require.NotEmpty(t, access.Token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), access.Exp, 5*time.Second)

	parsed, err := jwt.Parse(access.Token, func(tok *jwt.Token) (interface{}, error) {
		require.IsType(t, &jwt.SigningMethodHMAC{}, tok.Method)
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, float64(42), claims["sub"], "numeric claims decode as float64")
	assert.Equal(t, "LECTURER", claims["role"])
	assert.EqualValues(t, access.Exp.Unix(), claims["exp"])
}

func Test_NewAccessToken_RejectsWrongSecret(t *testing.T) {
	access, err := utils.NewAccessToken("right-secret", 42, "ADMIN", 15)
	require.NoError(t, err)

	_, err = jwt.Parse(access.Token, func(tok *jwt.Token) (interface{}, error) {
		return []byte("wrong-secret"), nil
	})
	assert.Error(t, err)
}

func Test_NewRefreshToken_IsOpaqueAndUnique(t *testing.T) {
	a, err := utils.NewRefreshToken(30)
	require.NoError(t, err)
	b, err := utils.NewRefreshToken(30)
	require.NoError(t, err)

	assert.Len(t, a.Raw, 96, "48 random bytes, hex encoded")
	assert.NotEqual(t, a.Raw, b.Raw)
	assert.WithinDuration(t, time.Now().UTC().Add(30*24*time.Hour), a.Exp, 5*time.Second)
}

func Test_HashRefreshRaw_Deterministic(t *testing.T) {
	h1 := utils.HashRefreshRaw("token-one")
	h2 := utils.HashRefreshRaw("token-one")
	h3 := utils.HashRefreshRaw("token-two")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 64, "sha-256 hex")
	assert.NotContains(t, h1, "token-one", "raw value never appears in the hash")
}
