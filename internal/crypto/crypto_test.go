package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordMD5(t *testing.T) {
	// Known digest, matches what the game client computes.
	assert.Equal(t, "5f4dcc3b5aa765d61d8327deb882cf99", PasswordMD5("password"))
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "correct horse battery staple"))
	assert.False(t, CheckPassword(hash, "wrong password"))
}

func TestCheckPasswordMD5(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.True(t, CheckPasswordMD5(hash, PasswordMD5("hunter2")))
	assert.False(t, CheckPasswordMD5(hash, PasswordMD5("hunter3")))
}

func TestNewToken(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestHashTokenIsStable(t *testing.T) {
	token := "aabbccddeeff00112233445566778899"
	assert.Equal(t, HashToken(token), HashToken(token))
	assert.Len(t, HashToken(token), 64)
	assert.NotEqual(t, token, HashToken(token))
}
