package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPasswordHash_RoundTrip(t *testing.T) {
	hash, salt := NewPasswordHash("secret1")
	require.Len(t, salt, SaltLength)
	require.Len(t, hash, keyLength)

	assert.True(t, CheckPassword("secret1", salt, hash))
	assert.False(t, CheckPassword("secret2", salt, hash))
}

func TestHashPassword_SaltMatters(t *testing.T) {
	a := HashPassword("pw", []byte("salt-aaaaaaaaaaa"))
	b := HashPassword("pw", []byte("salt-bbbbbbbbbbb"))
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, HashPassword("pw", []byte("salt-aaaaaaaaaaa")))
}
