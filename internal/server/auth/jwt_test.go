package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/waterbot/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := GenerateToken("user-123", "pilot@example.com", secret, time.Hour)
	require.NoError(t, err)

	id, err := ParseToken(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-123", id.UserID)
	assert.Equal(t, "pilot@example.com", id.Email)
	assert.NotEmpty(t, id.TokenID)
}

func TestGenerateToken_UniqueTokenID(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	a, err := GenerateToken("u", "a@b.co", secret, time.Hour)
	require.NoError(t, err)
	b, err := GenerateToken("u", "a@b.co", secret, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ia, err := ParseToken(a, secret)
	require.NoError(t, err)
	ib, err := ParseToken(b, secret)
	require.NoError(t, err)
	assert.NotEqual(t, ia.TokenID, ib.TokenID)
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")
	tok, err := GenerateToken("u1", "a@b.co", secret, -time.Second)
	require.NoError(t, err)

	_, err = ParseToken(tok, secret)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := GenerateToken("u2", "a@b.co", []byte("right-secret"), time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(tok, []byte("wrong-secret"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_Malformed(t *testing.T) {
	t.Parallel()

	_, err := ParseToken("not.a.jwt", []byte("k"))
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "u3"})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(s, secret)
	require.Error(t, err)
	assert.False(t, errors.Is(err, common.ErrTokenExpired))
}

func TestParseToken_MissingUserID(t *testing.T) {
	t.Parallel()

	secret := []byte("k")
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	s, err := tok.SignedString(secret)
	require.NoError(t, err)

	_, err = ParseToken(s, secret)
	assert.ErrorIs(t, err, common.ErrInvalidToken)
}
