package auth

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/waterbot/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	SaltLength = 16
	keyLength  = 32
)

// HashPassword derives an argon2id hash of password with salt.
func HashPassword(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, 1, 64*1024, 4, keyLength)
}

// NewPasswordHash generates a fresh salt and hashes password with it.
func NewPasswordHash(password string) (hash, salt []byte) {
	salt = common.GenerateRandByteArray(SaltLength)
	return HashPassword(password, salt), salt
}

// CheckPassword reports whether password matches hash in constant time.
func CheckPassword(password string, salt, hash []byte) bool {
	candidate := HashPassword(password, salt)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(candidate, hash) == 1
}
