// Package cryptox derives and checks password verifiers. Only the verifier
// and its salt are ever stored; the password itself is dropped after login.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

const SaltSize = 32

// NewSalt returns n random bytes.
func NewSalt(n int) []byte {
	b := make([]byte, n)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return b
}

// DeriveKey stretches password with argon2id.
func DeriveKey(password, salt []byte) []byte {
	return argon2.IDKey(password, salt, 1, 64*1024, 4, 32)
}

func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

func verifierOf(password string, salt []byte) []byte {
	key := DeriveKey([]byte(password), salt)
	defer Wipe(key)
	return MakeVerifier(key)
}

// NewVerifier returns a fresh salt and the verifier of password under it.
func NewVerifier(password string) (salt, verifier []byte) {
	salt = NewSalt(SaltSize)
	return salt, verifierOf(password, salt)
}

// CheckPassword reports whether password produces verifier under salt.
func CheckPassword(password string, salt, verifier []byte) bool {
	return subtle.ConstantTimeCompare(verifierOf(password, salt), verifier) == 1
}

// Wipe zeroes b in place. A nil slice is fine.
func Wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
