package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns plaintext passwords into stored credentials and back
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(stored string, password string) bool
	// NeedsRehash reports whether stored should be replaced by a fresh Hash
	NeedsRehash(stored string) bool
}

// BcryptHasher stores bcrypt hashes. Credentials written before hashing was
// introduced are plaintext; Verify still accepts them so those accounts can
// log in once and get upgraded.
type BcryptHasher struct {
	Cost int
}

var _ PasswordHasher = BcryptHasher{}

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func (h BcryptHasher) Verify(stored string, password string) bool {
	if stored == "" {
		return false
	}
	if IsBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

func (h BcryptHasher) NeedsRehash(stored string) bool {
	return !IsBcryptHash(stored)
}

// IsBcryptHash reports whether s looks like a modular-crypt bcrypt hash
func IsBcryptHash(s string) bool {
	if len(s) != 60 {
		return false
	}
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}
