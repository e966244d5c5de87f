package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash. Hashes written by the
// old local deployment are unsalted SHA-256 hex digests; they still verify,
// and needsRehash tells the caller to replace them with bcrypt.
func CheckPassword(hash, password string) (ok, needsRehash bool) {
	if isLegacyHash(hash) {
		sum := sha256.Sum256([]byte(password))
		got := hex.EncodeToString(sum[:])
		ok = subtle.ConstantTimeCompare([]byte(got), []byte(hash)) == 1
		return ok, ok
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil, false
}

func isLegacyHash(hash string) bool {
	if len(hash) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(hash)
	return err == nil
}
