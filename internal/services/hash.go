package services

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// passwordSalt is appended to every password before hashing.
const passwordSalt = "users"

// HashPassword returns the one-way hash stored for password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password+passwordSalt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches a hash produced by HashPassword.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password+passwordSalt)) == nil
}

// NewToken issues an opaque bearer token: the hex SHA-256 of a random UUID.
func NewToken() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:])
}
