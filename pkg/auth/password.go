package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrWeakPassword = errors.New("weak password")

// maxPasswordBytes is the limit of bcrypt.
const maxPasswordBytes = 72

// ValidatePassword checks the password can be used.
func ValidatePassword(password string, minLength int) error {
	if len([]rune(password)) < minLength {
		return fmt.Errorf("%w: password should have %d characters at least", ErrWeakPassword, minLength)
	}
	if maxPasswordBytes < len(password) {
		return fmt.Errorf("%w: password should be %d bytes at most", ErrWeakPassword, maxPasswordBytes)
	}
	return nil
}

// HashPassword returns bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports the password matches the hash.
func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
