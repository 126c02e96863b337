// pkg/auth/password.go
package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrWeakPassword = errors.New("password does not meet requirements")
)

// PasswordManager handles password hashing and validation
type PasswordManager struct {
	minLength     int
	requireLetter bool
	requireNumber bool
}

// NewPasswordManager creates a new password manager with default settings
func NewPasswordManager() *PasswordManager {
	return &PasswordManager{
		minLength:     8,
		requireLetter: true,
		requireNumber: true,
	}
}

// HashPassword hashes a password using bcrypt
func (pm *PasswordManager) HashPassword(password string) (string, error) {
	if err := pm.ValidatePassword(password); err != nil {
		return "", err
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hashedBytes), nil
}

// ComparePassword compares a password with a hash
func (pm *PasswordManager) ComparePassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// ValidatePassword checks if a password meets the requirements
func (pm *PasswordManager) ValidatePassword(password string) error {
	if len(password) < pm.minLength {
		return fmt.Errorf("%w: minimum length is %d characters", ErrWeakPassword, pm.minLength)
	}

	var hasLetter, hasNumber bool
	for _, char := range password {
		switch {
		case unicode.IsLetter(char):
			hasLetter = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if pm.requireLetter && !hasLetter {
		return fmt.Errorf("%w: must contain at least one letter", ErrWeakPassword)
	}
	if pm.requireNumber && !hasNumber {
		return fmt.Errorf("%w: must contain at least one number", ErrWeakPassword)
	}

	return nil
}

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	if !emailRegex.MatchString(email) {
		return errors.New("invalid email format")
	}

	if len(email) > 255 {
		return errors.New("email address too long")
	}

	return nil
}

// ValidatePhoneNumber validates an Iranian mobile number: 11 digits
// starting with 09.
func ValidatePhoneNumber(phoneNumber string) error {
	if !strings.HasPrefix(phoneNumber, "09") {
		return errors.New("phone number must start with 09")
	}
	if len(phoneNumber) != 11 {
		return errors.New("phone number must be 11 digits")
	}
	for _, char := range phoneNumber {
		if !unicode.IsDigit(char) {
			return errors.New("phone number must contain only digits")
		}
	}
	return nil
}
