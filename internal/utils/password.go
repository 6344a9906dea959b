package utils

import (
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost trades hashing latency for brute-force resistance.
const bcryptCost = 12

// minPasswordLength is the floor enforced by the password policy.
const minPasswordLength = 8

// HashPassword derives a slow one-way hash with a per-password random salt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether the plain password matches the stored hash.
func ComparePassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword applies the account password policy and returns every
// violated rule, so the client can show them all at once.
func ValidatePassword(password string) []string {
	var errs []string

	if len(password) < minPasswordLength {
		errs = append(errs, "password must be at least 8 characters long")
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(`!@#$%^&*(),.?":{}|<>`, r):
			hasSpecial = true
		}
	}

	if !hasUpper {
		errs = append(errs, "password must contain at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must contain at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must contain at least one number")
	}
	if !hasSpecial {
		errs = append(errs, "password must contain at least one special character")
	}

	return errs
}
