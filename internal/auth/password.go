// Package auth holds credential hashing and account input validation.
package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"regexp"
	"unicode"
)

// MinPasswordLength is the only rule registration enforces.
const MinPasswordLength = 6

// MaxPasswordLength is enforced by the stricter ValidatePassword policy.
const MaxPasswordLength = 50

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

var (
	ErrInvalidUsername  = errors.New("username must be 3-20 characters, letters, digits and underscores only")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrPasswordTooLong  = errors.New("password must be less than 50 characters")
	ErrPasswordTooWeak  = errors.New("password must contain at least one letter and one number")
)

// HashPassword returns the hex digest of sha256 over the UTF-8 password
// bytes. No salt and no key stretching: the stored credential format is a
// compatibility constraint carried over from the existing database files.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// ValidateUsername checks the 3-20 character alphanumeric-plus-underscore
// rule. Usernames are case-sensitive.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

// CheckMinLength is the gate actually applied at registration.
func CheckMinLength(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidatePassword applies the stricter policy: 6-50 characters with at
// least one letter and one digit. Registration does not call it; it is
// kept for parity with the original tool, which shipped the same validator
// unwired.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordTooWeak
	}
	return nil
}
