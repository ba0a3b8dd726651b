package account

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"codeguess/internal/apperr"
)

const (
	MinUsernameLen = 3
	MaxUsernameLen = 32
	MinPasswordLen = 6
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)

// ValidateUsername checks an already trimmed username.
func ValidateUsername(username string) error {
	if n := utf8.RuneCountInString(username); n < MinUsernameLen || n > MaxUsernameLen {
		return apperr.Validation(fmt.Sprintf("Username must be between %d and %d characters", MinUsernameLen, MaxUsernameLen))
	}
	if !usernamePattern.MatchString(username) {
		return apperr.Validation("Username may contain only letters, digits, _, - and .")
	}
	return nil
}

func ValidatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLen {
		return apperr.Validation(fmt.Sprintf("Password must be at least %d characters", MinPasswordLen))
	}
	return nil
}
