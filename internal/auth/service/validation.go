package service

import (
	"github.com/weathermate/backend/internal/common/constants"
)

// Usernames are free-form beyond the length bounds: case-sensitive and
// stored verbatim.
func validateCredentials(username, password string) error {
	if len(username) < constants.UsernameMinLength || len(username) > constants.UsernameMaxLength {
		return ErrValidation
	}

	// bcrypt refuses inputs over 72 bytes
	if len(password) < constants.PasswordMinLength || len(password) > constants.PasswordMaxLength {
		return ErrValidation
	}

	return nil
}
