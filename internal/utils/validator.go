package utils

import (
	"regexp"
	"strings"

	"user_center/internal/apperr"
)

// Accounts and passwords share one charset: a leading letter followed by
// letters and digits only.
var credentialPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*$`)

const (
	MinAccountLength  = 6
	MinPasswordLength = 8
)

// ValidateAccount checks account syntax. Side-effect free.
func ValidateAccount(account string) error {
	if strings.TrimSpace(account) == "" {
		return apperr.New(apperr.KindParam, "account must not be blank")
	}
	if len(account) < MinAccountLength {
		return apperr.Newf(apperr.KindParam, "account must be at least %d characters", MinAccountLength)
	}
	if !credentialPattern.MatchString(account) {
		return apperr.New(apperr.KindParam, "account must start with a letter and contain only letters and digits")
	}
	return nil
}

// ValidatePassword checks password syntax. Side-effect free.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return apperr.New(apperr.KindParam, "password must not be blank")
	}
	if len(password) < MinPasswordLength {
		return apperr.Newf(apperr.KindParam, "password must be at least %d characters", MinPasswordLength)
	}
	if !credentialPattern.MatchString(password) {
		return apperr.New(apperr.KindParam, "password must start with a letter and contain only letters and digits")
	}
	return nil
}
