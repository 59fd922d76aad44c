package core

import (
	"regexp"
	"strings"
	"unicode"
)

// phoneRe matches E.164 formatted numbers, the only shape the transaction
// service accepts as a receiver address.
var phoneRe = regexp.MustCompile(`^\+[1-9]\d{1,14}$`)

// emailRe is a shallow shape check; the user service owns real validation.
var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidatePhone rejects anything not matching ^\+[1-9]\d{1,14}$.
func ValidatePhone(phone string) error {
	if !phoneRe.MatchString(strings.TrimSpace(phone)) {
		return ErrInvalidPhone
	}
	return nil
}

// ValidateEmail performs a minimal well-formedness check.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(strings.TrimSpace(email)) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword enforces the registration password rules: at least 8
// characters with one uppercase letter, one lowercase letter, and one digit.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrWeakPassword
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

// Registration is the register form after parsing.
type Registration struct {
	UserName    string
	Email       string
	PhoneNumber string
	Password    string
}

func (r Registration) Validate() error {
	if strings.TrimSpace(r.UserName) == "" {
		return ErrEmptyUserName
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	if err := ValidatePhone(r.PhoneNumber); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}
