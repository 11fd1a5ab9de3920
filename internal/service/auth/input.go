package auth

import (
	"net/mail"
	"unicode/utf8"

	"github.com/heartmarshall/teamhub-backend/internal/domain"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt limit
	maxEmailLen    = 254
	maxUsernameLen = 50
	maxNameLen     = 100
)

// RegisterInput holds parameters for email + password registration.
type RegisterInput struct {
	Email       string
	Username    string
	DisplayName string
	Password    string
}

// Validate validates the register input.
func (i RegisterInput) Validate() error {
	var errs domain.FieldErrors

	checkEmail(&errs, i.Email)

	switch n := utf8.RuneCountInString(i.Username); {
	case n == 0:
		errs.Add("username", "required")
	case n < 3:
		errs.Add("username", "too short")
	case n > maxUsernameLen:
		errs.Add("username", "too long")
	}

	if utf8.RuneCountInString(i.DisplayName) > maxNameLen {
		errs.Add("display_name", "too long")
	}

	switch n := len(i.Password); {
	case n == 0:
		errs.Add("password", "required")
	case n < minPasswordLen:
		errs.Add("password", "too short")
	case n > maxPasswordLen:
		errs.Add("password", "too long")
	}

	return errs.Err()
}

// LoginPasswordInput holds parameters for email + password login.
type LoginPasswordInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginPasswordInput) Validate() error {
	var errs domain.FieldErrors

	checkEmail(&errs, i.Email)

	if i.Password == "" {
		errs.Add("password", "required")
	} else if len(i.Password) > maxPasswordLen {
		errs.Add("password", "too long")
	}

	return errs.Err()
}

// RefreshInput holds parameters for token refresh operation.
type RefreshInput struct {
	RefreshToken string
}

// Validate validates the refresh input.
func (i RefreshInput) Validate() error {
	var errs domain.FieldErrors

	if i.RefreshToken == "" {
		errs.Add("refresh_token", "required")
	} else if len(i.RefreshToken) > 512 {
		errs.Add("refresh_token", "too long")
	}

	return errs.Err()
}

func checkEmail(errs *domain.FieldErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", "required")
	case len(email) > maxEmailLen:
		errs.Add("email", "too long")
	default:
		if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
			errs.Add("email", "invalid format")
		}
	}
}
