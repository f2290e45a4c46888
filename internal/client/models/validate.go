package models

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"cloudbox/internal/common"
)

// Validation mirrors the server-side rules so that a bad login form or
// register form never costs a network round-trip. The server remains
// authoritative; anything it rejects on top of these rules comes back as a
// classified validation error with the same per-field shape.

var accountNameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]{3,19}$`)

var (
	passwordUpperRe   = regexp.MustCompile(`[A-Z]`)
	passwordDigitRe   = regexp.MustCompile(`\d`)
	passwordSpecialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields under their wire names so messages line up with the
	// server's own validation responses.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("account_name", func(fl validator.FieldLevel) bool {
		return accountNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("account_password", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) >= 6 &&
			passwordUpperRe.MatchString(s) &&
			passwordDigitRe.MatchString(s) &&
			passwordSpecialRe.MatchString(s)
	})

	return v
}

// Validate checks the credentials locally. Returns nil when valid.
func (c Credentials) Validate() *common.Error {
	return toValidationError(validate.Struct(c))
}

// Validate checks the profile locally. Returns nil when valid.
func (p RegisterProfile) Validate() *common.Error {
	return toValidationError(validate.Struct(p))
}

func toValidationError(err error) *common.Error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return common.Ensure(err)
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return common.NewValidationError("invalid input", fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "account_name":
		return "must start with a letter, contain only latin letters and digits, and be 4 to 20 characters long"
	case "account_password":
		return "must be at least 6 characters and contain an uppercase letter, a digit and a special character"
	default:
		return "is invalid"
	}
}
