// Package validation provides input validation for accounts, projects and
// contact-form leads.
package validation

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/apricodi/builder/internal/models"
)

var (
	// ErrPasswordTooShort indicates password is less than minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	// ErrPasswordNoUppercase indicates password has no uppercase letter.
	ErrPasswordNoUppercase = errors.New("password must contain at least one uppercase letter")
	// ErrPasswordNoLowercase indicates password has no lowercase letter.
	ErrPasswordNoLowercase = errors.New("password must contain at least one lowercase letter")
	// ErrPasswordNoDigit indicates password has no digit.
	ErrPasswordNoDigit = errors.New("password must contain at least one digit")
	// ErrPasswordCommon indicates password is too common.
	ErrPasswordCommon = errors.New("password is too common, please choose a stronger password")
	// ErrInputTooLong indicates input exceeds maximum length.
	ErrInputTooLong = errors.New("input exceeds maximum length")
	// ErrInvalidEmail indicates the value is not a single email address.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrRequired indicates a required field is empty.
	ErrRequired = errors.New("field is required")
)

// Length limits for stored text.
const (
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxMessageLength     = 5000
	MaxShortField        = 200
)

// FieldError reports which field failed validation.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// PasswordPolicy defines password requirements.
type PasswordPolicy struct {
	MinLength        int
	RequireUppercase bool
	RequireLowercase bool
	RequireDigit     bool
	CheckCommon      bool
}

// DefaultPasswordPolicy returns the policy applied at registration.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:        8,
		RequireUppercase: true,
		RequireLowercase: true,
		RequireDigit:     true,
		CheckCommon:      true,
	}
}

var commonPasswords = map[string]bool{
	"password":    true,
	"12345678":    true,
	"password1":   true,
	"password123": true,
	"qwerty123":   true,
	"passw0rd":    true,
	"iloveyou":    true,
	"sifre123":    true,
	"parola123":   true,
	"welcome1":    true,
}

// ValidatePassword validates a password against the policy.
func ValidatePassword(password string, policy PasswordPolicy) error {
	if utf8.RuneCountInString(password) < policy.MinLength {
		return ErrPasswordTooShort
	}

	var hasUpper, hasLower, hasDigit bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		}
	}

	if policy.RequireUppercase && !hasUpper {
		return ErrPasswordNoUppercase
	}
	if policy.RequireLowercase && !hasLower {
		return ErrPasswordNoLowercase
	}
	if policy.RequireDigit && !hasDigit {
		return ErrPasswordNoDigit
	}
	if policy.CheckCommon && commonPasswords[strings.ToLower(password)] {
		return ErrPasswordCommon
	}
	return nil
}

// ValidatePasswordWithDefault validates using the default policy.
func ValidatePasswordWithDefault(password string) error {
	return ValidatePassword(password, DefaultPasswordPolicy())
}

// ValidateEmail accepts a bare address such as "ayse@example.com". Display
// names ("Ayşe <ayse@example.com>") are rejected.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrRequired
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return ErrInvalidEmail
	}
	if !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return ErrInvalidEmail
	}
	return nil
}

func required(field, value string, max int) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return &FieldError{Field: field, Err: ErrRequired}
	}
	return maxLen(field, value, max)
}

func maxLen(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return &FieldError{Field: field, Err: ErrInputTooLong}
	}
	return nil
}

// ValidateLead checks the contact-form fields. Name, email, phone, company
// and message are required; interest area must be empty or a known option.
func ValidateLead(req *models.CreateLeadRequest) error {
	if err := required("name", req.Name, MaxShortField); err != nil {
		return err
	}
	if err := ValidateEmail(req.Email); err != nil {
		return &FieldError{Field: "email", Err: err}
	}
	if err := required("phone", req.Phone, MaxShortField); err != nil {
		return err
	}
	if err := required("company", req.Company, MaxShortField); err != nil {
		return err
	}
	if err := required("message", req.Message, MaxMessageLength); err != nil {
		return err
	}
	if req.InterestArea != "" && !InterestAreas[req.InterestArea] {
		return &FieldError{Field: "interest_area", Err: errors.New("unknown interest area")}
	}
	return nil
}

// InterestAreas are the accepted interest_area values.
var InterestAreas = map[string]bool{
	"demo":        true,
	"pricing":     true,
	"partnership": true,
	"support":     true,
	"other":       true,
}

// ValidateRegistration checks a sign-up request.
func ValidateRegistration(req *models.RegisterRequest) error {
	if err := ValidateEmail(req.Email); err != nil {
		return &FieldError{Field: "email", Err: err}
	}
	if err := ValidatePasswordWithDefault(req.Password); err != nil {
		return &FieldError{Field: "password", Err: err}
	}
	if err := required("name", req.Name, MaxNameLength); err != nil {
		return err
	}
	return maxLen("company", req.Company, MaxShortField)
}

// ValidateProjectName checks a project title.
func ValidateProjectName(name string) error {
	return required("name", name, MaxNameLength)
}

// ValidateDescription checks a free-text description.
func ValidateDescription(desc string) error {
	return maxLen("description", desc, MaxDescriptionLength)
}
