package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/apricodi/builder/internal/models"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     error
	}{
		{"Abcdef12", nil},
		{"Ab1", ErrPasswordTooShort},
		{"abcdefg1", ErrPasswordNoUppercase},
		{"ABCDEFG1", ErrPasswordNoLowercase},
		{"Abcdefgh", ErrPasswordNoDigit},
		{"Password1", ErrPasswordCommon},
	}

	for _, tt := range tests {
		if err := ValidatePasswordWithDefault(tt.password); !errors.Is(err, tt.want) {
			t.Errorf("%q: expected %v, got %v", tt.password, tt.want, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"ayse@example.com", "a.b+c@sub.example.com.tr"}
	for _, e := range valid {
		if err := ValidateEmail(e); err != nil {
			t.Errorf("%q: unexpected error %v", e, err)
		}
	}

	invalid := []string{"ayse", "ayse@", "a@b", "Ayşe <ayse@example.com>", "a@b.com, c@d.com"}
	for _, e := range invalid {
		if err := ValidateEmail(e); !errors.Is(err, ErrInvalidEmail) {
			t.Errorf("%q: expected ErrInvalidEmail, got %v", e, err)
		}
	}

	if err := ValidateEmail("  "); !errors.Is(err, ErrRequired) {
		t.Errorf("expected ErrRequired, got %v", err)
	}
}

func validLead() *models.CreateLeadRequest {
	return &models.CreateLeadRequest{
		Name:         "Ayşe Yılmaz",
		Email:        "ayse@example.com",
		Phone:        "+90 555 000 00 00",
		Company:      "Acme",
		Message:      "Demo istiyorum",
		InterestArea: "demo",
	}
}

func TestValidateLead(t *testing.T) {
	if err := ValidateLead(validLead()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		field  string
		mutate func(*models.CreateLeadRequest)
	}{
		{"name", func(r *models.CreateLeadRequest) { r.Name = " " }},
		{"email", func(r *models.CreateLeadRequest) { r.Email = "nope" }},
		{"phone", func(r *models.CreateLeadRequest) { r.Phone = "" }},
		{"company", func(r *models.CreateLeadRequest) { r.Company = "" }},
		{"message", func(r *models.CreateLeadRequest) { r.Message = "" }},
		{"message", func(r *models.CreateLeadRequest) { r.Message = strings.Repeat("x", MaxMessageLength+1) }},
		{"interest_area", func(r *models.CreateLeadRequest) { r.InterestArea = "jobs" }},
	}

	for _, tt := range tests {
		req := validLead()
		tt.mutate(req)
		err := ValidateLead(req)
		var fe *FieldError
		if !errors.As(err, &fe) {
			t.Errorf("%s: expected *FieldError, got %v", tt.field, err)
			continue
		}
		if fe.Field != tt.field {
			t.Errorf("expected field %q, got %q", tt.field, fe.Field)
		}
	}

	req := validLead()
	req.InterestArea = ""
	if err := ValidateLead(req); err != nil {
		t.Errorf("empty interest area should be accepted: %v", err)
	}
}

func TestValidateRegistration(t *testing.T) {
	req := &models.RegisterRequest{Email: "ayse@example.com", Password: "Guclu123", Name: "Ayşe"}
	if err := ValidateRegistration(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Password = "weak"
	var fe *FieldError
	if err := ValidateRegistration(req); !errors.As(err, &fe) || fe.Field != "password" {
		t.Errorf("expected password field error, got %v", err)
	}
}
