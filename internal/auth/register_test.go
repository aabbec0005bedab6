package auth

import (
	"errors"
	"testing"
	"time"

	"novare.app/internal/kv"
)

func validForm() RegistrationForm {
	return RegistrationForm{
		Username:        "alice",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		CompanyCode:     "NOVARE2025",
		FullName:        "Alice Rossi",
		Email:           "alice@agenzia.it",
	}
}

func TestValidateAcceptsValidForm(t *testing.T) {
	registeredAt := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	v := NewValidator(NewRegistry(kv.NewMemory()),
		WithValidatorClock(func() time.Time { return registeredAt }))

	rec, err := v.Validate(validForm())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rec.Role != RoleAgent {
		t.Fatalf("new registrations must be agents, got %s", rec.Role)
	}
	if rec.CompanyCode != "NOVARE2025" {
		t.Fatalf("unexpected company code: %s", rec.CompanyCode)
	}
	if !rec.RegisteredAt.Equal(registeredAt) {
		t.Fatalf("unexpected RegisteredAt: %v", rec.RegisteredAt)
	}
	if rec.ID == "" {
		t.Fatalf("expected record ID")
	}
}

func TestValidateNormalizesCompanyCode(t *testing.T) {
	v := NewValidator(NewRegistry(kv.NewMemory()))
	form := validForm()
	form.CompanyCode = "  novare2025 "
	rec, err := v.Validate(form)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if rec.CompanyCode != "NOVARE2025" {
		t.Fatalf("code not normalized: %s", rec.CompanyCode)
	}
}

func TestValidateRejectsUnknownInvitationCode(t *testing.T) {
	v := NewValidator(NewRegistry(kv.NewMemory()))
	form := validForm()
	form.CompanyCode = "BOGUS"

	_, err := v.Validate(form)
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if _, ok := fieldErrs["companyCode"]; !ok {
		t.Fatalf("expected companyCode error, got %v", fieldErrs)
	}
	if len(fieldErrs) != 1 {
		t.Fatalf("expected only the companyCode violation, got %v", fieldErrs)
	}
}

func TestValidateReportsAllViolationsTogether(t *testing.T) {
	v := NewValidator(NewRegistry(kv.NewMemory()))

	_, err := v.Validate(RegistrationForm{
		Username:        "al",
		Password:        "short",
		ConfirmPassword: "different",
		CompanyCode:     "",
		FullName:        "",
		Email:           "not-an-email",
	})
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	for _, field := range []string{"username", "password", "confirmPassword", "companyCode", "fullName", "email"} {
		if _, ok := fieldErrs[field]; !ok {
			t.Fatalf("expected violation for %s, got %v", field, fieldErrs)
		}
	}
}

func TestValidateEmailRules(t *testing.T) {
	v := NewValidator(NewRegistry(kv.NewMemory()))

	for _, email := range []string{"alice@agenzia", "alice@@agenzia.it", "alice agenzia.it", "@agenzia.it"} {
		form := validForm()
		form.Email = email
		_, err := v.Validate(form)
		var fieldErrs FieldErrors
		if !errors.As(err, &fieldErrs) {
			t.Fatalf("expected FieldErrors for %q, got %v", email, err)
		}
		if _, ok := fieldErrs["email"]; !ok {
			t.Fatalf("expected email violation for %q", email)
		}
	}
}

func TestValidatePhoneIsOptional(t *testing.T) {
	v := NewValidator(NewRegistry(kv.NewMemory()))

	form := validForm()
	form.Phone = ""
	if _, err := v.Validate(form); err != nil {
		t.Fatalf("empty phone must be accepted: %v", err)
	}
	form.Phone = "+39 333 1234567"
	rec, err := v.Validate(form)
	if err != nil {
		t.Fatalf("phone must be unconstrained: %v", err)
	}
	if rec.Phone != "+39 333 1234567" {
		t.Fatalf("phone not carried: %s", rec.Phone)
	}
}
