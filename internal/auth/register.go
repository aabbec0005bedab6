package auth

import (
	"regexp"
	"strings"
	"time"

	"novare.app/internal/ids"
)

// emailPattern accepts a single-@ address with a dotted domain.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Validator checks registration submissions field by field. Every rule is
// evaluated independently so the form can show all violations at once.
type Validator struct {
	registry *Registry
	now      func() time.Time
}

// ValidatorOption configures Validator behavior.
type ValidatorOption func(*Validator)

// WithValidatorClock injects the time source used for RegisteredAt.
func WithValidatorClock(now func() time.Time) ValidatorOption {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// NewValidator constructs a Validator over the given registry.
func NewValidator(registry *Registry, opts ...ValidatorOption) *Validator {
	v := &Validator{registry: registry, now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate returns the CredentialRecord for a valid form, or FieldErrors
// naming every violated field. The caller decides whether to persist the
// record via Registry.Add; no partial record is ever stored here.
func (v *Validator) Validate(form RegistrationForm) (CredentialRecord, error) {
	errs := FieldErrors{}

	switch {
	case strings.TrimSpace(form.Username) == "":
		errs["username"] = "username is required"
	case len(form.Username) < 3:
		errs["username"] = "username must be at least 3 characters"
	}

	switch {
	case form.Password == "":
		errs["password"] = "password is required"
	case len(form.Password) < 6:
		errs["password"] = "password must be at least 6 characters"
	}

	if form.ConfirmPassword != form.Password {
		errs["confirmPassword"] = "passwords do not match"
	}

	code := NormalizeCode(form.CompanyCode)
	switch {
	case code == "":
		errs["companyCode"] = "company code is required"
	case !v.registry.IsValidInvitationCode(code):
		errs["companyCode"] = "invalid invitation code"
	}

	if strings.TrimSpace(form.FullName) == "" {
		errs["fullName"] = "full name is required"
	}

	switch {
	case strings.TrimSpace(form.Email) == "":
		errs["email"] = "email is required"
	case !emailPattern.MatchString(form.Email):
		errs["email"] = "invalid email address"
	}

	// Phone is optional and unconstrained.

	if len(errs) > 0 {
		return CredentialRecord{}, errs
	}

	return CredentialRecord{
		ID:           ids.New(),
		Username:     form.Username,
		Password:     form.Password,
		CompanyCode:  code,
		FullName:     form.FullName,
		Email:        form.Email,
		Phone:        form.Phone,
		Role:         RoleAgent,
		RegisteredAt: v.now().UTC(),
	}, nil
}
