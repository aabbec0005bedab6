package auth

import (
	"context"
	"errors"
)

// MatchPolicy selects how registered-user logins treat the submitted
// password.
type MatchPolicy int

const (
	// MatchLenient accepts a username plus company-code match without
	// comparing the password. This is the shipped default.
	MatchLenient MatchPolicy = iota
	// MatchStrict additionally verifies the password through the configured
	// PasswordVerifier.
	MatchStrict
)

// operatorAccount is the built-in operator. It is configuration, not a
// registry record: it is checked before any registry lookup and cannot be
// registered over.
var operatorAccount = struct {
	Username string
	Password string
	Company  string
	FullName string
	Codes    []string
}{
	Username: "admin",
	Password: "ddd",
	Company:  "NovaRe Immobiliare",
	FullName: "Amministratore",
	Codes:    []string{"NOVARE2025", "NUOVARE-SECRET-2025"},
}

// Authenticator verifies a (username, password, companyCode) triple against
// the operator account and the credential registry.
type Authenticator struct {
	registry *Registry
	policy   MatchPolicy
	verifier PasswordVerifier
}

// AuthenticatorOption configures Authenticator behavior.
type AuthenticatorOption func(*Authenticator)

// WithMatchPolicy overrides the default lenient matching of registered users.
func WithMatchPolicy(policy MatchPolicy) AuthenticatorOption {
	return func(a *Authenticator) { a.policy = policy }
}

// WithPasswordVerifier swaps the password comparison scheme used under
// MatchStrict.
func WithPasswordVerifier(v PasswordVerifier) AuthenticatorOption {
	return func(a *Authenticator) {
		if v != nil {
			a.verifier = v
		}
	}
}

// NewAuthenticator constructs an Authenticator over the given registry.
func NewAuthenticator(registry *Registry, opts ...AuthenticatorOption) (*Authenticator, error) {
	if registry == nil {
		return nil, errors.New("auth: registry is required")
	}
	a := &Authenticator{
		registry: registry,
		policy:   MatchLenient,
		verifier: PlaintextVerifier{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authenticate checks the triple in order: operator account first, then the
// registry. First match wins; anything else is ErrInvalidCredentials.
func (a *Authenticator) Authenticate(ctx context.Context, username, password, companyCode string) (UserProfile, error) {
	code := NormalizeCode(companyCode)

	if username == operatorAccount.Username && password == operatorAccount.Password {
		for _, c := range operatorAccount.Codes {
			if c == code {
				return UserProfile{
					Username:    operatorAccount.Username,
					CompanyCode: code,
					FullName:    operatorAccount.FullName,
					Role:        RoleAdmin,
					Company:     operatorAccount.Company,
					Permissions: ResolvePermissions(RoleAdmin),
				}, nil
			}
		}
	}

	rec, err := a.registry.FindByUsernameAndCompany(ctx, username, code)
	if err != nil {
		return UserProfile{}, ErrInvalidCredentials
	}
	if a.policy == MatchStrict {
		if err := a.verifier.Verify(rec.Password, password); err != nil {
			return UserProfile{}, ErrInvalidCredentials
		}
	}
	return UserProfile{
		Username:    rec.Username,
		CompanyCode: rec.CompanyCode,
		FullName:    rec.FullName,
		Email:       rec.Email,
		Phone:       rec.Phone,
		Role:        rec.Role,
		Company:     a.registry.CompanyName(rec.CompanyCode),
		Permissions: ResolvePermissions(rec.Role),
	}, nil
}
