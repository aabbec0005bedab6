package auth

import "time"

// Role classifies an account. New registrations always receive RoleAgent;
// RoleAdmin is reserved for the built-in operator account.
type Role string

const (
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// PermissionSet is the fixed, role-determined bundle of capability flags.
type PermissionSet struct {
	Create  bool `json:"create"`
	Edit    bool `json:"edit"`
	Delete  bool `json:"delete"`
	Publish bool `json:"publish"`
	ViewAll bool `json:"viewAll"`
}

// CredentialRecord is one registered user as stored in the registry.
// Records are append-only: created at registration, never mutated or deleted.
type CredentialRecord struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	CompanyCode  string    `json:"companyCode"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// UserProfile is the authenticated identity carried after a successful login.
// Immutable once built; embedded by value inside a Session.
type UserProfile struct {
	Username    string        `json:"username"`
	CompanyCode string        `json:"companyCode"`
	FullName    string        `json:"fullName,omitempty"`
	Email       string        `json:"email,omitempty"`
	Phone       string        `json:"phone,omitempty"`
	Role        Role          `json:"role"`
	Company     string        `json:"company"`
	Permissions PermissionSet `json:"permissions"`
}

// Session is a time-boxed proof of prior authentication. Liveness is decided
// purely from ExpiresAt at load time; the ID is diagnostic.
type Session struct {
	ID        string      `json:"id"`
	User      UserProfile `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
}

// RegistrationForm carries the raw field values of a registration submission.
type RegistrationForm struct {
	Username        string
	Password        string
	ConfirmPassword string
	CompanyCode     string
	FullName        string
	Email           string
	Phone           string
}
