package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"novare.app/internal/ids"
	"novare.app/internal/kv"
	"novare.app/internal/obs"
)

// registryKey is the store key holding the serialized credential records.
const registryKey = "registered_users"

// InvitationCode gates registration for one agency and carries its display
// name. The allowlist is configuration data, not user-editable at runtime;
// changing it never retroactively invalidates existing records.
type InvitationCode struct {
	Code    string
	Company string
}

// DefaultInvitationCodes is the allowlist shipped with the module.
var DefaultInvitationCodes = []InvitationCode{
	{Code: "NOVARE2025", Company: "NovaRe Immobiliare"},
	{Code: "NUOVARE-SECRET-2025", Company: "NovaRe Immobiliare"},
	{Code: "AGENCY001", Company: "Agenzia Partner"},
}

// Registry holds the invitation-code allowlist and the registered credential
// records, persisted as a single JSON array in the key-value store. Records
// are append-only; no uniqueness is enforced on usernames.
type Registry struct {
	store kv.Store
	codes []InvitationCode
}

// RegistryOption configures Registry behavior.
type RegistryOption func(*Registry)

// WithInvitationCodes replaces the default allowlist.
func WithInvitationCodes(codes []InvitationCode) RegistryOption {
	return func(r *Registry) {
		if len(codes) > 0 {
			r.codes = codes
		}
	}
}

// NewRegistry constructs a Registry over the given store.
func NewRegistry(store kv.Store, opts ...RegistryOption) *Registry {
	r := &Registry{store: store, codes: DefaultInvitationCodes}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NormalizeCode uppercases and trims an invitation/company code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// IsValidInvitationCode reports whether the normalized code is on the
// allowlist.
func (r *Registry) IsValidInvitationCode(code string) bool {
	code = NormalizeCode(code)
	for _, c := range r.codes {
		if c.Code == code {
			return true
		}
	}
	return false
}

// CompanyName resolves a company code to its display name. Codes no longer
// on the allowlist fall back to the raw code, since records outlive allowlist
// changes.
func (r *Registry) CompanyName(code string) string {
	code = NormalizeCode(code)
	for _, c := range r.codes {
		if c.Code == code {
			return c.Company
		}
	}
	return code
}

// FindByUsernameAndCompany returns the first record matching the username
// exactly (case-sensitive) and the normalized company code. Storage failures
// fail open to "no match": authentication must degrade to logged-out, never
// to logged-in.
func (r *Registry) FindByUsernameAndCompany(ctx context.Context, username, companyCode string) (*CredentialRecord, error) {
	companyCode = NormalizeCode(companyCode)
	for _, rec := range r.readOpen(ctx) {
		if rec.Username == username && rec.CompanyCode == companyCode {
			found := rec
			return &found, nil
		}
	}
	return nil, ErrNotFound
}

// Add appends the record to the registry. Unlike the lookup path, a failed
// or unparsable read here is surfaced instead of treated as empty: saving on
// top of a misread would silently drop existing registrations.
func (r *Registry) Add(ctx context.Context, rec CredentialRecord) error {
	records, err := r.read(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	rec.CompanyCode = NormalizeCode(rec.CompanyCode)
	records = append(records, rec)

	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := r.store.Set(ctx, registryKey, data); err != nil {
		return fmt.Errorf("save registry: %w", err)
	}
	return nil
}

// read loads the stored records, treating only an absent key as empty.
func (r *Registry) read(ctx context.Context) ([]CredentialRecord, error) {
	data, err := r.store.Get(ctx, registryKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var records []CredentialRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// readOpen loads the stored records, failing open to an empty registry on
// any storage or decode error.
func (r *Registry) readOpen(ctx context.Context) []CredentialRecord {
	records, err := r.read(ctx)
	if err != nil {
		obs.LogEvent(map[string]any{
			"level": "warn",
			"msg":   "credential registry unreadable, treating as empty",
			"error": err.Error(),
		})
		return nil
	}
	return records
}
