package auth

import (
	"context"
	"errors"
	"testing"

	"novare.app/internal/kv"
)

func TestIsValidInvitationCode(t *testing.T) {
	registry := NewRegistry(kv.NewMemory())

	for _, code := range []string{"NOVARE2025", "novare2025", "  NovaRe2025  ", "NUOVARE-SECRET-2025"} {
		if !registry.IsValidInvitationCode(code) {
			t.Fatalf("expected %q to be accepted", code)
		}
	}
	if registry.IsValidInvitationCode("BOGUS") {
		t.Fatalf("unexpected acceptance of BOGUS")
	}
	if registry.IsValidInvitationCode("") {
		t.Fatalf("unexpected acceptance of empty code")
	}
}

func TestCompanyNameFallsBackToCode(t *testing.T) {
	registry := NewRegistry(kv.NewMemory())
	if got := registry.CompanyName("novare2025"); got != "NovaRe Immobiliare" {
		t.Fatalf("unexpected company name: %s", got)
	}
	// Records outlive allowlist changes; unknown codes keep their raw value.
	if got := registry.CompanyName("RETIRED01"); got != "RETIRED01" {
		t.Fatalf("unexpected fallback: %s", got)
	}
}

func TestFindByUsernameAndCompany(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(kv.NewMemory())

	rec := CredentialRecord{
		Username:    "bob",
		Password:    "hunter22",
		CompanyCode: "AGENCY001",
		FullName:    "Bob Bianchi",
		Email:       "bob@agenzia.it",
		Role:        RoleAgent,
	}
	if err := registry.Add(ctx, rec); err != nil {
		t.Fatalf("Add: %v", err)
	}

	found, err := registry.FindByUsernameAndCompany(ctx, "bob", "agency001")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.FullName != "Bob Bianchi" {
		t.Fatalf("unexpected record: %+v", found)
	}
	if found.ID == "" {
		t.Fatalf("expected record ID to be stamped on Add")
	}

	// Username matching is exact and case-sensitive.
	if _, err := registry.FindByUsernameAndCompany(ctx, "Bob", "AGENCY001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for case-mismatched username, got %v", err)
	}
	if _, err := registry.FindByUsernameAndCompany(ctx, "bob", "OTHERCO"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong company, got %v", err)
	}
}

func TestAddAllowsDuplicateUsernames(t *testing.T) {
	ctx := context.Background()
	registry := NewRegistry(kv.NewMemory())

	first := CredentialRecord{Username: "carla", Password: "first1", CompanyCode: "NOVARE2025", FullName: "Carla Uno"}
	second := CredentialRecord{Username: "carla", Password: "second", CompanyCode: "NOVARE2025", FullName: "Carla Due"}
	if err := registry.Add(ctx, first); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := registry.Add(ctx, second); err != nil {
		t.Fatalf("duplicate Add must not be rejected: %v", err)
	}

	// The earliest registration wins at lookup time.
	found, err := registry.FindByUsernameAndCompany(ctx, "carla", "NOVARE2025")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if found.FullName != "Carla Uno" {
		t.Fatalf("expected first record to win, got %+v", found)
	}
}

func TestLookupFailsOpenOnCorruptRegistry(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	if err := store.Set(ctx, "registered_users", []byte("{not json")); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	registry := NewRegistry(store)

	if _, err := registry.FindByUsernameAndCompany(ctx, "bob", "AGENCY001"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("corrupt registry must read as empty, got %v", err)
	}
	// Writes must not proceed on top of a misread.
	if err := registry.Add(ctx, CredentialRecord{Username: "bob", CompanyCode: "AGENCY001"}); err == nil {
		t.Fatalf("expected Add to surface the corrupt read")
	}
}
