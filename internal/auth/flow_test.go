package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"novare.app/internal/kv"
)

type recordingNavigator struct {
	profiles []UserProfile
}

func (n *recordingNavigator) OnAuthenticated(profile UserProfile) {
	n.profiles = append(n.profiles, profile)
}

func newTestFlow(t *testing.T, nav Navigator) (*FlowController, kv.Store) {
	t.Helper()
	store := kv.NewMemory()
	registry := NewRegistry(store)
	a, err := NewAuthenticator(registry)
	if err != nil {
		t.Fatalf("NewAuthenticator: %v", err)
	}
	sessions := NewSessionManager(store)
	validator := NewValidator(registry)
	return NewFlowController(a, sessions, validator, registry, nav), store
}

func TestFlowStartsLoggingIn(t *testing.T) {
	flow, _ := newTestFlow(t, nil)
	if flow.State() != StateLoggingIn {
		t.Fatalf("initial state must be LoggingIn, got %s", flow.State())
	}
	if flow.Message() != "" {
		t.Fatalf("unexpected initial message: %q", flow.Message())
	}
}

func TestFlowTransitionsClearMessage(t *testing.T) {
	flow, _ := newTestFlow(t, nil)

	flow.RequestRegister()
	if flow.State() != StateRegistering || flow.Message() != "" {
		t.Fatalf("unexpected state after RequestRegister: %s / %q", flow.State(), flow.Message())
	}

	flow.RequestBack()
	if flow.State() != StateLoggingIn || flow.Message() != "" {
		t.Fatalf("unexpected state after RequestBack: %s / %q", flow.State(), flow.Message())
	}
}

func TestRegistrationSucceededCarriesMessage(t *testing.T) {
	flow, _ := newTestFlow(t, nil)
	flow.RequestRegister()

	flow.RegistrationSucceeded(CredentialRecord{FullName: "Alice Rossi"})
	if flow.State() != StateLoggingIn {
		t.Fatalf("expected return to LoggingIn, got %s", flow.State())
	}
	if !strings.Contains(flow.Message(), "Alice Rossi") {
		t.Fatalf("carried message must reference the full name: %q", flow.Message())
	}

	// The message is one-shot: the next transition clears it.
	flow.RequestRegister()
	if flow.Message() != "" {
		t.Fatalf("message must be cleared on the next transition: %q", flow.Message())
	}
}

func TestSubmitRegistrationPersistsAndTransitions(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(t, nil)
	flow.RequestRegister()

	rec, err := flow.SubmitRegistration(ctx, RegistrationForm{
		Username:        "alice",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		CompanyCode:     "NOVARE2025",
		FullName:        "Alice Rossi",
		Email:           "alice@agenzia.it",
	})
	if err != nil {
		t.Fatalf("SubmitRegistration: %v", err)
	}
	if rec.Role != RoleAgent {
		t.Fatalf("unexpected role: %s", rec.Role)
	}
	if flow.State() != StateLoggingIn || !strings.Contains(flow.Message(), "Alice Rossi") {
		t.Fatalf("expected success transition, got %s / %q", flow.State(), flow.Message())
	}

	// The registered user can sign in right away.
	profile, err := flow.SubmitLogin(ctx, "alice", "secret1", "NOVARE2025")
	if err != nil {
		t.Fatalf("SubmitLogin after registration: %v", err)
	}
	if profile.FullName != "Alice Rossi" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestSubmitRegistrationInvalidFormDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	flow, store := newTestFlow(t, nil)
	flow.RequestRegister()

	form := RegistrationForm{
		Username:        "alice",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		CompanyCode:     "BOGUS",
		FullName:        "Alice Rossi",
		Email:           "alice@agenzia.it",
	}
	_, err := flow.SubmitRegistration(ctx, form)
	var fieldErrs FieldErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("expected FieldErrors, got %v", err)
	}
	if flow.State() != StateRegistering {
		t.Fatalf("validation failure must not leave the register view")
	}
	if _, err := store.Get(ctx, "registered_users"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("no record may be persisted on validation failure, got %v", err)
	}
}

func TestSubmitLoginCreatesSessionAndNavigates(t *testing.T) {
	ctx := context.Background()
	nav := &recordingNavigator{}
	flow, store := newTestFlow(t, nav)

	profile, err := flow.SubmitLogin(ctx, "admin", "ddd", "NOVARE2025")
	if err != nil {
		t.Fatalf("SubmitLogin: %v", err)
	}
	if profile.Role != RoleAdmin {
		t.Fatalf("unexpected role: %s", profile.Role)
	}
	if len(nav.profiles) != 1 || nav.profiles[0].Username != "admin" {
		t.Fatalf("navigator not invoked with the profile: %+v", nav.profiles)
	}
	// Login success is not a state transition.
	if flow.State() != StateLoggingIn {
		t.Fatalf("login must not change the view state")
	}
	if _, err := store.Get(ctx, "auth_session"); err != nil {
		t.Fatalf("expected persisted session: %v", err)
	}
}

func TestSubmitLoginFailureDoesNotNavigate(t *testing.T) {
	ctx := context.Background()
	nav := &recordingNavigator{}
	flow, store := newTestFlow(t, nav)

	_, err := flow.SubmitLogin(ctx, "admin", "wrong", "NOVARE2025")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(nav.profiles) != 0 {
		t.Fatalf("navigator must not run on failure")
	}
	if _, err := store.Get(ctx, "auth_session"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("no session may be persisted on failure, got %v", err)
	}
}

func TestSubmitGuardRejectsConcurrentSubmission(t *testing.T) {
	ctx := context.Background()
	flow, _ := newTestFlow(t, nil)

	if !flow.beginSubmit() {
		t.Fatalf("first submit must be admitted")
	}
	if _, err := flow.SubmitLogin(ctx, "admin", "ddd", "NOVARE2025"); !errors.Is(err, ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	flow.endSubmit()

	if _, err := flow.SubmitLogin(ctx, "admin", "ddd", "NOVARE2025"); err != nil {
		t.Fatalf("submit after release: %v", err)
	}
}
