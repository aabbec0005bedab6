package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"novare.app/internal/obs"
)

// FlowState is the form currently shown by the unauthenticated-session UI.
type FlowState int

const (
	StateLoggingIn FlowState = iota
	StateRegistering
)

func (s FlowState) String() string {
	switch s {
	case StateLoggingIn:
		return "logging_in"
	case StateRegistering:
		return "registering"
	default:
		return "unknown"
	}
}

// ErrSubmissionInFlight rejects a submit while a previous one from the same
// controller has not finished.
var ErrSubmissionInFlight = errors.New("auth: submission already in flight")

// Navigator is the collaborator that moves the surrounding application into
// its authenticated area once login completes.
type Navigator interface {
	OnAuthenticated(profile UserProfile)
}

// FlowController sequences the login and register views. It starts in
// StateLoggingIn and has no terminal state; login success is reported to the
// Navigator, not modeled as a transition.
type FlowController struct {
	auth      *Authenticator
	sessions  *SessionManager
	validator *Validator
	registry  *Registry
	nav       Navigator

	mu         sync.Mutex
	state      FlowState
	message    string
	submitting bool
}

// NewFlowController wires the controller. nav may be nil when the shell has
// no navigation hook.
func NewFlowController(a *Authenticator, sessions *SessionManager, validator *Validator, registry *Registry, nav Navigator) *FlowController {
	return &FlowController{
		auth:      a,
		sessions:  sessions,
		validator: validator,
		registry:  registry,
		nav:       nav,
		state:     StateLoggingIn,
	}
}

// State returns the current view state.
func (c *FlowController) State() FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Message returns the one-shot message carried by the last transition.
func (c *FlowController) Message() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.message
}

// RequestRegister switches to the register view, clearing any carried
// message.
func (c *FlowController) RequestRegister() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateRegistering
	c.message = ""
}

// RequestBack returns to the login view, clearing any carried message.
func (c *FlowController) RequestBack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateLoggingIn
	c.message = ""
}

// RegistrationSucceeded returns to the login view carrying the one success
// message the register→login transition is allowed to set.
func (c *FlowController) RegistrationSucceeded(rec CredentialRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateLoggingIn
	c.message = fmt.Sprintf("Registration complete for %s. You can now sign in.", rec.FullName)
}

// SubmitLogin authenticates the triple, persists a session and hands the
// profile to the Navigator. The view state does not change; errors are
// returned for display.
func (c *FlowController) SubmitLogin(ctx context.Context, username, password, companyCode string) (UserProfile, error) {
	if !c.beginSubmit() {
		return UserProfile{}, ErrSubmissionInFlight
	}
	defer c.endSubmit()

	profile, err := c.auth.Authenticate(ctx, username, password, companyCode)
	if err != nil {
		obs.IncLogin("failure")
		obs.LogEvent(map[string]any{
			"level":    "info",
			"event":    "auth.login.failure",
			"username": username,
		})
		return UserProfile{}, err
	}
	if _, err := c.sessions.CreateSession(ctx, profile); err != nil {
		return UserProfile{}, err
	}
	obs.IncLogin("success")
	obs.LogEvent(map[string]any{
		"level":    "info",
		"event":    "auth.login.success",
		"username": profile.Username,
		"company":  profile.CompanyCode,
		"role":     string(profile.Role),
	})
	if c.nav != nil {
		c.nav.OnAuthenticated(profile)
	}
	return profile, nil
}

// SubmitRegistration validates the form, persists the record and performs
// the registration-success transition. On validation failure the state stays
// in Registering and no record is stored.
func (c *FlowController) SubmitRegistration(ctx context.Context, form RegistrationForm) (CredentialRecord, error) {
	if !c.beginSubmit() {
		return CredentialRecord{}, ErrSubmissionInFlight
	}
	defer c.endSubmit()

	rec, err := c.validator.Validate(form)
	if err != nil {
		obs.IncRegistration("invalid")
		return CredentialRecord{}, err
	}
	if err := c.registry.Add(ctx, rec); err != nil {
		return CredentialRecord{}, err
	}
	obs.IncRegistration("success")
	obs.LogEvent(map[string]any{
		"level":    "info",
		"event":    "auth.registration.success",
		"username": rec.Username,
		"company":  rec.CompanyCode,
	})
	c.RegistrationSucceeded(rec)
	return rec, nil
}

func (c *FlowController) beginSubmit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return false
	}
	c.submitting = true
	return true
}

func (c *FlowController) endSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
}
