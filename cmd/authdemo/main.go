// authdemo is a minimal console shell consuming the auth core: it restores a
// persisted session, signs in, registers, or signs out, standing in for the
// UI the module is designed to back.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"novare.app/internal/audit"
	"novare.app/internal/auth"
	"novare.app/internal/config"
	"novare.app/internal/kv"
	"novare.app/internal/obs"
)

var version = "0.3.1"

func main() {
	log.SetFlags(0)
	var (
		mode        = flag.String("mode", "whoami", "whoami | login | register | logout")
		username    = flag.String("username", "", "Username")
		password    = flag.String("password", "", "Password")
		companyCode = flag.String("code", "", "Company / invitation code")
		fullName    = flag.String("full-name", "", "Full name (register)")
		email       = flag.String("email", "", "Email (register)")
		phone       = flag.String("phone", "", "Phone (register, optional)")
		confirm     = flag.String("confirm-password", "", "Password confirmation (register)")
		strict      = flag.Bool("strict", false, "Verify passwords of registered users at login")
	)
	flag.Parse()

	obs.Init()
	obs.InitBuildInfo(version, "dev")

	cfg := config.Load()
	store, err := openStore(cfg.Store)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	registry := auth.NewRegistry(store)
	var authOpts []auth.AuthenticatorOption
	if *strict {
		authOpts = append(authOpts, auth.WithMatchPolicy(auth.MatchStrict))
	}
	authenticator, err := auth.NewAuthenticator(registry, authOpts...)
	if err != nil {
		log.Fatalf("build authenticator: %v", err)
	}
	sessions := auth.NewSessionManager(store)
	validator := auth.NewValidator(registry)
	flow := auth.NewFlowController(authenticator, sessions, validator, registry, consoleNavigator{})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ctx = audit.WithRequestID(ctx, uuid.NewString())

	switch *mode {
	case "whoami":
		sess, err := sessions.LoadSession(ctx)
		if err != nil {
			log.Fatalf("load session: %v", err)
		}
		if sess == nil {
			fmt.Println("not signed in")
			return
		}
		printProfile(sess.User)
		fmt.Printf("session expires at %s\n", sess.ExpiresAt.Format(time.RFC3339))
	case "login":
		profile, err := flow.SubmitLogin(ctx, *username, *password, *companyCode)
		if err != nil {
			log.Fatalf("login: %v", err)
		}
		_ = audit.LogEvent(auth.ContextWithProfile(ctx, profile), "auth.login.success", map[string]any{
			"role": string(profile.Role),
		})
	case "register":
		flow.RequestRegister()
		rec, err := flow.SubmitRegistration(ctx, auth.RegistrationForm{
			Username:        *username,
			Password:        *password,
			ConfirmPassword: *confirm,
			CompanyCode:     *companyCode,
			FullName:        *fullName,
			Email:           *email,
			Phone:           *phone,
		})
		if err != nil {
			log.Fatalf("register: %v", err)
		}
		_ = audit.LogEvent(ctx, "auth.registration.success", map[string]any{
			"username": rec.Username,
			"company":  rec.CompanyCode,
		})
		fmt.Println(flow.Message())
	case "logout":
		if err := sessions.Logout(ctx); err != nil {
			log.Fatalf("logout: %v", err)
		}
		_ = audit.LogEvent(ctx, "auth.logout", nil)
		fmt.Println("signed out")
	default:
		log.Fatalf("unknown mode %q", *mode)
	}
}

func openStore(cfg config.StoreConfig) (kv.Store, error) {
	switch cfg.Backend {
	case config.BackendPostgres:
		return kv.Open(cfg.PostgresDSN)
	case config.BackendRedis:
		return kv.OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

type consoleNavigator struct{}

func (consoleNavigator) OnAuthenticated(profile auth.UserProfile) {
	fmt.Printf("welcome %s (%s)\n", profile.Username, profile.Company)
}

func printProfile(profile auth.UserProfile) {
	fmt.Printf("%s @ %s role=%s\n", profile.Username, profile.Company, profile.Role)
	fmt.Printf("permissions: create=%t edit=%t delete=%t publish=%t viewAll=%t\n",
		profile.Permissions.Create,
		profile.Permissions.Edit,
		profile.Permissions.Delete,
		profile.Permissions.Publish,
		profile.Permissions.ViewAll,
	)
}
