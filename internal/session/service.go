// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/sec"
	"github.com/litbooks/litbooks/internal/platform/validate"
	"github.com/litbooks/litbooks/internal/upstream"
	"github.com/litbooks/litbooks/pkg/uuid"
)

// AuthAPI defines the slice of the catalog client the session service needs.
type AuthAPI interface {
	// Login exchanges credentials for a catalog bearer token.
	Login(ctx context.Context, username, password string) (*upstream.TokenResponse, error)

	// Register creates a new catalog account.
	Register(ctx context.Context, input upstream.RegisterInput) (*upstream.User, error)

	// CurrentUser resolves a bearer token into its account.
	//
	// Returns [apperr.Unauthorized] when the token is invalid or expired.
	CurrentUser(ctx context.Context, token string) (*upstream.User, error)
}

// Service implements the session lifecycle: login, registration, lazy
// account bootstrap, and logout.
//
// # Review Process
//
// This service owns credential handling for the whole gateway. Any changes
// to token storage or session teardown must be reviewed by the security team.
type Service struct {
	api    AuthAPI
	repo   Repository
	flight singleflight.Group
	logger *slog.Logger
}

// NewService constructs a session Service with its dependencies.
func NewService(api AuthAPI, repo Repository, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		repo:   repo,
		logger: logger,
	}
}

// LoginInput holds the credentials submitted by the login form.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterInput holds the data submitted by the registration form.
type RegisterInput struct {
	FullName        string `json:"full_name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

/*
Login validates credentials locally, exchanges them upstream, and opens a
gateway session around the returned bearer token.

# Parameters
  - context: Context for the upstream call.
  - input: The submitted credentials. Username is the account email.

# Returns
  - The newly opened [*Session], account not yet populated.
  - Returns [apperr.ValidationError] before any network traffic if a field
    fails local validation, or the upstream error (e.g. [apperr.Unauthorized]
    for bad credentials) otherwise.
*/
func (service *Service) Login(context context.Context, input LoginInput) (*Session, error) {
	// ── 1. Local Validation ───────────────────────────────────────────────

	// The catalog authenticates by email; reject malformed input before it
	// costs a round trip.
	validator := &validate.Validator{}
	validator.
		Required("username", input.Username).
		Required("password", input.Password)
	if !validator.HasErrors() {
		validator.Email("username", input.Username)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// ── 2. Upstream Exchange ──────────────────────────────────────────────

	token, err := service.api.Login(context, input.Username, input.Password)
	if err != nil {
		return nil, err
	}

	// ── 3. Open the Session ───────────────────────────────────────────────

	session := newSession(token.AccessToken)
	if err := service.repo.Save(context, session); err != nil {
		return nil, apperr.Internal(err)
	}

	service.logger.Info("session opened", "session_id", session.ID, "expires_at", session.ExpiresAt)
	return session, nil
}

/*
Register validates and creates a new catalog account.

Registration never opens a session: the flow lands on the login page with a
confirmation message, and the user signs in explicitly.

# Parameters
  - context: Context for the upstream call.
  - input: The submitted registration details.

# Returns
  - The created [*upstream.User].
  - Returns [apperr.ValidationError] before any network traffic if a field
    fails local validation, or [apperr.Conflict] if the email is taken.
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*upstream.User, error) {
	// ── 1. Local Validation ───────────────────────────────────────────────

	validator := &validate.Validator{}
	if err := validator.
		Required("full_name", input.FullName).
		MaxLen("full_name", input.FullName, constants.MaxFullNameLen).
		Email("email", input.Email).
		Password("password", input.Password).
		Match("confirm_password", input.ConfirmPassword, input.Password).
		Err(); err != nil {
		return nil, err
	}

	// ── 2. Upstream Creation ──────────────────────────────────────────────

	user, err := service.api.Register(context, upstream.RegisterInput{
		Email:    input.Email,
		FullName: input.FullName,
		Password: input.Password,
	})
	if err != nil {
		return nil, err
	}

	service.logger.Info("account registered", "user_id", user.ID)
	return user, nil
}

/*
Resolve turns an opaque session id back into a live [Session], bootstrapping
the account from the catalog on first use.

# Parameters
  - context: Context for repository and upstream calls.
  - id: The opaque session id from the browser cookie.

# Returns
  - The resolved [*Session]. The account may still be nil when the catalog
    was unreachable; callers that need a role must treat that as unauthorized.
  - Returns [apperr.NotFound] for unknown/expired ids and
    [apperr.Unauthorized] when the stored token was rejected upstream.
*/
func (service *Service) Resolve(context context.Context, id string) (*Session, error) {

	// 1. Load the stored session
	session, err := service.repo.Find(context, id)
	if err != nil {
		return nil, err
	}

	// 2. Bootstrap the account when it has not been fetched yet
	if session.User == nil {
		if err := service.bootstrap(context, session); err != nil {

			// Only a rejected token ends the session. Every other failure,
			// including an unreachable catalog, is transient and must not
			// log everyone out: the session survives without an account,
			// and role checks fail closed until the catalog is back.
			if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusUnauthorized {
				return nil, err
			}

			service.logger.Warn("account bootstrap failed", "session_id", session.ID, "error", err)
		}
	}

	return session, nil
}

/*
CurrentUser returns the catalog account behind the session, fetching it on
first use.

# Returns
  - The [*upstream.User] backing the session.
  - Returns [apperr.Unauthorized] if the token was rejected upstream (the
    session is torn down as a side effect).
*/
func (service *Service) CurrentUser(context context.Context, session *Session) (*upstream.User, error) {

	// Already bootstrapped on a previous request
	if session.User != nil {
		return session.User, nil
	}

	if err := service.bootstrap(context, session); err != nil {
		return nil, err
	}

	return session.User, nil
}

/*
Logout closes the session. Closing an already-closed session succeeds.

The catalog has no logout endpoint; discarding the stored token is the
whole operation.
*/
func (service *Service) Logout(context context.Context, session *Session) error {
	if err := service.repo.Delete(context, session.ID); err != nil {
		return apperr.Internal(err)
	}

	service.logger.Info("session closed", "session_id", session.ID)
	return nil
}

// bootstrap fetches the account behind the session's token and persists it,
// so later requests skip the upstream call.
//
// Concurrent requests for the same session share a single upstream fetch.
// A rejected token tears the session down before reporting Unauthorized.
func (service *Service) bootstrap(outer context.Context, session *Session) error {

	result, err, _ := service.flight.Do(session.ID, func() (interface{}, error) {
		user, err := service.api.CurrentUser(outer, session.Token)
		if err != nil {

			// The catalog no longer honors this token. Keeping the session
			// would just replay a dead credential, so discard it.
			if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusUnauthorized {
				if delErr := service.repo.Delete(outer, session.ID); delErr != nil {
					service.logger.Error("session teardown failed", "session_id", session.ID, "error", delErr)
				}
				return nil, apperr.Unauthorized("Session is no longer valid")
			}
			return nil, err
		}

		return user, nil
	})
	if err != nil {
		return err
	}

	session.User = result.(*upstream.User)

	// Persist so the next request is served from the store
	if err := service.repo.Save(outer, session); err != nil {
		service.logger.Warn("session refresh failed", "session_id", session.ID, "error", err)
	}

	return nil
}

// newSession builds a session around a freshly issued bearer token.
//
// The session lives until the token's own exp claim or the configured
// maximum, whichever comes first. Tokens without a readable expiry get the
// configured maximum.
func newSession(token string) *Session {
	now := time.Now().UTC()

	expiresAt := now.Add(constants.DefaultSessionTTL)
	if tokenExpiry, err := sec.PeekExpiry(token); err == nil && !tokenExpiry.IsZero() && tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}

	return &Session{
		ID:        uuid.New(),
		Token:     token,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
}
