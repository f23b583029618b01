// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package session

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/constants"
	requestutil "github.com/litbooks/litbooks/internal/platform/request"
	"github.com/litbooks/litbooks/internal/platform/respond"
)

// Handler implements the session lifecycle HTTP endpoints.
//
// # Scope
//
// Everything related to signing in and out lives here: credential exchange,
// registration, the session cookie, and the current-account endpoint. The
// guest guard is injected into [Handler.Routes] by the caller; logout and me
// answer anonymous callers with 401 directly, since the session guard's
// navigation redirect has no meaning for these endpoints.
type Handler struct {
	service *Service

	// secureCookies marks the session cookie Secure. Disabled only for
	// plain-HTTP local development.
	secureCookies bool
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, secureCookies bool) *Handler {
	return &Handler{service: service, secureCookies: secureCookies}
}

// Routes returns a [chi.Router] configured with session lifecycle routes.
//
// The sign-in and registration routes are wrapped in the guestOnly guard
// passed by the caller. The guard lives in the middleware package, which
// depends on this one for the context session, so it is injected here
// instead of imported.
//
// # Endpoints
//   - POST /login    : Exchanges credentials for a session cookie.
//   - POST /register : Creates a new account (no session).
//   - POST /logout   : Closes the session and clears the cookie.
//   - GET  /me       : Returns the account behind the session.
func (handler *Handler) Routes(guestOnly func(http.Handler) http.Handler) chi.Router {
	router := chi.NewRouter()

	router.Group(func(guest chi.Router) {
		guest.Use(guestOnly)
		guest.Post("/login", handler.login)
		guest.Post("/register", handler.register)
	})

	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	return router
}

// login handles POST /api/v1/session/login requests.
//
// # Returns
//   - Writes HTTP 200 OK with the session metadata and sets the cookie.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 401 Unauthorized for rejected credentials.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	// ── 1. Payload Extraction ─────────────────────────────────────────────

	var input LoginInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────

	session, err := handler.service.Login(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Cookie Issuance ────────────────────────────────────────────────

	handler.setCookie(writer, session)

	respond.OK(writer, map[string]any{
		"message":    "Signed in",
		"expires_at": session.ExpiresAt,
	})
}

// register handles POST /api/v1/session/register requests.
//
// Registration deliberately does not open a session; the client is expected
// to navigate to the login form and sign in with the new credentials.
//
// # Returns
//   - Writes HTTP 201 Created with the new account and a confirmation message.
//   - Writes HTTP 400 Bad Request if validation rules fail.
//   - Writes HTTP 409 Conflict if the email is already registered.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {

	var input RegisterInput
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.service.Register(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, map[string]any{
		"user":    user,
		"message": "Account created. Please sign in.",
	})
}

// logout handles POST /api/v1/session/logout requests.
//
// # Returns
//   - Writes HTTP 204 No Content and expires the cookie.
//   - Writes HTTP 401 Unauthorized for anonymous callers.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {

	session := FromContext(request.Context())
	if session == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	if err := handler.service.Logout(request.Context(), session); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.clearCookie(writer)
	respond.NoContent(writer)
}

// me handles GET /api/v1/session/me requests.
//
// # Returns
//   - Writes HTTP 200 OK with the catalog account behind the session.
//   - Writes HTTP 401 Unauthorized for anonymous callers or dead tokens.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {

	session := FromContext(request.Context())
	if session == nil {
		respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), session)
	if err != nil {
		// A dead token makes the browser's cookie useless too. Any other
		// failure is transient and the cookie must survive it.
		if appErr := apperr.As(err); appErr != nil && appErr.HTTPStatus == http.StatusUnauthorized {
			handler.clearCookie(writer)
		}
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// # Cookie Management

// setCookie hands the browser the opaque session id. HttpOnly keeps it out
// of script reach entirely.
func (handler *Handler) setCookie(writer http.ResponseWriter, session *Session) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.ID,
		Path:     constants.SessionCookiePath,
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearCookie expires the session cookie immediately.
func (handler *Handler) clearCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
