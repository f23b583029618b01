// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

// Route guards for the Litbooks gateway.
//
// # Architecture
//
// All route-level access policy lives here, in one place, instead of being
// scattered across handlers. [ResolveSession] turns the browser cookie into
// a context session once per request; the guards below then only inspect
// the context.
//
// Navigations (GET/HEAD) are redirected the way the app's router would move
// the user; API verbs get JSON errors.

package middleware

import (
	"context"
	"net/http"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/ctxutil"
	"github.com/litbooks/litbooks/internal/platform/respond"
	"github.com/litbooks/litbooks/internal/session"
)

// SessionResolver defines the interface needed to resolve session cookies.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the `session`
// service implementation, allowing us to easily inject mocks during unit
// testing.
type SessionResolver interface {
	Resolve(ctx context.Context, id string) (*session.Session, error)
}

// ResolveSession reads the session cookie and loads the matching session
// into the request context.
//
// # Flow
//  1. Check for the session cookie.
//  2. If absent, request proceeds as anonymous.
//  3. If present, resolve via the session service (which may bootstrap the
//     account from the catalog).
//  4. On resolution failure the dead cookie is expired and the request
//     proceeds as anonymous; the guards below decide what that means.
func ResolveSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Anonymous Access ───────────────────────────────────────────
			cookie, err := request.Cookie(constants.SessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			sess, err := resolver.Resolve(request.Context(), cookie.Value)
			if err != nil {

				// The cookie points at nothing; stop the browser replaying it
				expireCookie(writer)
				ctxutil.GetLogger(request.Context()).Debug("session cookie rejected", "error", err)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := session.NewContext(request.Context(), sess)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks anonymous requests.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveSession].
//
// Navigations are sent to the login page; API verbs get HTTP 401.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if session.FromContext(request.Context()) == nil {
			deny(writer, request, constants.GuardLoginPath, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// GuestOnly blocks authenticated requests, for login and registration pages.
//
// Navigations are sent to the listing page; API verbs get HTTP 403.
func GuestOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if session.FromContext(request.Context()) != nil {
			deny(writer, request, constants.GuardListingPath, apperr.Forbidden("Already signed in"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose session role is below the target role.
//
// # Usage
//
// Must be registered in the router AFTER [ResolveSession]. It automatically
// implies [RequireSession] so you don't need to mount both.
//
// A session whose account bootstrap has not succeeded has no role and fails
// closed. Underprivileged navigations are sent back to the listing page;
// API verbs get HTTP 403.
func RequireRole(role session.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sess := session.FromContext(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if sess == nil {
				deny(writer, request, constants.GuardLoginPath, apperr.Unauthorized("Authentication required"))
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if !sess.Role().AtLeast(role) {
				deny(writer, request, constants.GuardListingPath, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// deny rejects a request: navigations are redirected where the app's router
// would send the user, API verbs get the JSON error.
func deny(writer http.ResponseWriter, request *http.Request, redirectPath string, apiErr error) {
	if request.Method == http.MethodGet || request.Method == http.MethodHead {
		http.Redirect(writer, request, redirectPath, http.StatusSeeOther)
		return
	}
	respond.Error(writer, request, apiErr)
}

// expireCookie clears a session cookie that no longer resolves.
func expireCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
	})
}
