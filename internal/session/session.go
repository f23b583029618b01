// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package session implements gateway sessions on top of the catalog's token
authentication.

# Model

The catalog API issues short-lived bearer tokens. The browser never sees
them: on login the gateway stores the token server-side under an opaque
session id, and hands the browser only that id in an HttpOnly cookie. Every
later request resolves the cookie back into a [Session] and replays the
token upstream.
*/
package session

import (
	"context"
	"time"

	"github.com/litbooks/litbooks/internal/platform/ctxkey"
	"github.com/litbooks/litbooks/internal/upstream"
)

// # User Roles

// Role represents the authorization level granted to a catalog account.
type Role string

const (
	// Unrestricted catalog access, including cross-user book management
	RoleAdmin Role = "admin"

	// Default role for standard registered users
	RoleUser Role = "user"
)

// AtLeast checks if the current role meets or exceeds the required target role.
func (r Role) AtLeast(target Role) bool {
	return r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r Role) level() int {

	// Linear scale (10-20) allows for future intermediate roles
	switch r {
	case RoleAdmin:
		return 20
	case RoleUser:
		return 10
	default:
		return 0
	}
}

// # Session Entity

// Session is an authenticated browser's server-side state.
type Session struct {
	// ID is the opaque identifier handed to the browser in the cookie.
	ID string `json:"id"`

	// Token is the catalog bearer token. It is stored sealed at rest and
	// never serialized into responses.
	Token string `json:"-"`

	// User is the catalog account, populated lazily on the first request
	// that needs it. Nil until the bootstrap fetch has succeeded.
	User *upstream.User `json:"user,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Role returns the session's account role, or the empty role when the
// account has not been bootstrapped yet.
func (s *Session) Role() Role {
	if s.User == nil {
		return Role("")
	}
	return Role(s.User.Role)
}

// # Context Helpers

// NewContext returns a derived context carrying the resolved session.
func NewContext(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, session)
}

// FromContext extracts the resolved session from the context.
//
// Returns nil for anonymous requests.
func FromContext(ctx context.Context) *Session {
	session, ok := ctx.Value(ctxkey.KeySession).(*Session)
	if !ok {
		return nil
	}
	return session
}
