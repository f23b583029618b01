// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/middleware"
	"github.com/litbooks/litbooks/internal/session"
	"github.com/litbooks/litbooks/internal/upstream"
)

// stubResolver resolves a fixed session id to a fixed session.
type stubResolver struct {
	sessions map[string]*session.Session
}

func (s *stubResolver) Resolve(_ context.Context, id string) (*session.Session, error) {
	if sess, ok := s.sessions[id]; ok {
		return sess, nil
	}
	return nil, errors.New("not found")
}

func testSession(role string) *session.Session {
	return &session.Session{
		ID:        "sess-1",
		Token:     "tok",
		User:      &upstream.User{ID: 1, Role: role},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

// okHandler records whether the guard let the request through.
func okHandler(reached *bool) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		*reached = true
		writer.WriteHeader(http.StatusOK)
	})
}

func withSession(request *http.Request, sess *session.Session) *http.Request {
	return request.WithContext(session.NewContext(request.Context(), sess))
}

/*
TestResolveSession verifies the cookie is turned into a context session, and
a dead cookie is expired while the request proceeds anonymously.
*/
func TestResolveSession(t *testing.T) {
	resolver := &stubResolver{sessions: map[string]*session.Session{
		"sess-1": testSession("user"),
	}}

	var captured *session.Session
	inner := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		captured = session.FromContext(request.Context())
		writer.WriteHeader(http.StatusOK)
	})
	handler := middleware.ResolveSession(resolver)(inner)

	t.Run("valid_cookie", func(t *testing.T) {
		captured = nil
		request := httptest.NewRequest(http.MethodGet, "/books", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "sess-1"})

		handler.ServeHTTP(httptest.NewRecorder(), request)

		require.NotNil(t, captured)
		assert.Equal(t, "sess-1", captured.ID)
	})

	t.Run("no_cookie_is_anonymous", func(t *testing.T) {
		captured = nil
		request := httptest.NewRequest(http.MethodGet, "/books", nil)

		handler.ServeHTTP(httptest.NewRecorder(), request)

		assert.Nil(t, captured)
	})

	t.Run("dead_cookie_is_expired", func(t *testing.T) {
		captured = nil
		request := httptest.NewRequest(http.MethodGet, "/books", nil)
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: "gone"})
		recorder := httptest.NewRecorder()

		handler.ServeHTTP(recorder, request)

		assert.Nil(t, captured)
		cookies := recorder.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, constants.SessionCookieName, cookies[0].Name)
		assert.Negative(t, cookies[0].MaxAge)
	})
}

/*
TestRequireSession verifies anonymous navigations are redirected to the
login page while anonymous API verbs get 401.
*/
func TestRequireSession(t *testing.T) {
	t.Run("anonymous_get_redirects", func(t *testing.T) {
		var reached bool
		request := httptest.NewRequest(http.MethodGet, "/books", nil)
		recorder := httptest.NewRecorder()

		middleware.RequireSession(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.GuardLoginPath, recorder.Header().Get("Location"))
	})

	t.Run("anonymous_post_gets_401", func(t *testing.T) {
		var reached bool
		request := httptest.NewRequest(http.MethodPost, "/books", nil)
		recorder := httptest.NewRecorder()

		middleware.RequireSession(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("authenticated_passes", func(t *testing.T) {
		var reached bool
		request := withSession(httptest.NewRequest(http.MethodGet, "/books", nil), testSession("user"))
		recorder := httptest.NewRecorder()

		middleware.RequireSession(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.True(t, reached)
	})
}

/*
TestGuestOnly verifies signed-in users are bounced from guest pages to the
listing.
*/
func TestGuestOnly(t *testing.T) {
	t.Run("authenticated_get_redirects", func(t *testing.T) {
		var reached bool
		request := withSession(httptest.NewRequest(http.MethodGet, "/login", nil), testSession("user"))
		recorder := httptest.NewRecorder()

		middleware.GuestOnly(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.GuardListingPath, recorder.Header().Get("Location"))
	})

	t.Run("anonymous_passes", func(t *testing.T) {
		var reached bool
		request := httptest.NewRequest(http.MethodGet, "/login", nil)

		middleware.GuestOnly(okHandler(&reached)).ServeHTTP(httptest.NewRecorder(), request)

		assert.True(t, reached)
	})
}

/*
TestRequireRole verifies the role guard implies authentication and fails
closed for sessions without a bootstrapped account.
*/
func TestRequireRole(t *testing.T) {
	guard := middleware.RequireRole(session.RoleAdmin)

	t.Run("admin_passes", func(t *testing.T) {
		var reached bool
		request := withSession(httptest.NewRequest(http.MethodGet, "/books/mine", nil), testSession("admin"))

		guard(okHandler(&reached)).ServeHTTP(httptest.NewRecorder(), request)

		assert.True(t, reached)
	})

	t.Run("user_get_redirects_to_listing", func(t *testing.T) {
		var reached bool
		request := withSession(httptest.NewRequest(http.MethodGet, "/books/mine", nil), testSession("user"))
		recorder := httptest.NewRecorder()

		guard(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.GuardListingPath, recorder.Header().Get("Location"))
	})

	t.Run("user_delete_gets_403", func(t *testing.T) {
		var reached bool
		request := withSession(httptest.NewRequest(http.MethodDelete, "/books/mine", nil), testSession("user"))
		recorder := httptest.NewRecorder()

		guard(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("anonymous_redirects_to_login", func(t *testing.T) {
		var reached bool
		request := httptest.NewRequest(http.MethodGet, "/books/mine", nil)
		recorder := httptest.NewRecorder()

		guard(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusSeeOther, recorder.Code)
		assert.Equal(t, constants.GuardLoginPath, recorder.Header().Get("Location"))
	})

	t.Run("unbootstrapped_session_fails_closed", func(t *testing.T) {
		var reached bool
		bare := testSession("user")
		bare.User = nil
		request := withSession(httptest.NewRequest(http.MethodPost, "/books/mine", nil), bare)
		recorder := httptest.NewRecorder()

		guard(okHandler(&reached)).ServeHTTP(recorder, request)

		assert.False(t, reached)
		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})
}
