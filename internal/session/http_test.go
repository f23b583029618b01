// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/middleware"
	"github.com/litbooks/litbooks/internal/session"
)

/*
TestHandler_LoginSetsCookie verifies a successful login answers with the
HttpOnly session cookie.
*/
func TestHandler_LoginSetsCookie(t *testing.T) {
	api := &fakeAuth{loginToken: "issued-token"}
	service, _ := newTestService(api)
	handler := session.NewHandler(service, false)

	body := `{"username":"reader@example.com","password":"Sup3r$ecret"}`
	request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	recorder := httptest.NewRecorder()

	handler.Routes(middleware.GuestOnly).ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, constants.SessionCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.NotEqual(t, "issued-token", cookie.Value, "the bearer token never reaches the browser")
}

/*
TestHandler_LoginRejectsAuthenticated verifies the mounted guest guard
blocks signed-in callers before the login handler runs.
*/
func TestHandler_LoginRejectsAuthenticated(t *testing.T) {
	api := &fakeAuth{loginToken: "issued-token"}
	service, _ := newTestService(api)
	handler := session.NewHandler(service, false)

	body := `{"username":"reader@example.com","password":"Sup3r$ecret"}`
	request := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	request = request.WithContext(session.NewContext(request.Context(), &session.Session{ID: "s", Token: "t"}))
	recorder := httptest.NewRecorder()

	handler.Routes(middleware.GuestOnly).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Zero(t, api.loginCalls.Load())
}

/*
TestHandler_LogoutClearsCookie verifies logout destroys the session and
expires the cookie.
*/
func TestHandler_LogoutClearsCookie(t *testing.T) {
	api := &fakeAuth{loginToken: "issued-token"}
	service, repo := newTestService(api)
	handler := session.NewHandler(service, false)

	sess, err := service.Login(context.Background(), session.LoginInput{
		Username: "reader@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodPost, "/logout", nil)
	request = request.WithContext(session.NewContext(request.Context(), sess))
	recorder := httptest.NewRecorder()

	handler.Routes(middleware.GuestOnly).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusNoContent, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)

	_, err = repo.Find(context.Background(), sess.ID)
	require.Error(t, err)
}

/*
TestHandler_MeRequiresSession verifies anonymous calls to /me get 401.
*/
func TestHandler_MeRequiresSession(t *testing.T) {
	api := &fakeAuth{}
	service, _ := newTestService(api)
	handler := session.NewHandler(service, false)

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	recorder := httptest.NewRecorder()

	handler.Routes(middleware.GuestOnly).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_MeKeepsCookieOnOutage verifies an unreachable catalog surfaces
as an error without invalidating the browser's cookie.
*/
func TestHandler_MeKeepsCookieOnOutage(t *testing.T) {
	api := &fakeAuth{
		loginToken: "tok",
		currentErr: apperr.ServiceUnavailable("Unable to reach the catalog service", nil),
	}
	service, repo := newTestService(api)
	handler := session.NewHandler(service, false)

	sess, err := service.Login(context.Background(), session.LoginInput{
		Username: "reader@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request = request.WithContext(session.NewContext(request.Context(), sess))
	recorder := httptest.NewRecorder()

	handler.Routes(middleware.GuestOnly).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Empty(t, recorder.Result().Cookies(), "the cookie must survive a catalog outage")

	_, err = repo.Find(context.Background(), sess.ID)
	assert.NoError(t, err)
}

/*
TestHandler_MeClearsCookieOnDeadToken verifies a token rejected upstream
expires the browser's cookie along with the session.
*/
func TestHandler_MeClearsCookieOnDeadToken(t *testing.T) {
	api := &fakeAuth{
		loginToken: "tok",
		currentErr: apperr.Unauthorized("Could not validate credentials"),
	}
	service, repo := newTestService(api)
	handler := session.NewHandler(service, false)

	sess, err := service.Login(context.Background(), session.LoginInput{
		Username: "reader@example.com",
		Password: "Sup3r$ecret",
	})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request = request.WithContext(session.NewContext(request.Context(), sess))
	recorder := httptest.NewRecorder()

	handler.Routes(middleware.GuestOnly).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Negative(t, cookies[0].MaxAge)

	_, err = repo.Find(context.Background(), sess.ID)
	require.Error(t, err)
}
