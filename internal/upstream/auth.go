// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package upstream

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

// # Identity Types

// User mirrors the catalog backend's user resource.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// TokenResponse is the payload of a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// RegisterInput holds the fields for account creation.
type RegisterInput struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
}

// # Auth Endpoints

/*
Login exchanges credentials for a bearer token.

POST /auth/login (form-encoded, OAuth2 password flow: the username field
carries the account email).

Returns:
  - *TokenResponse: access token and token type
  - error: UNAUTHORIZED on bad credentials, transport failures otherwise
*/
func (c *Client) Login(ctx context.Context, username, password string) (*TokenResponse, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var token TokenResponse
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/login",
		formBody: form,
		want:     http.StatusOK,
	}, &token)
	if err != nil {
		return nil, err
	}

	return &token, nil
}

/*
Register creates a new account. It does not authenticate: the caller is
expected to log in afterwards.

POST /auth/register

Returns:
  - *User: the created account
  - error: VALIDATION_ERROR when the email is already registered
*/
func (c *Client) Register(ctx context.Context, input RegisterInput) (*User, error) {
	var user User
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/auth/register",
		jsonBody: input,
		want:     http.StatusCreated,
	}, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

/*
CurrentUser resolves the bearer token's account.

GET /auth/me

Returns:
  - *User: the authenticated profile
  - error: UNAUTHORIZED when the token is invalid or expired
*/
func (c *Client) CurrentUser(ctx context.Context, token string) (*User, error) {
	var user User
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/auth/me",
		token:  token,
		want:   http.StatusOK,
	}, &user)
	if err != nil {
		return nil, err
	}

	return &user, nil
}
