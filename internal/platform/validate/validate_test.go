// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "title", "Litbooks", false},
		{"empty_string", "title", "", true},
		{"whitespace_only", "title", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Password walks the password policy: length first, then one
character-class complaint at a time.
*/
func TestValidator_Password(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		wantMessage string
	}{
		{"valid", "Sup3r$ecret", ""},
		{"too_short", "Ab1!x", "Password must be at least 8 characters long"},
		{"no_uppercase", "sup3r$ecret", "Password must contain at least one uppercase letter"},
		{"no_lowercase", "SUP3R$ECRET", "Password must contain at least one lowercase letter"},
		{"no_digit", "Super$ecret", "Password must contain at least one digit"},
		{"no_symbol", "Sup3rSecret", "Password must contain at least one special character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Password("password", tt.password)

			if tt.wantMessage == "" {
				assert.False(t, v.HasErrors())
				return
			}

			err := v.Err()
			require.NotNil(t, err)
			ae := apperr.As(err)
			require.NotNil(t, ae)
			require.Len(t, ae.Details, 1)
			assert.Equal(t, tt.wantMessage, ae.Details[0].Message)
		})
	}
}

/*
TestValidator_Match tests the password confirmation rule.
*/
func TestValidator_Match(t *testing.T) {
	v := &validate.Validator{}
	v.Match("confirm_password", "Sup3r$ecret", "Sup3r$ecret")
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.Match("confirm_password", "Different1!", "Sup3r$ecret")
	assert.True(t, v.HasErrors())
}

/*
TestValidator_URL checks the optional URL rule: empty passes, relative and
non-http schemes fail.
*/
func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"empty_passes", "", true},
		{"https", "https://covers.example.com/dune.jpg", true},
		{"http", "http://covers.example.com/dune.jpg", true},
		{"relative", "/covers/dune.jpg", false},
		{"ftp_scheme", "ftp://covers.example.com/dune.jpg", false},
		{"not_a_url", "::::", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.URL("image_url", tt.value)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("title", "Dune").
		MinLen("title", "Dune", 2).
		MaxLen("title", "Dune", 200).
		Email("email", "reader@litbooks.app").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_CollectsMultipleErrors verifies every failed rule lands in the
details list.
*/
func TestValidator_CollectsMultipleErrors(t *testing.T) {
	v := &validate.Validator{}
	err := v.
		Required("title", "").
		Required("author", "").
		Err()

	require.NotNil(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}
