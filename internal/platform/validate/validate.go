// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

// Package validate provides a chainable Validator that collects field-level
// errors before returning a single [apperr.AppError].
//
// # Architecture
//
// This package is used exclusively in the service layer — never in handlers or
// the upstream client. It mirrors the catalog backend's own rules so malformed
// input is rejected before it ever reaches the network.
package validate

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/litbooks/litbooks/internal/platform/apperr"
)

// passwordSymbols is the fixed punctuation set the catalog backend accepts
// for the "at least one symbol" password rule.
const passwordSymbols = `!@#$%^&*(),.?":{}|<>`

// ErrInvalidJSON is returned when the request body cannot be decoded.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

// Validator collects field-level validation errors via a fluent, chainable API.
//
// # Concurrency
//
// Validator is not safe for concurrent use. A new instance must be created
// for every request/operation.
type Validator struct {
	errs []apperr.FieldError
}

// Required fails if the trimmed value is empty.
func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.add(field, "This field is required")
	}
	return v
}

// MaxLen fails if the Unicode character count exceeds max.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	if utf8.RuneCountInString(value) > max {
		v.add(field, fmt.Sprintf("Maximum %d characters", max))
	}
	return v
}

// MinLen fails if the Unicode character count is below min.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	if utf8.RuneCountInString(value) < min {
		v.add(field, fmt.Sprintf("Minimum %d characters", min))
	}
	return v
}

// Email fails if the value is not a valid RFC 5322 email address.
func (v *Validator) Email(field, value string) *Validator {
	if _, err := mail.ParseAddress(value); err != nil {
		v.add(field, "Must be a valid email address")
	}
	return v
}

// URL fails if the non-empty value is not a well-formed absolute http(s) URL.
// An empty value passes; pair with [Validator.Required] for mandatory URLs.
func (v *Validator) URL(field, value string) *Validator {
	if value == "" {
		return v
	}
	parsed, err := url.Parse(value)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" ||
		(parsed.Scheme != "http" && parsed.Scheme != "https") {
		v.add(field, "Must be a valid http(s) URL")
	}
	return v
}

// Password enforces the catalog backend's password policy: minimum 8
// characters with at least one uppercase letter, one lowercase letter,
// one digit, and one symbol from a fixed punctuation set.
func (v *Validator) Password(field, value string) *Validator {
	if utf8.RuneCountInString(value) < 8 {
		v.add(field, "Password must be at least 8 characters long")
		return v
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool
	for _, r := range value {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		}
	}

	switch {
	case !hasUpper:
		v.add(field, "Password must contain at least one uppercase letter")
	case !hasLower:
		v.add(field, "Password must contain at least one lowercase letter")
	case !hasDigit:
		v.add(field, "Password must contain at least one digit")
	case !hasSymbol:
		v.add(field, "Password must contain at least one special character")
	}
	return v
}

// Match fails if value does not equal other. Used for password confirmation.
func (v *Validator) Match(field, value, other string) *Validator {
	if value != other {
		v.add(field, "Passwords don't match")
	}
	return v
}

// Custom adds a failure with a custom message if the condition is true.
//
// # Example
//
//	v.Custom("tags", len(tags) > 20, "Maximum 20 tags")
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.add(field, message)
	}
	return v
}

// Err returns a [apperr.AppError] (VALIDATION_ERROR) if any rules failed,
// or nil if all rules passed.
//
// This is the only output method — call it at the end of the chain.
func (v *Validator) Err() error {
	if len(v.errs) == 0 {
		return nil
	}
	return apperr.ValidationError("Validation failed", v.errs...)
}

// HasErrors reports whether any validation rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.errs) > 0
}

// add appends a [apperr.FieldError] to the internal slice.
func (v *Validator) add(field, message string) {
	v.errs = append(v.errs, apperr.FieldError{Field: field, Message: message})
}

// RequiredError is a shortcut to create a single-field validation error.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError("Validation failed", apperr.FieldError{
		Field:   field,
		Message: message,
	})
}
