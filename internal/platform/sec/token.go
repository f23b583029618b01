// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// PeekExpiry extracts the 'exp' claim from an upstream bearer token WITHOUT
// verifying its signature.
//
// # Why unverified?
//
// The catalog backend signs its own tokens; the gateway holds no verification
// key and never makes authorization decisions from token claims. The expiry
// is only used to bound the session's TTL so a stored token is dropped around
// the time it stops working anyway.
//
// The returned time is zero when the token carries no expiry claim.
func PeekExpiry(tokenString string) (time.Time, error) {
	claims := jwt.RegisteredClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, fmt.Errorf("sec: failed to parse bearer token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, nil
	}

	return claims.ExpiresAt.Time, nil
}
