// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litbooks/litbooks/internal/platform/sec"
)

/*
TestTokenSealer_RoundTrip verifies a sealed token opens back to the original
and that ciphertexts are non-deterministic.
*/
func TestTokenSealer_RoundTrip(t *testing.T) {
	sealer, err := sec.NewTokenSealer("unit-test-secret")
	require.NoError(t, err)

	sealed, err := sealer.Seal("bearer-token-value")
	require.NoError(t, err)
	assert.NotContains(t, sealed, "bearer-token-value")

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "bearer-token-value", opened)

	// A fresh nonce every time
	again, err := sealer.Seal("bearer-token-value")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again)
}

/*
TestTokenSealer_WrongSecret verifies tokens sealed under one secret do not
open under another.
*/
func TestTokenSealer_WrongSecret(t *testing.T) {
	sealerA, err := sec.NewTokenSealer("secret-a")
	require.NoError(t, err)
	sealerB, err := sec.NewTokenSealer("secret-b")
	require.NoError(t, err)

	sealed, err := sealerA.Seal("token")
	require.NoError(t, err)

	_, err = sealerB.Open(sealed)
	require.Error(t, err)
}

/*
TestTokenSealer_EmptySecret verifies construction refuses a blank secret.
*/
func TestTokenSealer_EmptySecret(t *testing.T) {
	_, err := sec.NewTokenSealer("")
	require.Error(t, err)
}

/*
TestPeekExpiry reads the exp claim without verifying the signature; the
catalog holds the signing key, we only schedule around its clock.
*/
func TestPeekExpiry(t *testing.T) {
	expiry := time.Now().Add(45 * time.Minute).Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "reader@example.com",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	signed, err := token.SignedString([]byte("a-key-we-do-not-share"))
	require.NoError(t, err)

	got, err := sec.PeekExpiry(signed)
	require.NoError(t, err)
	assert.True(t, got.Equal(expiry))
}

/*
TestPeekExpiry_NoClaim verifies a token without exp yields the zero time.
*/
func TestPeekExpiry_NoClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "reader@example.com",
	})
	signed, err := token.SignedString([]byte("a-key-we-do-not-share"))
	require.NoError(t, err)

	got, err := sec.PeekExpiry(signed)
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

/*
TestPeekExpiry_Garbage verifies non-JWT input errors out.
*/
func TestPeekExpiry_Garbage(t *testing.T) {
	_, err := sec.PeekExpiry("not-a-jwt")
	require.Error(t, err)
}
