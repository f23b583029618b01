// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

// Package sec provides the cryptographic primitives the gateway needs.
//
// # Architecture
//
// The gateway never verifies credentials itself; the catalog backend owns
// identity. What it does hold is upstream bearer tokens, and those must not
// sit in the session store as plaintext. This package isolates the sealing
// of tokens at rest and the (unverified) inspection of their expiry claim.
package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// TokenSealer encrypts and decrypts upstream bearer tokens for storage.
//
// # Algorithm
//
// XChaCha20-Poly1305 with a key derived from the configured session secret.
// The random nonce is prepended to the ciphertext and the whole blob is
// base64-encoded so it can live in a Redis string value.
type TokenSealer struct {
	key []byte
}

// NewTokenSealer derives a sealing key from the session secret.
// The secret may be any non-empty string; it is stretched via SHA-256.
func NewTokenSealer(secret string) (*TokenSealer, error) {
	if secret == "" {
		return nil, errors.New("sec: session secret must not be empty")
	}
	key := sha256.Sum256([]byte(secret))
	return &TokenSealer{key: key[:]}, nil
}

// Seal encrypts a bearer token for storage.
func (s *TokenSealer) Seal(token string) (string, error) {
	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("sec: failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a previously sealed bearer token.
//
// A failure here means the stored blob was tampered with or the session
// secret changed; callers must treat the session as invalid.
func (s *TokenSealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("sec: sealed token is not valid base64: %w", err)
	}

	aead, err := chacha20poly1305.NewX(s.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to initialize cipher: %w", err)
	}

	if len(raw) < aead.NonceSize() {
		return "", errors.New("sec: sealed token is truncated")
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	token, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("sec: failed to open sealed token: %w", err)
	}

	return string(token), nil
}
