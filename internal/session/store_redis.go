// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/sec"
	"github.com/redis/go-redis/v9"
)

// RedisRepository implements Repository using Redis.
//
// # Security
//
// The catalog bearer token is sealed with [sec.TokenSealer] before it is
// written, so a leaked Redis dump does not leak usable credentials.
type RedisRepository struct {
	client *redis.Client
	sealer *sec.TokenSealer
}

// NewRedisRepository creates a new Redis-backed session Repository.
func NewRedisRepository(client *redis.Client, sealer *sec.TokenSealer) *RedisRepository {
	return &RedisRepository{client: client, sealer: sealer}
}

// record is the stored shape of a session.
type record struct {
	SealedToken string          `json:"sealed_token"`
	User        json.RawMessage `json:"user,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

/*
Save persists the session, sealed, with a TTL derived from its expiry.

Parameters:
  - context: context.Context
  - session: *Session

Returns:
  - error: Sealing or storage failures
*/
func (repository *RedisRepository) Save(context context.Context, session *Session) error {

	// 1. Seal the bearer token before it touches the wire
	sealed, err := repository.sealer.Seal(session.Token)
	if err != nil {
		return fmt.Errorf("redis_session_seal_failed: %w", err)
	}

	// 2. Build the stored record
	stored := record{
		SealedToken: sealed,
		CreatedAt:   session.CreatedAt,
		ExpiresAt:   session.ExpiresAt,
	}
	if session.User != nil {
		userBytes, err := json.Marshal(session.User)
		if err != nil {
			return fmt.Errorf("redis_session_marshal_failed: %w", err)
		}
		stored.User = userBytes
	}

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("redis_session_marshal_failed: %w", err)
	}

	// 3. Expire the key together with the session itself
	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return apperr.Unauthorized("Session has expired")
	}

	key := constants.RedisPrefixSession + session.ID
	if err := repository.client.Set(context, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}

	return nil
}

/*
Find retrieves and unseals the session with the given ID.

Description: Returns apperr.NotFound if the session is absent or expired;
Redis expiry is authoritative, so no extra expiry check is needed here.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Session: The live session, token unsealed
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisRepository) Find(context context.Context, id string) (*Session, error) {

	// Fetch the record
	key := constants.RedisPrefixSession + id
	payload, err := repository.client.Get(context, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperr.NotFound("Session")
		}
		return nil, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	var stored record
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
	}

	// Unseal the bearer token. An unsealing failure means the secret was
	// rotated; the session is simply gone.
	token, err := repository.sealer.Open(stored.SealedToken)
	if err != nil {
		return nil, apperr.NotFound("Session")
	}

	session := &Session{
		ID:        id,
		Token:     token,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}
	if len(stored.User) > 0 {
		if err := json.Unmarshal(stored.User, &session.User); err != nil {
			return nil, fmt.Errorf("redis_session_unmarshal_failed: %w", err)
		}
	}

	return session, nil
}

/*
Delete removes the session from Redis.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisRepository) Delete(context context.Context, id string) error {

	key := constants.RedisPrefixSession + id
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}

	return nil
}
