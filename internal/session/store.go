// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package session

import (
	"context"
)

// Repository defines the data access contract for gateway sessions.
//
// # Implementations
//
// The canonical implementation is Redis (store_redis.go), which gives
// shared state across gateway replicas and free expiry. The in-memory
// implementation (store_memory.go) backs local development and tests.
type Repository interface {
	// Save persists the session until its ExpiresAt, overwriting any
	// previous record with the same ID.
	Save(ctx context.Context, session *Session) error

	// Find returns the live session with the given ID.
	//
	// Returns [apperr.NotFound] if the session does not exist or has expired.
	Find(ctx context.Context, id string) (*Session, error)

	// Delete removes the session. Deleting an absent session is not an error.
	Delete(ctx context.Context, id string) error
}
