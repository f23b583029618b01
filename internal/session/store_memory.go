// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package session

import (
	"context"
	"sync"
	"time"

	"github.com/litbooks/litbooks/internal/platform/apperr"
)

// MemoryRepository implements Repository with an in-process map.
//
// It backs local development (no Redis configured) and tests. Expired
// sessions are reaped lazily on Find; a single-process dev gateway does
// not need a background janitor.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryRepository creates an empty in-memory session Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{sessions: make(map[string]Session)}
}

// Save stores a copy of the session.
func (repository *MemoryRepository) Save(_ context.Context, session *Session) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.sessions[session.ID] = *session
	return nil
}

// Find returns the live session with the given ID.
//
// Returns [apperr.NotFound] if the session is absent or expired.
func (repository *MemoryRepository) Find(_ context.Context, id string) (*Session, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.sessions[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}

	if stored.Expired(time.Now()) {
		delete(repository.sessions, id)
		return nil, apperr.NotFound("Session")
	}

	copied := stored
	return &copied, nil
}

// Delete removes the session. Absent sessions are ignored.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.sessions, id)
	return nil
}
