// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package uuid provides time-ordered unique identifiers for the gateway.

It wraps the standard UUID library to specifically generate Version 7 values.

Advantages:

  - Sortable: Naturally ordered by creation time (millisecond precision).
  - Compact: 128-bit storage, compatible with standard 'uuid' types.

Gateway session ids and request correlation ids are both UUIDv7.
*/
package uuid

import "github.com/google/uuid"

// # Generators

// New generates a new UUIDv7 string.
func New() string {

	// Create a new version 7 UUID (time-sortable)
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}
