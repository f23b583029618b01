// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package books holds the gateway-local mirror of the catalog's book collection
and the view layer on top of it.

It is structured like every other feature package:

  - State: the resource slice holding the collection mirror, derived search
    projection, transient flags, and the reducers that mutate them.
  - Service: the asynchronous operations (fetch, create, update, delete) that
    pair an upstream call with the matching state transitions.
  - Handler: HTTP delivery, one route per view or dispatched action.
*/
package books

import (
	"strings"
	"sync"

	"github.com/litbooks/litbooks/internal/upstream"
)

// State is the books resource slice.
//
// # Design
//
// State is an explicit, injectable container: construct one per gateway (or
// per test) and pass it where it is needed; there is no package-level
// instance. Every mutation takes the mutex, which serializes state
// transitions the way a single dispatch loop would.
//
// # Invariant
//
// filtered is always exactly Filter(books, query). Reducers never patch the
// projection by hand; they mutate the collection and recompute.
type State struct {
	mu sync.Mutex

	// books is the local mirror of the server-owned collection, in server order.
	books []upstream.Book

	// filtered is the derived search projection over books.
	filtered []upstream.Book

	// current is the entity shown by the detail view, independent of the collection.
	current *upstream.Book

	// query is the active case-insensitive search query.
	query string

	// inflight counts started-but-unsettled operations; the slice reports
	// isLoading while it is positive.
	inflight int

	// errMsg is the human-readable message of the last failed operation,
	// empty when the slice is healthy.
	errMsg string

	// seq numbers collection-replacing fetches as they are issued; applied
	// records the newest one whose outcome has been accepted. Responses from
	// older fetches are dropped, so racing fetches settle last-issued-wins
	// rather than last-resolved-wins.
	seq     uint64
	applied uint64
}

// Snapshot is a consistent, copied view of the slice for rendering.
type Snapshot struct {
	Books       []upstream.Book
	Filtered    []upstream.Book
	Current     *upstream.Book
	SearchQuery string
	IsLoading   bool
	Error       string
}

// NewState constructs an empty books slice.
func NewState() *State {
	return &State{}
}

// # Collection Fetches (sequenced)

// BeginList starts a collection fetch: loading on, error cleared.
// The returned ticket must be passed to [State.ApplyList] or [State.FailList].
func (s *State) BeginList() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight++
	s.errMsg = ""
	s.seq++
	return s.seq
}

// ApplyList settles a collection fetch with its result.
//
// It reports whether the result was accepted; a fetch issued before an
// already-applied one is stale and leaves the mirror untouched.
func (s *State) ApplyList(ticket uint64, items []upstream.Book) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if ticket <= s.applied {
		return false
	}

	s.applied = ticket
	s.books = append([]upstream.Book(nil), items...)
	s.recompute()
	return true
}

// FailList settles a collection fetch with an error message.
//
// A stale failure (outrun by a newer fetch) clears the loading flag but does
// not surface its error; the previous collection is always left untouched.
func (s *State) FailList(ticket uint64, message string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	if ticket <= s.applied {
		return false
	}

	s.applied = ticket
	s.errMsg = message
	return true
}

// # Entity Operations (unsequenced)

// BeginOp starts a single-entity operation: loading on, error cleared.
func (s *State) BeginOp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight++
	s.errMsg = ""
}

// EndOp settles an operation whose effect was already applied (e.g. an
// optimistic removal that the network confirmed).
func (s *State) EndOp() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
}

// FailOp settles an operation with an error message, leaving data untouched.
func (s *State) FailOp(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	s.errMsg = message
}

// SetCurrent settles a detail fetch. The collection is not touched.
func (s *State) SetCurrent(book *upstream.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	copied := *book
	s.current = &copied
}

// ApplyCreate settles a create: the server-assigned entity is prepended to
// the collection. The projection picks it up only when it matches the
// active query.
func (s *State) ApplyCreate(book *upstream.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	s.books = append([]upstream.Book{*book}, s.books...)
	s.recompute()
}

// ApplyUpdate settles an update: the matching entity is replaced in the
// collection, and in current when the detail view shows the same id.
func (s *State) ApplyUpdate(book *upstream.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.inflight--
	for i := range s.books {
		if s.books[i].ID == book.ID {
			s.books[i] = *book
			break
		}
	}
	if s.current != nil && s.current.ID == book.ID {
		copied := *book
		s.current = &copied
	}
	s.recompute()
}

// # Optimistic Removal

// RemoveOptimistic removes the book from the mirror before the network
// delete settles. It returns the removed entity and its position so a
// failed delete can put it back.
func (s *State) RemoveOptimistic(id int) (index int, removed *upstream.Book, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.books {
		if s.books[i].ID == id {
			book := s.books[i]
			s.books = append(s.books[:i], s.books[i+1:]...)
			s.recompute()
			return i, &book, true
		}
	}
	return 0, nil, false
}

// Restore reinserts a book removed by [State.RemoveOptimistic] at its
// original position. This is the rollback half of a failed optimistic delete.
func (s *State) Restore(index int, book *upstream.Book) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index > len(s.books) {
		index = len(s.books)
	}
	s.books = append(s.books[:index], append([]upstream.Book{*book}, s.books[index:]...)...)
	s.recompute()
}

// # Synchronous Reducers

// SetSearchQuery updates the active query and recomputes the projection.
// An empty query makes the projection equal the full collection.
func (s *State) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.query = query
	s.recompute()
}

// ClearError resets the error flag. Idempotent.
func (s *State) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.errMsg = ""
}

// ClearCurrent resets the detail view entity. Idempotent.
func (s *State) ClearCurrent() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = nil
}

// Snapshot returns a copied, mutation-safe view of the slice.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Books:       append([]upstream.Book(nil), s.books...),
		Filtered:    append([]upstream.Book(nil), s.filtered...),
		SearchQuery: s.query,
		IsLoading:   s.inflight > 0,
		Error:       s.errMsg,
	}
	if s.current != nil {
		copied := *s.current
		snap.Current = &copied
	}
	return snap
}

// recompute rebuilds the projection. Callers must hold the mutex.
func (s *State) recompute() {
	s.filtered = Filter(s.books, s.query)
}

// # Search Projection

// Filter returns the books whose title, author, or any tag name contains
// query case-insensitively, preserving collection order. An empty query
// returns the whole collection.
//
// Filter is a pure function; it never mutates its input.
func Filter(books []upstream.Book, query string) []upstream.Book {
	if query == "" {
		return append([]upstream.Book(nil), books...)
	}

	needle := strings.ToLower(query)
	matched := make([]upstream.Book, 0, len(books))
	for _, book := range books {
		if matches(book, needle) {
			matched = append(matched, book)
		}
	}
	return matched
}

// matches reports whether a single book satisfies a lowercased query.
func matches(book upstream.Book, needle string) bool {
	if strings.Contains(strings.ToLower(book.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(book.Author), needle) {
		return true
	}
	for _, tag := range book.Tags {
		if strings.Contains(strings.ToLower(tag.Name), needle) {
			return true
		}
	}
	return false
}
