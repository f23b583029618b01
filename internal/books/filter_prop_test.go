// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package books_test

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/litbooks/litbooks/internal/books"
	"github.com/litbooks/litbooks/internal/upstream"
)

// genBook draws a book with printable title, author, and tag names.
func genBook(t *rapid.T, id int) upstream.Book {
	b := upstream.Book{
		ID:     id,
		Title:  rapid.StringMatching(`[ -~]{0,24}`).Draw(t, "title"),
		Author: rapid.StringMatching(`[ -~]{0,16}`).Draw(t, "author"),
	}
	for i, name := range rapid.SliceOfN(rapid.StringMatching(`[ -~]{1,12}`), 0, 4).Draw(t, "tags") {
		b.Tags = append(b.Tags, upstream.Tag{ID: i + 1, Name: name})
	}
	return b
}

/*
TestFilter_Properties checks the projection laws over arbitrary collections:

  - the result is always a subsequence of the input (order preserved),
  - every kept book matches the query, every dropped book does not,
  - an empty query is the identity,
  - Filter is idempotent for a fixed query.
*/
func TestFilter_Properties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		size := rapid.IntRange(0, 16).Draw(t, "size")
		collection := make([]upstream.Book, 0, size)
		for i := 0; i < size; i++ {
			collection = append(collection, genBook(t, i+1))
		}
		query := rapid.StringMatching(`[ -~]{0,8}`).Draw(t, "query")

		got := books.Filter(collection, query)

		// Identity on the empty query
		if query == "" {
			if len(got) != len(collection) {
				t.Fatalf("empty query dropped books: %d != %d", len(got), len(collection))
			}
		}

		// Subsequence: walk the input and consume matches in order
		cursor := 0
		for _, kept := range got {
			found := false
			for cursor < len(collection) {
				if collection[cursor].ID == kept.ID {
					found = true
					cursor++
					break
				}
				cursor++
			}
			if !found {
				t.Fatalf("result is not an ordered subsequence of the input")
			}
		}

		// Membership is exactly the match predicate
		needle := strings.ToLower(query)
		keptIDs := make(map[int]bool, len(got))
		for _, kept := range got {
			keptIDs[kept.ID] = true
		}
		for _, b := range collection {
			matches := query == "" ||
				strings.Contains(strings.ToLower(b.Title), needle) ||
				strings.Contains(strings.ToLower(b.Author), needle)
			for _, tag := range b.Tags {
				if strings.Contains(strings.ToLower(tag.Name), needle) {
					matches = true
				}
			}
			if matches != keptIDs[b.ID] {
				t.Fatalf("book %d: matches=%v kept=%v (query %q)", b.ID, matches, keptIDs[b.ID], query)
			}
		}

		// Idempotence
		again := books.Filter(got, query)
		if len(again) != len(got) {
			t.Fatalf("filter is not idempotent: %d != %d", len(again), len(got))
		}
	})
}
