// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package books_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/litbooks/litbooks/internal/books"
	"github.com/litbooks/litbooks/internal/platform/apperr"
	"github.com/litbooks/litbooks/internal/upstream"
	"github.com/litbooks/litbooks/pkg/pointer"
)

// fakeCatalog implements books.CatalogAPI with programmable behavior and
// call counting.
type fakeCatalog struct {
	listResult []upstream.Book
	listErr    error
	listCalls  int

	getResult *upstream.Book
	getErr    error

	createResult *upstream.Book
	createErr    error
	createCalls  int

	updateResult *upstream.Book
	updateErr    error

	deleteErr   error
	deleteCalls int

	mineResult []upstream.Book
	tagsResult []string
}

func (f *fakeCatalog) ListBooks(_ context.Context, _ string, _ upstream.ListParams) ([]upstream.Book, error) {
	f.listCalls++
	return f.listResult, f.listErr
}

func (f *fakeCatalog) GetBook(_ context.Context, _ string, _ int) (*upstream.Book, error) {
	return f.getResult, f.getErr
}

func (f *fakeCatalog) CreateBook(_ context.Context, _ string, _ upstream.CreateBookInput) (*upstream.Book, error) {
	f.createCalls++
	return f.createResult, f.createErr
}

func (f *fakeCatalog) UpdateBook(_ context.Context, _ string, _ int, _ upstream.UpdateBookInput) (*upstream.Book, error) {
	return f.updateResult, f.updateErr
}

func (f *fakeCatalog) DeleteBook(_ context.Context, _ string, _ int) error {
	f.deleteCalls++
	return f.deleteErr
}

func (f *fakeCatalog) MyBooks(_ context.Context, _ string) ([]upstream.Book, error) {
	return f.mineResult, nil
}

func (f *fakeCatalog) AllTags(_ context.Context, _ string) ([]string, error) {
	return f.tagsResult, nil
}

func newService(catalog *fakeCatalog) (*books.Service, *books.State) {
	state := books.NewState()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return books.NewService(catalog, state, logger), state
}

/*
TestService_FetchAll verifies a successful fetch replaces the mirror and a
failed fetch surfaces its message while keeping the previous data.
*/
func TestService_FetchAll(t *testing.T) {
	catalog := &fakeCatalog{listResult: []upstream.Book{book(1, "Dune", "Herbert")}}
	service, _ := newService(catalog)

	_, err := service.FetchAll(context.Background(), "token", upstream.ListParams{Limit: 20})
	require.NoError(t, err)

	snap := service.Snapshot()
	require.Len(t, snap.Books, 1)
	assert.False(t, snap.IsLoading)

	// A later failure keeps the mirror
	catalog.listErr = apperr.ServiceUnavailable("catalog down", nil)
	_, err = service.FetchAll(context.Background(), "token", upstream.ListParams{Limit: 20})
	require.Error(t, err)

	snap = service.Snapshot()
	require.Len(t, snap.Books, 1)
	assert.NotEmpty(t, snap.Error)
}

/*
TestService_Create_ValidationBlocksNetwork verifies an invalid form is
rejected before any upstream call or state transition.
*/
func TestService_Create_ValidationBlocksNetwork(t *testing.T) {
	catalog := &fakeCatalog{}
	service, _ := newService(catalog)

	_, err := service.Create(context.Background(), "token", books.Form{
		Title:  "", // required
		Author: "Someone",
	})

	require.Error(t, err)
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
	assert.Zero(t, catalog.createCalls, "invalid form must not reach the catalog")
	assert.Empty(t, service.Snapshot().Error, "validation failures never poison the slice")
}

/*
TestService_Create_Prepends verifies a created book lands at the head of the
mirror.
*/
func TestService_Create_Prepends(t *testing.T) {
	catalog := &fakeCatalog{
		listResult:   []upstream.Book{book(1, "Dune", "Herbert")},
		createResult: &upstream.Book{ID: 2, Title: "Emma", Author: "Austen"},
	}
	service, _ := newService(catalog)

	_, err := service.FetchAll(context.Background(), "token", upstream.ListParams{})
	require.NoError(t, err)

	created, err := service.Create(context.Background(), "token", books.Form{Title: "Emma", Author: "Austen"})
	require.NoError(t, err)
	assert.Equal(t, 2, created.ID)

	snap := service.Snapshot()
	require.Len(t, snap.Books, 2)
	assert.Equal(t, 2, snap.Books[0].ID)
}

/*
TestService_Delete_RollsBack verifies the optimistic delete contract: the
book disappears immediately, and a rejected delete puts it back where it was
and surfaces the error.
*/
func TestService_Delete_RollsBack(t *testing.T) {
	catalog := &fakeCatalog{listResult: []upstream.Book{
		book(1, "A", "a"),
		book(2, "B", "b"),
		book(3, "C", "c"),
	}}
	service, _ := newService(catalog)

	_, err := service.FetchAll(context.Background(), "token", upstream.ListParams{})
	require.NoError(t, err)

	catalog.deleteErr = apperr.Forbidden("Not your book")
	err = service.Delete(context.Background(), "token", 2)
	require.Error(t, err)

	snap := service.Snapshot()
	require.Len(t, snap.Books, 3)
	assert.Equal(t, 2, snap.Books[1].ID, "rollback must restore the original position")
	assert.NotEmpty(t, snap.Error)
	assert.Equal(t, 1, catalog.deleteCalls)
}

/*
TestService_Delete_Succeeds verifies a confirmed delete leaves the book out.
*/
func TestService_Delete_Succeeds(t *testing.T) {
	catalog := &fakeCatalog{listResult: []upstream.Book{book(1, "A", "a"), book(2, "B", "b")}}
	service, _ := newService(catalog)

	_, err := service.FetchAll(context.Background(), "token", upstream.ListParams{})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), "token", 1))

	snap := service.Snapshot()
	require.Len(t, snap.Books, 1)
	assert.Equal(t, 2, snap.Books[0].ID)
	assert.Empty(t, snap.Error)
	assert.False(t, snap.IsLoading)
}

/*
TestService_Update_ValidatesPresentFields verifies a partial update only
checks the fields that are set, and an explicit empty title is rejected.
*/
func TestService_Update_ValidatesPresentFields(t *testing.T) {
	catalog := &fakeCatalog{updateResult: &upstream.Book{ID: 1, Title: "New", Author: "a"}}
	service, _ := newService(catalog)

	_, err := service.Update(context.Background(), "token", 1, books.UpdateForm{Title: pointer.To("")})
	require.Error(t, err)

	updated, err := service.Update(context.Background(), "token", 1, books.UpdateForm{Title: pointer.To("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
}
