// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package books

import (
	"context"
	"log/slog"

	"github.com/litbooks/litbooks/internal/platform/constants"
	"github.com/litbooks/litbooks/internal/platform/validate"
	"github.com/litbooks/litbooks/internal/upstream"
)

// CatalogAPI defines the slice of the catalog client the books service needs.
type CatalogAPI interface {
	ListBooks(ctx context.Context, token string, params upstream.ListParams) ([]upstream.Book, error)
	GetBook(ctx context.Context, token string, id int) (*upstream.Book, error)
	CreateBook(ctx context.Context, token string, input upstream.CreateBookInput) (*upstream.Book, error)
	UpdateBook(ctx context.Context, token string, id int, input upstream.UpdateBookInput) (*upstream.Book, error)
	DeleteBook(ctx context.Context, token string, id int) error
	MyBooks(ctx context.Context, token string) ([]upstream.Book, error)
	AllTags(ctx context.Context, token string) ([]string, error)
}

// Service pairs catalog calls with the matching state transitions.
//
// Every asynchronous operation follows the same shape: mark the slice
// pending, perform the upstream call, then settle the slice with either the
// result or the error message. Validation failures settle nothing; they are
// rejected before any transition or network traffic.
type Service struct {
	api    CatalogAPI
	state  *State
	logger *slog.Logger
}

// NewService constructs a books Service with its dependencies.
func NewService(api CatalogAPI, state *State, logger *slog.Logger) *Service {
	return &Service{
		api:    api,
		state:  state,
		logger: logger,
	}
}

/*
FetchAll refreshes the local collection mirror from the catalog.

Racing fetches settle last-issued-wins: a slow response from an older fetch
is discarded rather than clobbering a newer one.

# Parameters
  - context: Context for the upstream call.
  - token: The session's catalog bearer token.
  - params: Upstream pagination and server-side filtering.

# Returns
  - The fetched page of books.
  - Upstream errors are both returned and surfaced on the slice.
*/
func (service *Service) FetchAll(context context.Context, token string, params upstream.ListParams) ([]upstream.Book, error) {

	ticket := service.state.BeginList()

	items, err := service.api.ListBooks(context, token, params)
	if err != nil {
		if service.state.FailList(ticket, err.Error()) {
			service.logger.Warn("book list fetch failed", "error", err)
		}
		return nil, err
	}

	if !service.state.ApplyList(ticket, items) {
		service.logger.Debug("stale book list response dropped")
	}
	return items, nil
}

// FetchOne loads a single book into the detail slot without touching the
// collection mirror.
func (service *Service) FetchOne(context context.Context, token string, id int) (*upstream.Book, error) {

	service.state.BeginOp()

	book, err := service.api.GetBook(context, token, id)
	if err != nil {
		service.state.FailOp(err.Error())
		return nil, err
	}

	service.state.SetCurrent(book)
	return book, nil
}

/*
Create validates and creates a new book, prepending the server-assigned
entity to the local mirror on success.

# Returns
  - The created [*upstream.Book].
  - Returns [apperr.ValidationError] before any state transition or network
    traffic if the form fails local validation.
*/
func (service *Service) Create(context context.Context, token string, form Form) (*upstream.Book, error) {

	if err := form.Validate(); err != nil {
		return nil, err
	}

	service.state.BeginOp()

	book, err := service.api.CreateBook(context, token, form.toInput())
	if err != nil {
		service.state.FailOp(err.Error())
		return nil, err
	}

	service.state.ApplyCreate(book)
	service.logger.Info("book created", "book_id", book.ID)
	return book, nil
}

/*
Update validates and applies a partial update, replacing the entity in the
collection mirror (and the detail slot, when it shows the same book).

Only fields present in the form are validated and sent upstream.
*/
func (service *Service) Update(context context.Context, token string, id int, form UpdateForm) (*upstream.Book, error) {

	if err := form.Validate(); err != nil {
		return nil, err
	}

	service.state.BeginOp()

	book, err := service.api.UpdateBook(context, token, id, form.toInput())
	if err != nil {
		service.state.FailOp(err.Error())
		return nil, err
	}

	service.state.ApplyUpdate(book)
	service.logger.Info("book updated", "book_id", book.ID)
	return book, nil
}

/*
Delete removes a book optimistically: the entity leaves the local mirror
before the catalog call, and is reinserted at its original position if the
call fails.

# Returns
  - nil on success.
  - The upstream error after rollback otherwise; the error is also surfaced
    on the slice.
*/
func (service *Service) Delete(context context.Context, token string, id int) error {

	service.state.BeginOp()

	// 1. Optimistic removal, remembering the rollback position
	index, removed, present := service.state.RemoveOptimistic(id)

	// 2. Confirm with the catalog
	if err := service.api.DeleteBook(context, token, id); err != nil {

		// 3. Roll back: the mirror must match the server again
		if present {
			service.state.Restore(index, removed)
		}
		service.state.FailOp(err.Error())
		service.logger.Warn("book delete rolled back", "book_id", id, "error", err)
		return err
	}

	service.state.EndOp()
	service.logger.Info("book deleted", "book_id", id)
	return nil
}

// Mine returns the books created by the session's account, straight from
// the catalog. The per-user projection never replaces the shared mirror.
func (service *Service) Mine(context context.Context, token string) ([]upstream.Book, error) {
	return service.api.MyBooks(context, token)
}

// Recent returns the n most recently added books, straight from the catalog.
// Like Mine, it never touches the shared mirror; it backs the home view only.
func (service *Service) Recent(context context.Context, token string, n int) ([]upstream.Book, error) {
	return service.api.ListBooks(context, token, upstream.ListParams{Limit: n})
}

// Tags returns every tag name known to the catalog.
func (service *Service) Tags(context context.Context, token string) ([]string, error) {
	return service.api.AllTags(context, token)
}

// # Synchronous State Access

// SetSearchQuery updates the active client-side search query.
func (service *Service) SetSearchQuery(query string) {
	service.state.SetSearchQuery(query)
}

// ClearError resets the slice's error flag.
func (service *Service) ClearError() {
	service.state.ClearError()
}

// ClearCurrent resets the detail slot.
func (service *Service) ClearCurrent() {
	service.state.ClearCurrent()
}

// Snapshot returns a consistent view of the slice for rendering.
func (service *Service) Snapshot() Snapshot {
	return service.state.Snapshot()
}

// # Form Validation

// Form holds the fields submitted when creating a book.
type Form struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	Tags        []string `json:"tags"`
}

// Validate applies the catalog's book rules locally so malformed submissions
// never cost a round trip.
func (form Form) Validate() error {
	validator := &validate.Validator{}
	return validator.
		Required("title", form.Title).
		MaxLen("title", form.Title, constants.MaxTitleLen).
		Required("author", form.Author).
		MaxLen("author", form.Author, constants.MaxTitleLen).
		MaxLen("description", form.Description, constants.MaxDescriptionLen).
		URL("image_url", form.ImageURL).
		Custom("tags", len(form.Tags) > constants.MaxTagsPerBook, "Too many tags").
		Custom("tags", hasOverlongTag(form.Tags), "Tag names are limited to 50 characters").
		Err()
}

func (form Form) toInput() upstream.CreateBookInput {
	return upstream.CreateBookInput{
		Title:       form.Title,
		Author:      form.Author,
		Description: form.Description,
		ImageURL:    form.ImageURL,
		Tags:        form.Tags,
	}
}

// UpdateForm holds a partial book update; nil fields are left untouched.
type UpdateForm struct {
	Title       *string   `json:"title"`
	Author      *string   `json:"author"`
	Description *string   `json:"description"`
	ImageURL    *string   `json:"image_url"`
	Tags        *[]string `json:"tags"`
}

// Validate applies the catalog's book rules to the fields that are present.
// Setting a required field to an empty string is rejected.
func (form UpdateForm) Validate() error {
	validator := &validate.Validator{}

	if form.Title != nil {
		validator.Required("title", *form.Title).MaxLen("title", *form.Title, constants.MaxTitleLen)
	}
	if form.Author != nil {
		validator.Required("author", *form.Author).MaxLen("author", *form.Author, constants.MaxTitleLen)
	}
	if form.Description != nil {
		validator.MaxLen("description", *form.Description, constants.MaxDescriptionLen)
	}
	if form.ImageURL != nil {
		validator.URL("image_url", *form.ImageURL)
	}
	if form.Tags != nil {
		validator.
			Custom("tags", len(*form.Tags) > constants.MaxTagsPerBook, "Too many tags").
			Custom("tags", hasOverlongTag(*form.Tags), "Tag names are limited to 50 characters")
	}

	return validator.Err()
}

func (form UpdateForm) toInput() upstream.UpdateBookInput {
	return upstream.UpdateBookInput{
		Title:       form.Title,
		Author:      form.Author,
		Description: form.Description,
		ImageURL:    form.ImageURL,
		Tags:        form.Tags,
	}
}

// hasOverlongTag reports whether any tag name exceeds the catalog's limit.
func hasOverlongTag(tags []string) bool {
	for _, tag := range tags {
		if len(tag) > constants.MaxTagLen {
			return true
		}
	}
	return false
}
