// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// # Catalog Types

// Tag is a categorization label, embedded denormalized on each book.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Book mirrors the catalog backend's book resource.
type Book struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatorID   int       `json:"creator_id"`
	Tags        []Tag     `json:"tags"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListParams narrows and pages the catalog listing.
type ListParams struct {
	Skip   int
	Limit  int
	Search string
	Tag    string
}

// CreateBookInput holds the fields for creating a book.
type CreateBookInput struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description,omitempty"`
	ImageURL    string   `json:"image_url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateBookInput is a partial update. Nil fields are left unchanged by the
// backend (exclude-unset semantics), which is why every field is a pointer.
type UpdateBookInput struct {
	Title       *string   `json:"title,omitempty"`
	Author      *string   `json:"author,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// # Book Endpoints

/*
ListBooks fetches a window of the catalog.

GET /books/?skip=&limit=&search=&tag=

The search parameter matches title and author server-side; tag narrows to
books carrying the named tag.
*/
func (c *Client) ListBooks(ctx context.Context, token string, params ListParams) ([]Book, error) {
	query := url.Values{}
	if params.Skip > 0 {
		query.Set("skip", strconv.Itoa(params.Skip))
	}
	if params.Limit > 0 {
		query.Set("limit", strconv.Itoa(params.Limit))
	}
	if params.Search != "" {
		query.Set("search", params.Search)
	}
	if params.Tag != "" {
		query.Set("tag", params.Tag)
	}

	var books []Book
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/books/",
		query:  query,
		token:  token,
		want:   http.StatusOK,
	}, &books)
	if err != nil {
		return nil, err
	}

	return books, nil
}

// GetBook fetches a single book by id.
//
// GET /books/{id}
func (c *Client) GetBook(ctx context.Context, token string, id int) (*Book, error) {
	var book Book
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   fmt.Sprintf("/books/%d", id),
		token:  token,
		want:   http.StatusOK,
	}, &book)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// CreateBook adds a book to the catalog, owned by the token's account.
//
// POST /books/
func (c *Client) CreateBook(ctx context.Context, token string, input CreateBookInput) (*Book, error) {
	var book Book
	err := c.do(ctx, call{
		method:   http.MethodPost,
		path:     "/books/",
		jsonBody: input,
		token:    token,
		want:     http.StatusCreated,
	}, &book)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// UpdateBook applies a partial update to a book.
//
// PUT /books/{id}
func (c *Client) UpdateBook(ctx context.Context, token string, id int, input UpdateBookInput) (*Book, error) {
	var book Book
	err := c.do(ctx, call{
		method:   http.MethodPut,
		path:     fmt.Sprintf("/books/%d", id),
		jsonBody: input,
		token:    token,
		want:     http.StatusOK,
	}, &book)
	if err != nil {
		return nil, err
	}

	return &book, nil
}

// DeleteBook removes a book from the catalog.
//
// DELETE /books/{id}
func (c *Client) DeleteBook(ctx context.Context, token string, id int) error {
	return c.do(ctx, call{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/books/%d", id),
		token:  token,
		want:   http.StatusNoContent,
	}, nil)
}

/*
MyBooks fetches the books owned by the token's account.

GET /books/my-books
*/
func (c *Client) MyBooks(ctx context.Context, token string) ([]Book, error) {
	var books []Book
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/books/my-books",
		token:  token,
		want:   http.StatusOK,
	}, &books)
	if err != nil {
		return nil, err
	}

	return books, nil
}

// AllTags fetches every tag name known to the catalog.
//
// GET /books/tags/all
func (c *Client) AllTags(ctx context.Context, token string) ([]string, error) {
	var tags []string
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/books/tags/all",
		token:  token,
		want:   http.StatusOK,
	}, &tags)
	if err != nil {
		return nil, err
	}

	return tags, nil
}
