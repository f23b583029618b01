// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

// Package pagination provides shared types and helpers for list views.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters
// and how the resulting metadata is delivered in the API response envelope.
// The catalog backend paginates with skip/limit; [Params.Skip] performs the
// page → offset translation.
package pagination

import (
	"net/http"

	"github.com/litbooks/litbooks/pkg/convert"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page, matching the catalog
	// backend's own cap.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Skip returns the number of leading items to skip, as the catalog backend's
// skip query parameter expects.
func (p Params) Skip() int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// Meta is the pagination metadata included in list view responses.
//
// The catalog backend returns bare arrays without totals, so Meta reports
// the window that was requested and how many items came back.
type Meta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Count int `json:"count"`
}

// NewMeta constructs pagination metadata for a response.
func NewMeta(page, limit, count int) Meta {
	return Meta{
		Page:  page,
		Limit: limit,
		Count: count,
	}
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultLimit], or [MaxLimit].
func FromRequest(r *http.Request) Params {
	values := r.URL.Query()
	page := convert.ToIntD(values.Get("page"), DefaultPage)
	limit := convert.ToIntD(values.Get("limit"), DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}
