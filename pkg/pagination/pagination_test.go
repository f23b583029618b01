// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/litbooks/litbooks/pkg/pagination"
)

/*
TestFromRequest_Clamping verifies page/limit parsing with catalog-compatible
clamping and the page to skip translation.
*/
func TestFromRequest_Clamping(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
		wantSkip  int
	}{
		{"defaults", "/books", 1, 20, 0},
		{"explicit", "/books?page=3&limit=10", 3, 10, 20},
		{"zero_page", "/books?page=0", 1, 20, 0},
		{"negative_limit", "/books?limit=-5", 1, 20, 0},
		{"over_max_limit", "/books?limit=1000", 1, 20, 0},
		{"garbage", "/books?page=abc&limit=xyz", 1, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", tt.url, nil))

			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantSkip, params.Skip())
		})
	}
}
