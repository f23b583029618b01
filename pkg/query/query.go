// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

// Package query provides small parsers for URL query parameter values.
package query

import (
	"strings"
)

// StringSlice parses a single comma-separated query string
// into a trimmed slice of strings.
func StringSlice(val string) []string {
	if val == "" {
		return nil
	}
	var res []string
	for _, v := range strings.Split(val, ",") {
		clean := strings.TrimSpace(v)
		if clean != "" {
			res = append(res, clean)
		}
	}
	return res
}
