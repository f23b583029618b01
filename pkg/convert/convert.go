// Copyright (c) 2026 Litbooks. All rights reserved.
// Author: dev@litbooks.app

/*
Package convert provides quick type-conversion utilities.

It wraps standards like [strconv] to provide fault-tolerant conversions
(e.g., returning a default instead of an error when string parsing fails).
This is highly useful in API handler contexts parsing query parameters.

Do not use this package if distinguishing between malformed data and zero values
is important in your domain logic; use explicit standard libraries instead.
*/
package convert

import (
	"strconv"
)

// ToInt converts a string to an integer, silencing parsing errors.
// It returns 0 if the string is empty or cannot be parsed.
func ToInt(s string) int {

	// If the string is empty, return 0
	if s == "" {
		return 0
	}

	// Try to parse the string as an integer
	v, _ := strconv.Atoi(s)
	return v
}

// ToIntD converts a string to an int, returning the provided default if parsing fails or string is empty.
func ToIntD(str string, def int) int {

	// If the string is empty, return the default value
	if str == "" {
		return def
	}

	// Try to parse the string as an integer
	if v, err := strconv.Atoi(str); err == nil {
		return v
	}

	// If parsing fails, return the default value
	return def
}
