// Package normalize cleans user-supplied strings before they are validated
// or used in queries.
package normalize

import "strings"

// Email trims and lower-cases an address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, keeping its case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Code trims and upper-cases a short identifier (school or employee code).
func Code(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Status trims and lower-cases an enum value (status, leave type).
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// QueryParam trims a query string value.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}

// FilterID trims an id filter; "all" means no filter and becomes "".
func FilterID(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "all") {
		return ""
	}
	return s
}
