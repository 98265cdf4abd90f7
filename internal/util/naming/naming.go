package naming

import (
	"fmt"
	"strings"
)

// Device returns the name of the index-th device of a group, e.g. "ams1-sw-03".
func Device(site, suffix string, index int) string {
	return fmt.Sprintf("%s-%s-%02d", site, suffix, index)
}

// Slug derives the URL-safe identifier of a named object.
func Slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
