// Package slugs provides canonical name helpers for resources, built on gosimple/slug.
package slugs

import (
	"regexp"
	"strings"

	goslug "github.com/gosimple/slug"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ComponentSlug converts a string to a lowercase slug using '-' separators.
func ComponentSlug(s string) string {
	slugged := goslug.Make(s)
	if slugged == "" {
		slugged = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-"))
	}
	return slugged
}

// ResourceName turns free text into a resource name usable as a GML identifier,
// e.g. ResourceName("obj_", "Big Enemy") == "obj_big_enemy". A name that already
// carries the prefix is not prefixed twice.
func ResourceName(prefix, s string) string {
	name := strings.ReplaceAll(goslug.Make(s), "-", "_")
	if name == "" {
		return ""
	}
	if prefix != "" && !strings.HasPrefix(name, strings.ToLower(prefix)) {
		name = prefix + name
	}
	if !identPattern.MatchString(name) {
		name = "_" + name
	}
	return name
}

// ValidResourceName reports whether name is usable as a GML identifier.
func ValidResourceName(name string) bool {
	return identPattern.MatchString(name)
}

// Match reports whether two names are equal after slugging. '_' and '-' are
// treated alike.
func Match(a, b string) bool {
	sa := strings.ReplaceAll(ComponentSlug(a), "_", "-")
	sb := strings.ReplaceAll(ComponentSlug(b), "_", "-")
	return sa != "" && sa == sb
}
