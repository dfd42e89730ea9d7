// Package paths provides canonical helpers for converting between:
// - resource paths as written in a .yyp (e.g. "objects\\Player\\Player.yy")
// - project-relative slash paths used throughout gmedit (e.g. "objects/Player/Player.yy")
// - absolute OS paths under the project root
package paths

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathOutsideProject indicates a path escapes the project root.
var ErrPathOutsideProject = errors.New("path is outside the project")

// Normalize normalizes a project-relative path-like value:
// - converts '\\' and OS separators to '/'
// - trims leading "./" and leading "/"
// - collapses repeated '/' and resolves "." elements
func Normalize(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = filepath.ToSlash(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return ""
	}
	return path.Clean(p)
}

// ToResourcePath converts a project-relative path to the backslash form stored in
// the .yyp resource list.
func ToResourcePath(rel string) string {
	return strings.ReplaceAll(Normalize(rel), "/", "\\")
}

// Abs joins a project-relative path onto root, refusing paths that escape it.
func Abs(root, rel string) (string, error) {
	rel = Normalize(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideProject, rel)
	}
	return filepath.Join(root, filepath.FromSlash(rel)), nil
}

// Rel converts an absolute path under root to a project-relative slash path.
func Rel(root, abs string) (string, error) {
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideProject, abs)
	}
	return rel, nil
}

// IsResourceFile reports whether p names a .yy resource description.
func IsResourceFile(p string) bool {
	return strings.EqualFold(path.Ext(Normalize(p)), ".yy")
}

// IsProjectFile reports whether p names a .yyp project file.
func IsProjectFile(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".yyp")
}
