package utils

import (
	"strings"
)

// Normalize returns the canonical form of a route shape or request path:
// surrounding whitespace trimmed, leading and trailing slashes stripped and
// every run of slashes collapsed into one.
//
//	Normalize("  //users//1// ") == "users/1"
func Normalize(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if !strings.Contains(path, "//") {
		return path
	}
	var b strings.Builder
	b.Grow(len(path))
	for i := 0; i < len(path); i++ {
		if path[i] == '/' && i > 0 && path[i-1] == '/' {
			continue
		}
		b.WriteByte(path[i])
	}
	return b.String()
}

// Segments normalizes path and splits it on '/'. An empty path yields a
// single empty segment.
func Segments(path string) []string {
	return strings.Split(Normalize(path), "/")
}
