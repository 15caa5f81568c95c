package superjson

import "strings"

// Manifest paths follow RFC 6901 token escaping: "~" becomes "~0" and "/"
// becomes "~1". Unlike full JSON Pointers there is no leading slash; the
// empty path addresses the body root.

func escapeToken(s string) string {
	s = strings.ReplaceAll(s, "~", "~0")
	return strings.ReplaceAll(s, "/", "~1")
}

func unescapeToken(s string) string {
	s = strings.ReplaceAll(s, "~1", "/")
	return strings.ReplaceAll(s, "~0", "~")
}

// joinPath renders raw segments as a manifest path.
func joinPath(segments []string) string {
	if len(segments) == 0 {
		return ""
	}
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = escapeToken(s)
	}
	return strings.Join(escaped, "/")
}

// splitPath parses a manifest path back into raw segments.
func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	tokens := strings.Split(path, "/")
	segments := make([]string, len(tokens))
	for i, t := range tokens {
		segments[i] = unescapeToken(t)
	}
	return segments
}
