package storage

import "regexp"

// Photo references are path-shaped strings like "/images/{userId}/{id}.jpg",
// possibly prefixed with a scheme and host.
var photoKeyPattern = regexp.MustCompile(`/images/([^/]+/[^/]+)`)

// KeyFromURI recovers the object-store key from a stored photo reference.
// The second return is false when the reference is not extractable, in
// which case callers skip cleanup.
func KeyFromURI(uri string) (string, bool) {
	if uri == "" {
		return "", false
	}
	match := photoKeyPattern.FindStringSubmatch(uri)
	if match == nil {
		return "", false
	}
	return match[1], true
}
