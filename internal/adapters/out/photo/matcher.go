// Package photo implements the photo matcher used by comparing photo
// confirmation rules. Proof values are content digests of photos already
// uploaded through the media pipeline, so matching reduces to digest
// comparison.
package photo

import "strings"

// DigestMatcher matches photos by their content digest.
// Implements services.PhotoMatcher.
type DigestMatcher struct{}

// NewDigestMatcher creates a digest-based photo matcher.
func NewDigestMatcher() DigestMatcher {
	return DigestMatcher{}
}

// Match reports whether the candidate digest equals the reference captured at
// pickup. Comparison is case-insensitive since hex digests arrive in mixed
// case from different clients.
func (DigestMatcher) Match(reference, candidate string) (bool, error) {
	return strings.EqualFold(strings.TrimSpace(reference), strings.TrimSpace(candidate)), nil
}
