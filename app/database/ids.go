package database

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

var profileUsernamePattern = regexp.MustCompile(`linkedin\.com/in/([^/?]+)`)

// ContentID derives a deterministic identifier from a content URL. The same
// URL always produces the same id, so re-inserting content overwrites the
// existing row instead of duplicating it.
func ContentID(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:32]
}

// AuthorID derives a deterministic identifier from a profile URL: the
// username segment of a linkedin.com/in/ URL when present, otherwise a
// truncated digest of the whole URL.
func AuthorID(profileURL string) string {
	if m := profileUsernamePattern.FindStringSubmatch(profileURL); m != nil {
		return m[1]
	}
	sum := sha256.Sum256([]byte(profileURL))
	return hex.EncodeToString(sum[:])[:16]
}
