// Package lockfile implements the Cache Key & Lock File component
// (spec.md §4.5, §6.3): the content-addressed fingerprint that names an
// environment directory, and the TOML lock file recording what was
// resolved into it.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Entry is the minimal shape the fingerprint needs from a resolved
// artifact: its full coordinate plus the exclusions carried to it.
type Entry struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Packaging  string
	Exclusions []string // "groupId:artifactId" patterns
}

func (e Entry) sortKey() string {
	return fmt.Sprintf("%s:%s:%s:%s:%s", e.GroupID, e.ArtifactID, e.Version, e.Classifier, e.Packaging)
}

// Fingerprint computes the content-addressed environment key per
// spec.md §4.5: sort entries by (g,a,v,c,p), render each as
// "g:a:v:c:p[:excl=...]", join with "+", append ":optional_depth=<n>",
// SHA-256 the result, and keep the first 16 hex characters.
func Fingerprint(entries []Entry, optionalDepth int) string {
	sorted := append([]Entry{}, entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].sortKey() < sorted[j].sortKey() })

	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		s := fmt.Sprintf("%s:%s:%s:%s:%s", e.GroupID, e.ArtifactID, e.Version, e.Classifier, e.Packaging)
		if len(e.Exclusions) > 0 {
			excl := append([]string{}, e.Exclusions...)
			sort.Strings(excl)
			s += ":excl=" + strings.Join(excl, ",")
		}
		parts = append(parts, s)
	}
	joined := strings.Join(parts, "+")
	joined += fmt.Sprintf(":optional_depth=%d", optionalDepth)

	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:16]
}

// SpecInput is the unresolved environment spec hashed into the lock
// file's header, per spec.md §4.5: "hash of the un-resolved spec: root
// coordinates, global exclusions, BOMs, filters."
type SpecInput struct {
	Roots           []string // canonical coordinate strings, in declared order
	GlobalExclusions []string
	BOMs            []string
	Scopes          []string
	IncludeOptional bool
	OptionalDepth   int
}

// SpecHash hashes a SpecInput deterministically. Global exclusions, BOMs
// and scopes are sorted before hashing, so their order does not matter;
// roots keep their declaration order, so root order does.
func SpecHash(s SpecInput) string {
	roots := append([]string{}, s.Roots...)
	excl := append([]string{}, s.GlobalExclusions...)
	boms := append([]string{}, s.BOMs...)
	scopes := append([]string{}, s.Scopes...)
	sort.Strings(excl)
	sort.Strings(boms)
	sort.Strings(scopes)
	// Roots are NOT sorted: declaration order of root coordinates is
	// semantically meaningful (it drives BOM precedence and tie-breaks),
	// so two specs differing only in root order must hash differently.

	joined := strings.Join(roots, ",") + "|" +
		strings.Join(excl, ",") + "|" +
		strings.Join(boms, ",") + "|" +
		strings.Join(scopes, ",") + "|" +
		fmt.Sprintf("optional=%v:depth=%d", s.IncludeOptional, s.OptionalDepth)

	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])
}
