package mavenver

import (
	"strings"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

// Range is a Maven version-range spec, e.g. "[1.0,2.0)", "[1.5,)", "(,2.0]".
// Broken multi-interval ranges ("(,1.0],[1.2,)") are not supported, matching
// the corpus's own `please` Maven resolver, which carries the same caveat.
type Range struct {
	raw          string
	hasLower     bool
	lower        string
	lowerIncl    bool
	hasUpper     bool
	upper        string
	upperIncl    bool
	exactVersion string // set when the range is really a single bracketed version, e.g. "[1.0]"
}

// IsRange reports whether s uses range syntax ('[' or '(' prefix).
func IsRange(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "[") || strings.HasPrefix(s, "(")
}

// ParseRange parses a Maven version-range expression.
func ParseRange(s string) (Range, error) {
	orig := s
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Range{}, errs.New(errs.KindParse, orig)
	}
	lowerIncl := s[0] == '['
	if !lowerIncl && s[0] != '(' {
		return Range{}, errs.New(errs.KindParse, orig)
	}
	last := s[len(s)-1]
	upperIncl := last == ']'
	if !upperIncl && last != ')' {
		return Range{}, errs.New(errs.KindParse, orig)
	}
	inner := s[1 : len(s)-1]
	if !strings.Contains(inner, ",") {
		// A single bracketed version, e.g. "[1.5]" means exactly 1.5.
		return Range{raw: orig, exactVersion: inner}, nil
	}
	parts := strings.SplitN(inner, ",", 2)
	r := Range{raw: orig}
	if parts[0] != "" {
		r.hasLower = true
		r.lower = parts[0]
		r.lowerIncl = lowerIncl
	}
	if parts[1] != "" {
		r.hasUpper = true
		r.upper = parts[1]
		r.upperIncl = upperIncl
	}
	return r, nil
}

// Includes reports whether v falls within the range.
func (r Range) Includes(v string) bool {
	if r.exactVersion != "" {
		return Compare(v, r.exactVersion) == 0
	}
	if r.hasLower {
		c := Compare(v, r.lower)
		if c < 0 || (c == 0 && !r.lowerIncl) {
			return false
		}
	}
	if r.hasUpper {
		c := Compare(v, r.upper)
		if c > 0 || (c == 0 && !r.upperIncl) {
			return false
		}
	}
	return true
}

// String returns the original range expression.
func (r Range) String() string { return r.raw }
