// Package mavenver implements Maven's canonical version-order comparison
// and version-range matching, per spec.md §9's Design Notes and the
// GLOSSARY's "Version order" entry.
//
// No ecosystem semver library (golang.org/x/mod/semver, Masterminds/semver)
// implements Maven's qualifier precedence (alpha < beta < milestone < rc <
// snapshot < <release> < sp, with unknown qualifiers sorted alphabetically
// after the known ones); this is hand-rolled per the spec's own design
// note, the same way the corpus's own `thought-machine/please` Maven
// resolver hand-rolls its Version type rather than reach for a semver
// package that wouldn't fit.
package mavenver

import (
	"strconv"
	"strings"
)

// qualifierRank gives known qualifiers their fixed precedence. "" (the
// empty qualifier, i.e. a plain release) sits between "rc"/"snapshot" and
// "sp", with unknown qualifiers ranked above all known ones, compared
// alphabetically among themselves.
var qualifierRank = map[string]int{
	"alpha":     0,
	"a":         0,
	"beta":      1,
	"b":         1,
	"milestone": 2,
	"m":         2,
	"rc":        3,
	"cr":        3,
	"snapshot":  4,
	"":          5,
	"ga":        5,
	"final":     5,
	"release":   5,
	"sp":        6,
}

const unknownQualifierRank = 100

type token struct {
	numeric bool
	num     int64
	str     string
}

// tokenize splits a version string into numeric and qualifier tokens on
// '.', '-', and digit/letter transitions, per spec.md §9.
func tokenize(v string) []token {
	v = strings.ToLower(v)
	var tokens []token
	var cur strings.Builder
	var curIsDigit bool
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		s := cur.String()
		if curIsDigit {
			n, err := strconv.ParseInt(s, 10, 64)
			if err == nil {
				tokens = append(tokens, token{numeric: true, num: n})
			} else {
				tokens = append(tokens, token{str: s})
			}
		} else {
			tokens = append(tokens, token{str: normalizeQualifier(s)})
		}
		cur.Reset()
	}
	for _, r := range v {
		switch {
		case r == '.' || r == '-':
			flush()
		case r >= '0' && r <= '9':
			if cur.Len() > 0 && !curIsDigit {
				flush()
			}
			curIsDigit = true
			cur.WriteRune(r)
		default:
			if cur.Len() > 0 && curIsDigit {
				flush()
			}
			curIsDigit = false
			cur.WriteRune(r)
		}
	}
	flush()
	if len(tokens) == 0 {
		tokens = append(tokens, token{numeric: true, num: 0})
	}
	return tokens
}

func normalizeQualifier(s string) string {
	switch s {
	case "final", "ga", "release":
		return ""
	default:
		return s
	}
}

// Compare implements Maven's version-order comparison: returns -1, 0, or
// 1 as a < b, a == b, or a > b. Numeric segments compare numerically;
// qualifier segments compare by fixed precedence, falling back to
// lexical order for unknown qualifiers. Missing trailing segments are
// treated as zero (numeric) or the release qualifier (string), so "1.0"
// equals "1.0.0" and "1-alpha" < "1".
func Compare(a, b string) int {
	ta, tb := tokenize(a), tokenize(b)
	n := len(ta)
	if len(tb) > n {
		n = len(tb)
	}
	for i := 0; i < n; i++ {
		var x, y token
		if i < len(ta) {
			x = ta[i]
		} else {
			x = token{numeric: true, num: 0}
		}
		if i < len(tb) {
			y = tb[i]
		} else {
			y = token{numeric: true, num: 0}
		}
		if c := compareToken(x, y); c != 0 {
			return c
		}
	}
	return 0
}

func compareToken(x, y token) int {
	if x.numeric && y.numeric {
		switch {
		case x.num < y.num:
			return -1
		case x.num > y.num:
			return 1
		default:
			return 0
		}
	}
	if x.numeric != y.numeric {
		// A numeric token outranks a qualifier token at the same position,
		// except that numeric 0 ranks level with the release ("") qualifier.
		if x.numeric {
			if x.num == 0 {
				return compareQualifier("", y.str)
			}
			return 1
		}
		if y.num == 0 {
			return compareQualifier(x.str, "")
		}
		return -1
	}
	return compareQualifier(x.str, y.str)
}

// compareQualifier compares two qualifier strings by their fixed
// precedence, falling back to lexical order when either is unknown.
func compareQualifier(xs, ys string) int {
	rx, okx := qualifierRank[xs]
	ry, oky := qualifierRank[ys]
	if !okx {
		rx = unknownQualifierRank
	}
	if !oky {
		ry = unknownQualifierRank
	}
	if rx != ry {
		if rx < ry {
			return -1
		}
		return 1
	}
	if rx == unknownQualifierRank {
		return strings.Compare(xs, ys)
	}
	return 0
}

// Less reports whether a < b under Maven's version order.
func Less(a, b string) bool { return Compare(a, b) < 0 }

// Max returns the greatest version in versions under Maven's version
// order, or "" if versions is empty.
func Max(versions []string) string {
	if len(versions) == 0 {
		return ""
	}
	best := versions[0]
	for _, v := range versions[1:] {
		if Less(best, v) {
			best = v
		}
	}
	return best
}

// IsSnapshot reports whether v ends in "-SNAPSHOT" (case-insensitive).
func IsSnapshot(v string) bool {
	return strings.HasSuffix(strings.ToLower(v), "-snapshot")
}
