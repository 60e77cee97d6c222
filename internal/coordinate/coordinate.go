// Package coordinate tokenizes user-supplied coordinate and endpoint
// strings per spec.md §3 and §6.1.
package coordinate

import (
	"fmt"
	"strings"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

// Coordinate identifies an artifact track: (groupId, artifactId, version,
// classifier, packaging), independent of a concrete resolved version.
type Coordinate struct {
	GroupID    string
	ArtifactID string
	Version    string // may be "", "LATEST", "RELEASE", or a range like "[1.0,2.0)"
	Classifier string
	Packaging  string // defaults to "jar"
}

// Key returns the (groupId, artifactId, classifier, packaging) identity
// used to key the resolved map and dependency-management overrides.
func (c Coordinate) Key() string {
	return fmt.Sprintf("%s:%s:%s:%s", c.GroupID, c.ArtifactID, c.Classifier, c.Packaging)
}

// GAKey returns the coarser (groupId, artifactId) identity used by the
// resolver's nearest-wins map.
func (c Coordinate) GAKey() string {
	return c.GroupID + ":" + c.ArtifactID
}

func (c Coordinate) String() string {
	packaging := c.Packaging
	if packaging == "jar" {
		packaging = ""
	}
	fields := []string{c.GroupID, c.ArtifactID, c.Version, c.Classifier, packaging}
	for len(fields) > 2 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, ":")
}

// Normalize fills in the default packaging/classifier.
func (c Coordinate) Normalize() Coordinate {
	if c.Packaging == "" {
		c.Packaging = "jar"
	}
	return c
}

// GroupPath returns the groupId with dots replaced by slashes, the first
// path segment of a Maven repository layout.
func (c Coordinate) GroupPath() string {
	return strings.ReplaceAll(c.GroupID, ".", "/")
}

// ArtifactPath returns the repository-relative path of this artifact:
// g/with/slashes/a/v/a-v[-classifier].packaging, per spec.md §3.
// Callers must have already resolved Version to a concrete version.
func (c Coordinate) ArtifactPath() string {
	base := c.ArtifactID + "-" + c.Version
	if c.Classifier != "" {
		base += "-" + c.Classifier
	}
	packaging := c.Packaging
	if packaging == "" {
		packaging = "jar"
	}
	return c.GroupPath() + "/" + c.ArtifactID + "/" + c.Version + "/" + base + "." + packaging
}

// PomPath returns the repository-relative path of this artifact's POM.
func (c Coordinate) PomPath() string {
	return c.GroupPath() + "/" + c.ArtifactID + "/" + c.Version + "/" + c.ArtifactID + "-" + c.Version + ".pom"
}

// MetadataPath returns the repository-relative path of this artifact
// track's maven-metadata.xml.
func (c Coordinate) MetadataPath() string {
	return c.GroupPath() + "/" + c.ArtifactID + "/maven-metadata.xml"
}

// Placement is a caller/endpoint-forced classpath vs. module-path override.
type Placement int

const (
	// PlacementAuto lets the launch planner decide (default).
	PlacementAuto Placement = iota
	PlacementClassPath
	PlacementModulePath
)

// Exclusion is a (groupId, artifactId) pattern; either field may be "*".
type Exclusion struct {
	GroupID    string
	ArtifactID string
}

// Matches reports whether this exclusion pattern matches the given g:a,
// honoring "*" wildcards on either field.
func (e Exclusion) Matches(groupID, artifactID string) bool {
	return (e.GroupID == "*" || e.GroupID == groupID) &&
		(e.ArtifactID == "*" || e.ArtifactID == artifactID)
}

// Modifier is a single parenthesized endpoint modifier: placement,
// global-exclusion marker, or a per-coordinate exclusion.
type Modifier struct {
	Placement      Placement
	GlobalExclude  bool
	ExcludeCoord   *Exclusion
}

// CoordinateSpec is one parsed `coord` production from the endpoint
// grammar, before modifiers are split out into their effect on the spec.
type CoordinateSpec struct {
	Coordinate Coordinate
	Raw        bool // trailing "!"; disables dependency management for this coord
	Placement  Placement
	Exclusions []Exclusion // "x:G:A" modifiers on this coordinate
	IsExclude  bool        // "x" modifier: this coord IS a global exclusion, not a root
}

// Endpoint is a fully parsed endpoint expression: `coord ('+' coord)* ('@' mainClass)?`.
type Endpoint struct {
	Coordinates []CoordinateSpec
	MainClass   string
}

// ParseCoordinate parses a single `G:A[:V][:C][:P]` token with no
// modifiers or trailing "!", for use in plain project-file coordinate lists.
func ParseCoordinate(s string) (Coordinate, error) {
	spec, err := ParseCoordinateSpec(s)
	if err != nil {
		return Coordinate{}, err
	}
	return spec.Coordinate, nil
}

// ParseCoordinateSpec parses one `coord` production, including modifiers
// and the trailing "!" raw marker.
func ParseCoordinateSpec(s string) (CoordinateSpec, error) {
	orig := s
	spec := CoordinateSpec{}

	if strings.HasSuffix(s, "!") {
		spec.Raw = true
		s = strings.TrimSuffix(s, "!")
	}

	if idx := strings.Index(s, "("); idx != -1 {
		if !strings.HasSuffix(s, ")") {
			return CoordinateSpec{}, errs.New(errs.KindParse, orig)
		}
		modStr := s[idx+1 : len(s)-1]
		s = s[:idx]
		mods := strings.Split(modStr, ",")
		for _, m := range mods {
			m = strings.TrimSpace(m)
			switch {
			case m == "c" || m == "cp":
				spec.Placement = PlacementClassPath
			case m == "m" || m == "mp" || m == "p":
				spec.Placement = PlacementModulePath
			case m == "x":
				spec.IsExclude = true
			case strings.HasPrefix(m, "x:"):
				parts := strings.SplitN(strings.TrimPrefix(m, "x:"), ":", 2)
				if len(parts) != 2 {
					return CoordinateSpec{}, errs.New(errs.KindParse, orig)
				}
				spec.Exclusions = append(spec.Exclusions, Exclusion{GroupID: parts[0], ArtifactID: parts[1]})
			case m == "":
				// tolerate trailing commas
			default:
				return CoordinateSpec{}, errs.Wrap(errs.KindParse, orig, fmt.Errorf("unknown modifier %q", m))
			}
		}
	}

	fields := strings.Split(s, ":")
	if len(fields) < 2 {
		return CoordinateSpec{}, errs.Wrap(errs.KindParse, orig, fmt.Errorf("coordinate must have at least groupId:artifactId"))
	}
	c := Coordinate{GroupID: fields[0], ArtifactID: fields[1]}
	if c.GroupID == "" || c.ArtifactID == "" {
		return CoordinateSpec{}, errs.Wrap(errs.KindParse, orig, fmt.Errorf("groupId and artifactId must be non-empty"))
	}
	if len(fields) >= 3 {
		c.Version = fields[2]
	}
	if len(fields) >= 4 {
		c.Classifier = fields[3]
	}
	if len(fields) >= 5 {
		c.Packaging = strings.ToLower(fields[4])
	}
	if len(fields) > 5 {
		return CoordinateSpec{}, errs.Wrap(errs.KindParse, orig, fmt.Errorf("too many colon-separated fields"))
	}
	spec.Coordinate = c.Normalize()
	return spec, nil
}

// ParseEndpoint parses the full endpoint grammar from spec.md §6.1:
//
//	endpoint   := coord ('+' coord)* ('@' mainClass)?
func ParseEndpoint(s string) (Endpoint, error) {
	var mainClass string
	if idx := strings.LastIndex(s, "@"); idx != -1 {
		mainClass = s[idx+1:]
		s = s[:idx]
	}
	if s == "" {
		return Endpoint{}, errs.New(errs.KindParse, "empty endpoint")
	}
	var specs []CoordinateSpec
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			return Endpoint{}, errs.New(errs.KindParse, s)
		}
		cs, err := ParseCoordinateSpec(part)
		if err != nil {
			return Endpoint{}, err
		}
		specs = append(specs, cs)
	}
	return Endpoint{Coordinates: specs, MainClass: mainClass}, nil
}

// Format renders a Coordinate back to its canonical string form. When
// full is false, default packaging ("jar") and an empty classifier are
// elided, satisfying the parse/format round-trip law of spec.md §8.
func Format(c Coordinate, full bool) string {
	if !full {
		return c.String()
	}
	classifier := c.Classifier
	packaging := c.Packaging
	if packaging == "" {
		packaging = "jar"
	}
	s := fmt.Sprintf("%s:%s", c.GroupID, c.ArtifactID)
	if c.Version != "" {
		s += ":" + c.Version
	}
	s += ":" + classifier + ":" + packaging
	return s
}
