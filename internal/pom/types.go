// Package pom implements the POM Model & Effective-POM Builder
// (spec.md §4.1): parent-chain merge, fixed-point property interpolation,
// profile activation, and BOM (dependencyManagement import) resolution.
//
// Raw XML parsing is delegated to github.com/chainguard-dev/gopom (the
// teacher's own dependency); this package performs the effective-POM
// algorithm on top of the raw tree gopom.Parse returns, the same way the
// teacher's pkg.AnalyzeProject builds its own analysis on top of a parsed
// gopom.Project rather than reimplementing XML parsing.
package pom

import (
	"fmt"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
)

// Dependency is a declared dependency edge after scope/optional/exclusion
// fields have been read off the raw POM (but before transitive scope
// filtering, which is the Resolver's job).
type Dependency struct {
	Coordinate coordinate.Coordinate
	Scope      string // compile, provided, runtime, test, system; "" means compile
	Optional   bool
	Exclusions []coordinate.Exclusion
}

// EffectiveScope returns Scope with the Maven default of "compile" applied.
func (d Dependency) EffectiveScope() string {
	if d.Scope == "" {
		return "compile"
	}
	return d.Scope
}

// EffectivePOM is a POM after parent merge, interpolation, profile
// activation, and BOM import — spec.md §3's "Effective POM".
type EffectivePOM struct {
	Coordinate           coordinate.Coordinate
	Properties           map[string]string
	DependencyManagement []Dependency
	Dependencies         []Dependency
	Repositories         []string

	// Warnings accumulates soft failures: unresolved interpolation
	// references (spec.md §4.1 failure modes: "leave literal and record a
	// soft warning"). Profile activators of unsupported kinds add no
	// warning (see evaluateActivation).
	Warnings []string
}

// ManagedVersion looks up a managed version/exclusions entry for (g,a,c,p)
// in the effective dependencyManagement, outermost-to-innermost order
// already applied by the builder (outer/earlier wins).
func (p *EffectivePOM) ManagedVersion(key string) (Dependency, bool) {
	for _, d := range p.DependencyManagement {
		if d.Coordinate.Key() == key {
			return d, true
		}
	}
	return Dependency{}, false
}

func managedKey(c coordinate.Coordinate) string {
	return fmt.Sprintf("%s:%s:%s:%s", c.GroupID, c.ArtifactID, c.Classifier, c.Packaging)
}
