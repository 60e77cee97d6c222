package pom

import (
	"context"
	"fmt"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

const maxParentDepth = 50
const maxBOMDepth = 16

// Build computes the effective POM for (groupID, artifactID, version),
// per spec.md §4.1: parent merge, interpolation, profile activation, then
// BOM import.
func Build(ctx context.Context, loader Loader, groupID, artifactID, version string, actx ActivationContext) (*EffectivePOM, error) {
	return build(ctx, loader, groupID, artifactID, version, actx, 0)
}

// build is Build at a given BOM-import nesting depth; importBOMs passes
// depth+1 for each nested import, so maxBOMDepth bounds import cycles.
func build(ctx context.Context, loader Loader, groupID, artifactID, version string, actx ActivationContext, bomDepth int) (*EffectivePOM, error) {
	var warnings []string
	merged, err := buildMerged(ctx, loader, groupID, artifactID, version, actx, map[string]bool{}, 0, &warnings)
	if err != nil {
		return nil, err
	}

	effective := &EffectivePOM{
		Coordinate: coordinate.Coordinate{GroupID: merged.GroupID, ArtifactID: merged.ArtifactID, Version: merged.Version, Packaging: merged.Packaging}.Normalize(),
		Warnings:   warnings,
	}
	for _, r := range merged.Repositories {
		effective.Repositories = append(effective.Repositories, r)
	}

	in := &interpolator{properties: merged.Properties, warnings: &warnings}
	for _, d := range merged.Dependencies {
		rd, err := in.resolveDependency(d)
		if err != nil {
			return nil, errs.Wrap(errs.KindResolution, fmt.Sprintf("%s:%s:%s", groupID, artifactID, version), err)
		}
		effective.Dependencies = append(effective.Dependencies, toDependency(rd))
	}
	var managed []Dependency
	for _, d := range merged.ManagedDependencies {
		rd, err := in.resolveDependency(d)
		if err != nil {
			return nil, errs.Wrap(errs.KindResolution, fmt.Sprintf("%s:%s:%s", groupID, artifactID, version), err)
		}
		managed = append(managed, toDependency(rd))
	}

	// BOM import: replace each scope=import,type=pom entry in-place with
	// the imported POM's effective dependencyManagement, left-to-right,
	// earlier imports not overridden by later ones (spec.md §4.1 step 6,
	// §4.3 "Conflicting BOM imports" failure mode, §9 Open Question).
	effective.DependencyManagement, err = importBOMs(ctx, loader, managed, actx, bomDepth)
	if err != nil {
		return nil, err
	}
	effective.Warnings = warnings
	return effective, nil
}

func toDependency(d RawDependency) Dependency {
	return Dependency{
		Coordinate: coordinate.Coordinate{
			GroupID:    d.GroupID,
			ArtifactID: d.ArtifactID,
			Version:    d.Version,
			Classifier: d.Classifier,
			Packaging:  d.Type,
		}.Normalize(),
		Scope:      d.Scope,
		Optional:   d.Optional,
		Exclusions: d.Exclusions,
	}
}

// buildMerged loads the raw POM, recursively merges the parent chain, and
// applies active profiles, returning a single merged RawPOM ready for
// interpolation. It does not interpolate or import BOMs — those happen
// once, at the top of Build, after merging is complete, matching the
// spec's step ordering (merge parents, then interpolate, then import BOMs).
func buildMerged(ctx context.Context, loader Loader, groupID, artifactID, version string, actx ActivationContext, visited map[string]bool, depth int, warnings *[]string) (RawPOM, error) {
	key := groupID + ":" + artifactID + ":" + version
	if depth > maxParentDepth {
		return RawPOM{}, errs.New(errs.KindResolution, fmt.Sprintf("parent chain exceeds depth %d at %s", maxParentDepth, key))
	}
	if visited[key] {
		return RawPOM{}, errs.New(errs.KindResolution, fmt.Sprintf("cycle in parent chain at %s", key))
	}
	visited[key] = true

	raw, err := loader.Load(ctx, groupID, artifactID, version)
	if err != nil {
		return RawPOM{}, errs.Wrap(errs.KindNotFound, key, err)
	}

	if raw.HasParent {
		parent, err := buildMerged(ctx, loader, raw.ParentGroupID, raw.ParentArtifactID, raw.ParentVersion, actx, visited, depth+1, warnings)
		if err != nil {
			return RawPOM{}, err
		}
		raw = mergeParent(raw, parent)
	}

	// Seed well-known properties before profile/property merge so profile
	// activation and property overrides can reference them.
	raw.Properties = mergeProperties(wellKnownProperties(raw.GroupID, raw.ArtifactID, raw.Version), raw.Properties)

	for _, prof := range raw.Profiles {
		active, recognized := evaluateActivation(prof.Activation, actx, raw.Properties)
		if !recognized {
			*warnings = append(*warnings, fmt.Sprintf("profile %s: unrecognized activator, treated as inactive", prof.ID))
		}
		if !active {
			continue
		}
		raw.Properties = mergeProperties(raw.Properties, prof.Properties)
		raw.Dependencies = mergeDependencies(raw.Dependencies, prof.Dependencies)
		raw.ManagedDependencies = mergeDependencies(raw.ManagedDependencies, prof.ManagedDependencies)
		raw.Repositories = append(raw.Repositories, prof.Repositories...)
	}

	return raw, nil
}

// mergeParent applies spec.md §4.1 step 2's merge rules: child overrides
// parent by key for properties and dependencyManagement, dependencies are
// appended with child-wins on key collision, and scalar fields fall back
// to the parent when empty.
func mergeParent(child, parent RawPOM) RawPOM {
	merged := child
	merged.Properties = mergeProperties(parent.Properties, child.Properties)
	merged.ManagedDependencies = mergeDependencies(parent.ManagedDependencies, child.ManagedDependencies)
	merged.Dependencies = mergeDependencies(parent.Dependencies, child.Dependencies)
	merged.Repositories = append(append([]string{}, parent.Repositories...), child.Repositories...)
	if merged.Version == "" {
		merged.Version = parent.Version
	}
	if merged.Packaging == "" {
		merged.Packaging = parent.Packaging
	}
	if merged.GroupID == "" {
		merged.GroupID = parent.GroupID
	}
	return merged
}

// mergeDependencies appends override on top of base, letting override win
// on (g,a,c,p) key collisions while preserving base's ordering for
// non-colliding entries followed by override's.
func mergeDependencies(base, override []RawDependency) []RawDependency {
	keyed := map[string]int{}
	result := append([]RawDependency{}, base...)
	for i, d := range result {
		keyed[depKey(d)] = i
	}
	for _, d := range override {
		if i, ok := keyed[depKey(d)]; ok {
			result[i] = d
			continue
		}
		keyed[depKey(d)] = len(result)
		result = append(result, d)
	}
	return result
}

func depKey(d RawDependency) string {
	return fmt.Sprintf("%s:%s:%s:%s", d.GroupID, d.ArtifactID, d.Classifier, d.Type)
}

// importBOMs walks the final dependencyManagement list left to right,
// replacing each scope=import,type=pom entry with the imported POM's own
// effective dependencyManagement. Earlier imports are not overridden by
// later ones: once a key has been set by an earlier BOM (or the POM's own
// pinned entries before it), later entries for the same key are dropped.
func importBOMs(ctx context.Context, loader Loader, managed []Dependency, actx ActivationContext, depth int) ([]Dependency, error) {
	if depth > maxBOMDepth {
		return nil, errs.New(errs.KindResolution, "BOM import depth exceeds limit (cycle)")
	}
	seen := map[string]bool{}
	var result []Dependency
	for _, d := range managed {
		key := managedKey(d.Coordinate)
		if d.Scope == "import" && d.Coordinate.Packaging == "pom" {
			imported, err := build(ctx, loader, d.Coordinate.GroupID, d.Coordinate.ArtifactID, d.Coordinate.Version, actx, depth+1)
			if err != nil {
				return nil, errs.Wrap(errs.KindResolution, fmt.Sprintf("BOM import %s", d.Coordinate), err)
			}
			for _, bd := range imported.DependencyManagement {
				bk := managedKey(bd.Coordinate)
				if seen[bk] {
					continue
				}
				seen[bk] = true
				result = append(result, bd)
			}
			continue
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, d)
	}
	return result, nil
}
