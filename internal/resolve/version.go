// Package resolve implements the Version Resolver and the Resolver
// (spec.md §4.2, §4.3): cross-repository LATEST/RELEASE/range resolution
// and layered-BFS nearest-wins dependency mediation.
package resolve

import (
	"context"
	"sort"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/chainguard-dev/mvnlaunch/internal/mavenver"
	"github.com/chainguard-dev/mvnlaunch/internal/repository"
)

// VersionResolver resolves a version spec ("LATEST", "RELEASE", a range,
// or a concrete version) to a concrete version, per spec.md §4.2.
type VersionResolver struct {
	Client *repository.Client
}

// Resolve returns spec unchanged if it names a concrete version, and
// otherwise unions the version lists of every configured repository's
// maven-metadata.xml and picks the greatest under Maven's version order —
// deliberately comparing across repositories rather than trusting any
// single repository's <lastUpdated>, per spec.md §4.2's documented
// deviation from upstream Maven (exercised by TestCrossRepositoryLatest
// for spec.md §8 scenario 5).
func (vr *VersionResolver) Resolve(ctx context.Context, groupID, artifactID, spec string) (string, error) {
	if spec == "" {
		return "", errs.New(errs.KindResolution, groupID+":"+artifactID+": missing version")
	}
	isRange := mavenver.IsRange(spec)
	if spec != "LATEST" && spec != "RELEASE" && !isRange {
		return spec, nil
	}

	metas, err := vr.Client.AllMetadata(ctx, groupID, artifactID)
	if err != nil {
		return "", err
	}

	seen := map[string]bool{}
	var versions []string
	for _, m := range metas {
		for _, v := range m.Versioning.Versions {
			if !seen[v] {
				seen[v] = true
				versions = append(versions, v)
			}
		}
	}
	sort.Strings(versions) // deterministic input order; Max breaks ties by version order regardless

	var candidates []string
	switch {
	case spec == "RELEASE":
		for _, v := range versions {
			if !mavenver.IsSnapshot(v) {
				candidates = append(candidates, v)
			}
		}
	case spec == "LATEST":
		candidates = versions
	case isRange:
		r, err := mavenver.ParseRange(spec)
		if err != nil {
			return "", err
		}
		for _, v := range versions {
			if r.Includes(v) {
				candidates = append(candidates, v)
			}
		}
	}

	if len(candidates) == 0 {
		return "", errs.New(errs.KindNotFound, groupID+":"+artifactID+":"+spec+": no matching version across configured repositories")
	}
	return mavenver.Max(candidates), nil
}
