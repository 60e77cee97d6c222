package repository

import (
	"context"

	"github.com/chainguard-dev/gopom"
	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/chainguard-dev/mvnlaunch/internal/pom"
)

// PomLoader adapts a Client to internal/pom.Loader, so the effective-POM
// builder can fetch parent and BOM POMs without knowing anything about
// HTTP, caching, or on-disk layout.
type PomLoader struct {
	Client *Client
}

var _ pom.Loader = (*PomLoader)(nil)

// Load fetches and parses the POM for (groupID, artifactID, version).
func (l *PomLoader) Load(ctx context.Context, groupID, artifactID, version string) (pom.RawPOM, error) {
	coord := coordinate.Coordinate{GroupID: groupID, ArtifactID: artifactID, Version: version, Packaging: "pom"}
	path, err := l.Client.FetchPOMPath(ctx, coord)
	if err != nil {
		return pom.RawPOM{}, err
	}
	project, err := gopom.Parse(path)
	if err != nil {
		return pom.RawPOM{}, errs.Wrap(errs.KindParse, coord.String(), err)
	}
	return pom.FromGopom(project), nil
}
