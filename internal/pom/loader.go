package pom

import "context"

// Loader fetches and parses the raw POM for a concrete (groupId,
// artifactId, version), used for parent and BOM lookups while building an
// effective POM. internal/repository implements this against the
// Repository Client, keeping this package free of any HTTP/cache
// concerns.
type Loader interface {
	Load(ctx context.Context, groupID, artifactID, version string) (RawPOM, error)
}
