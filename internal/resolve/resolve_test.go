package resolve

import (
	"context"
	"testing"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/pom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeLoader is an in-memory pom.Loader fixture, keyed "g:a:v", for
// exercising the Resolver without a network-backed repository.Client.
type fakeLoader map[string]pom.RawPOM

func (f fakeLoader) Load(_ context.Context, g, a, v string) (pom.RawPOM, error) {
	raw, ok := f[g+":"+a+":"+v]
	if !ok {
		return pom.RawPOM{}, errNotFound(g + ":" + a + ":" + v)
	}
	return raw, nil
}

type errNotFound string

func (e errNotFound) Error() string { return string(e) + " not found" }

func dep(g, a, v, scope string) pom.RawDependency {
	return pom.RawDependency{GroupID: g, ArtifactID: a, Version: v, Type: "jar", Scope: scope}
}

func noVersions() *VersionResolver { return &VersionResolver{} }

func TestResolveNearestWins(t *testing.T) {
	loader := fakeLoader{
		"g:A:1.0": {GroupID: "g", ArtifactID: "A", Version: "1.0",
			Dependencies: []pom.RawDependency{dep("g", "X", "1.0", "compile")}},
		"g:B:1.0": {GroupID: "g", ArtifactID: "B", Version: "1.0",
			Dependencies: []pom.RawDependency{dep("g", "Y", "1.0", "compile")}},
		"g:Y:1.0": {GroupID: "g", ArtifactID: "Y", Version: "1.0",
			Dependencies: []pom.RawDependency{dep("g", "X", "2.0", "compile")}},
		"g:X:1.0": {GroupID: "g", ArtifactID: "X", Version: "1.0"},
		"g:X:2.0": {GroupID: "g", ArtifactID: "X", Version: "2.0"},
	}
	r := NewResolver(loader, noVersions())
	roots := []coordinate.Coordinate{
		{GroupID: "g", ArtifactID: "A", Version: "1.0"},
		{GroupID: "g", ArtifactID: "B", Version: "1.0"},
	}
	result, err := r.Resolve(context.Background(), roots, Options{})
	require.NoError(t, err)

	var gotX string
	for _, res := range result.Resolved {
		if res.Coordinate.ArtifactID == "X" {
			gotX = res.Coordinate.Version
		}
	}
	assert.Equal(t, "1.0", gotX, "depth-1 occurrence of X must win over depth-2")
}

func TestResolveBOMPinningNotOverridden(t *testing.T) {
	loader := fakeLoader{
		"g:app:1.0": {GroupID: "g", ArtifactID: "app", Version: "1.0",
			Dependencies: []pom.RawDependency{
				dep("org.springframework", "spring-core", "", "compile"),
				dep("g", "child", "1.0", "compile"),
			}},
		"g:child:1.0": {GroupID: "g", ArtifactID: "child", Version: "1.0",
			Dependencies: []pom.RawDependency{
				dep("org.springframework", "spring-core", "5.3.0", "compile"),
			}},
		"org.springframework:spring-core:5.3.22": {GroupID: "org.springframework", ArtifactID: "spring-core", Version: "5.3.22"},
		"com.example:bom:3.0.0": {GroupID: "com.example", ArtifactID: "bom", Version: "3.0.0", Packaging: "pom",
			ManagedDependencies: []pom.RawDependency{
				dep("org.springframework", "spring-core", "5.3.22", "compile"),
			}},
	}
	r := NewResolver(loader, noVersions())
	roots := []coordinate.Coordinate{{GroupID: "g", ArtifactID: "app", Version: "1.0"}}
	opts := Options{BOMs: []coordinate.Coordinate{{GroupID: "com.example", ArtifactID: "bom", Version: "3.0.0"}}}

	result, err := r.Resolve(context.Background(), roots, opts)
	require.NoError(t, err)

	var gotVersion string
	for _, res := range result.Resolved {
		if res.Coordinate.ArtifactID == "spring-core" {
			gotVersion = res.Coordinate.Version
		}
	}
	assert.Equal(t, "5.3.22", gotVersion)
}

func TestResolveExclusionPropagation(t *testing.T) {
	loader := fakeLoader{
		"g:httpclient:4.5.14": {GroupID: "g", ArtifactID: "httpclient", Version: "4.5.14",
			Dependencies: []pom.RawDependency{dep("commons-logging", "commons-logging", "1.2", "compile")}},
	}
	r := NewResolver(loader, noVersions())
	roots := []coordinate.Coordinate{{GroupID: "g", ArtifactID: "httpclient", Version: "4.5.14"}}
	opts := Options{GlobalExclusions: []coordinate.Exclusion{{GroupID: "commons-logging", ArtifactID: "commons-logging"}}}

	result, err := r.Resolve(context.Background(), roots, opts)
	require.NoError(t, err)
	for _, res := range result.Resolved {
		assert.NotEqual(t, "commons-logging", res.Coordinate.GroupID)
	}
}

func TestResolveLenientDropsUnresolved(t *testing.T) {
	loader := fakeLoader{
		"g:app:1.0": {GroupID: "g", ArtifactID: "app", Version: "1.0",
			Dependencies: []pom.RawDependency{dep("g", "missing", "9.9", "compile")}},
	}
	r := NewResolver(loader, noVersions())
	roots := []coordinate.Coordinate{{GroupID: "g", ArtifactID: "app", Version: "1.0"}}

	_, err := r.Resolve(context.Background(), roots, Options{})
	require.Error(t, err, "strict mode must fail on an unresolved dependency")

	result, err := r.Resolve(context.Background(), roots, Options{Lenient: true})
	require.NoError(t, err)
	require.Len(t, result.Unresolved, 1)
	assert.Equal(t, "missing", result.Unresolved[0].Coordinate.ArtifactID)
}

func TestResolveTestScopeNotTransitive(t *testing.T) {
	loader := fakeLoader{
		"g:app:1.0": {GroupID: "g", ArtifactID: "app", Version: "1.0",
			Dependencies: []pom.RawDependency{dep("g", "junit", "4.13", "test")}},
		"g:junit:4.13": {GroupID: "g", ArtifactID: "junit", Version: "4.13",
			Dependencies: []pom.RawDependency{dep("g", "hamcrest", "1.3", "compile")}},
	}
	r := NewResolver(loader, noVersions())
	roots := []coordinate.Coordinate{{GroupID: "g", ArtifactID: "app", Version: "1.0"}}

	result, err := r.Resolve(context.Background(), roots, Options{IncludeTest: true, Scopes: []string{"compile", "runtime", "test"}})
	require.NoError(t, err)

	names := map[string]bool{}
	for _, res := range result.Resolved {
		names[res.Coordinate.ArtifactID] = true
	}
	assert.True(t, names["junit"])
	assert.False(t, names["hamcrest"], "junit's own transitive compile dep must not be pulled in through a test-scope edge")
}
