package orchestrator

import (
	"testing"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/envbuilder"
	"github.com/chainguard-dev/mvnlaunch/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRootsSplitsExclusionsAndPlacements(t *testing.T) {
	roots, excl, placements, mainClass, err := parseRoots(
		"org.apache.httpcomponents:httpclient:4.5.14(x:commons-logging:commons-logging)+com.example:widget:1.0(mp)@com.example.Main")
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.Equal(t, "httpclient", roots[0].ArtifactID)
	assert.Equal(t, "widget", roots[1].ArtifactID)
	require.Len(t, excl, 1)
	assert.Equal(t, "commons-logging", excl[0].GroupID)
	assert.Equal(t, coordinate.PlacementModulePath, placements[roots[1].Key()])
	assert.Equal(t, "com.example.Main", mainClass)
}

func TestParseRootsGlobalExclude(t *testing.T) {
	roots, excl, _, _, err := parseRoots("org.slf4j:slf4j-api:2.0.0+commons-logging:commons-logging(x)")
	require.NoError(t, err)
	assert.Len(t, roots, 1)
	require.Len(t, excl, 1)
	assert.Equal(t, "commons-logging", excl[0].GroupID)
}

func TestSpecHashDeterministic(t *testing.T) {
	spec := Spec{
		Endpoint: "org.apache.commons:commons-lang3:3.12.0",
		Options:  resolve.Options{Scopes: []string{"runtime", "compile"}},
	}
	roots, _, _, _, err := parseRoots(spec.Endpoint)
	require.NoError(t, err)

	h1 := specHash(spec, roots, nil)
	h2 := specHash(spec, roots, nil)
	assert.Equal(t, h1, h2)

	spec2 := spec
	spec2.Options.Scopes = []string{"compile", "runtime"} // different order, same set
	h3 := specHash(spec2, roots, nil)
	assert.Equal(t, h1, h3)
}

func TestRenderResultSortsAndMapsPlacement(t *testing.T) {
	result := &resolve.Result{
		Resolved: []resolve.Resolved{
			{Coordinate: coordinate.Coordinate{GroupID: "org.z", ArtifactID: "zlib", Version: "1.0", Packaging: "jar"}, Scope: "compile"},
			{Coordinate: coordinate.Coordinate{GroupID: "org.a", ArtifactID: "alib", Version: "1.0", Packaging: "jar"}, Scope: "compile"},
		},
		Unresolved: []resolve.Unresolved{
			{Coordinate: coordinate.Coordinate{GroupID: "org.x", ArtifactID: "missing"}, Reason: "not found"},
		},
		Warnings: []string{"some warning"},
	}
	placements := map[string]coordinate.Placement{
		coordinate.Coordinate{GroupID: "org.a", ArtifactID: "alib", Packaging: "jar"}.Key(): coordinate.PlacementModulePath,
	}

	r := RenderResult("resolve", result, &envbuilder.Env{Dir: "/tmp/env", Fingerprint: "fp"}, placements)
	require.Len(t, r.Artifacts, 2)
	assert.Equal(t, "alib", r.Artifacts[0].ArtifactID)
	assert.Equal(t, "modulepath", r.Artifacts[0].Placement)
	assert.Equal(t, "zlib", r.Artifacts[1].ArtifactID)
	assert.Equal(t, "", r.Artifacts[1].Placement)
	assert.Equal(t, "fp", r.Fingerprint)
	assert.Len(t, r.Unresolved, 1)
	assert.Equal(t, []string{"some warning"}, r.Warnings)
}
