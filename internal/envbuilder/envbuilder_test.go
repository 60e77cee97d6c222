package envbuilder

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/lockfile"
	"github.com/chainguard-dev/mvnlaunch/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves pre-built JAR files from a directory keyed by
// artifactId, standing in for internal/repository.Client.
type fakeFetcher struct {
	dir string
}

func (f *fakeFetcher) FetchArtifact(_ context.Context, coord coordinate.Coordinate) (string, string, error) {
	return filepath.Join(f.dir, coord.ArtifactID+".jar"), "https://repo.example/maven2", nil
}

func writeMinimalJAR(t *testing.T, path string, manifest string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	if manifest != "" {
		w, err := zw.Create("META-INF/MANIFEST.MF")
		require.NoError(t, err)
		_, err = w.Write([]byte(manifest))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())
}

func TestBuildMaterializesClassPathAndWritesSentinel(t *testing.T) {
	srcDir := t.TempDir()
	writeMinimalJAR(t, filepath.Join(srcDir, "commons-lang3.jar"), "")

	cacheRoot := t.TempDir()
	fetcher := &fakeFetcher{dir: srcDir}
	resolved := []resolve.Resolved{
		{Coordinate: coordinate.Coordinate{GroupID: "org.apache.commons", ArtifactID: "commons-lang3", Version: "3.12.0", Packaging: "jar"}, Scope: "compile"},
	}

	env, err := Build(context.Background(), fetcher, resolved, Options{CacheRoot: cacheRoot, Strategy: LinkCopy, ToolVersion: "test"})
	require.NoError(t, err)
	require.Len(t, env.ClassPath, 1)
	assert.Empty(t, env.ModulePath)
	assert.FileExists(t, filepath.Join(env.Dir, ".ok"))
	assert.FileExists(t, filepath.Join(env.Dir, "jgo.lock.toml"))

	lf, err := lockfile.Read(filepath.Join(env.Dir, "jgo.lock.toml"))
	require.NoError(t, err)
	require.Len(t, lf.Artifacts, 1)
	assert.Equal(t, "https://repo.example/maven2", lf.Artifacts[0].Repository)
}

func TestBuildSkipsRebuildWhenSentinelPresent(t *testing.T) {
	srcDir := t.TempDir()
	writeMinimalJAR(t, filepath.Join(srcDir, "commons-lang3.jar"), "")

	cacheRoot := t.TempDir()
	fetcher := &fakeFetcher{dir: srcDir}
	resolved := []resolve.Resolved{
		{Coordinate: coordinate.Coordinate{GroupID: "org.apache.commons", ArtifactID: "commons-lang3", Version: "3.12.0", Packaging: "jar"}, Scope: "compile"},
	}

	first, err := Build(context.Background(), fetcher, resolved, Options{CacheRoot: cacheRoot, Strategy: LinkCopy, ToolVersion: "test"})
	require.NoError(t, err)

	// Remove the source jar; a rebuild would fail, but the cached .ok
	// sentinel must make Build short-circuit without touching the fetcher.
	require.NoError(t, os.Remove(filepath.Join(srcDir, "commons-lang3.jar")))

	second, err := Build(context.Background(), fetcher, resolved, Options{CacheRoot: cacheRoot, Strategy: LinkCopy, ToolVersion: "test"})
	require.NoError(t, err)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.Len(t, second.ClassPath, 1)
}

func TestBuildModulePathPlacement(t *testing.T) {
	srcDir := t.TempDir()
	manifest := "Manifest-Version: 1.0\nAutomatic-Module-Name: com.example.widget\n"
	writeMinimalJAR(t, filepath.Join(srcDir, "widget.jar"), manifest)

	cacheRoot := t.TempDir()
	fetcher := &fakeFetcher{dir: srcDir}
	resolved := []resolve.Resolved{
		{Coordinate: coordinate.Coordinate{GroupID: "com.example", ArtifactID: "widget", Version: "1.0", Packaging: "jar"}, Scope: "compile"},
	}

	env, err := Build(context.Background(), fetcher, resolved, Options{CacheRoot: cacheRoot, Strategy: LinkCopy, ToolVersion: "test"})
	require.NoError(t, err)
	assert.Empty(t, env.ClassPath)
	require.Len(t, env.ModulePath, 1)
}

func TestBuildEmptyResolvedSetErrors(t *testing.T) {
	cacheRoot := t.TempDir()
	_, err := Build(context.Background(), &fakeFetcher{dir: t.TempDir()}, nil, Options{CacheRoot: cacheRoot})
	assert.Error(t, err)
}

func TestInstallCopyStrategy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hello"), 0o644))
	dest := filepath.Join(dir, "dest.txt")

	require.NoError(t, install(src, dest, LinkCopy))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestInstallHardLinkSameFilesystem(t *testing.T) {
	// Hard link within the same tempdir filesystem should succeed outright.
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	require.NoError(t, os.WriteFile(src, []byte("hi"), 0o644))
	dest := filepath.Join(dir, "dest.txt")

	require.NoError(t, install(src, dest, LinkHard))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))
}
