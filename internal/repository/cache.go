package repository

import (
	"os"
	"path/filepath"
	"time"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
)

// cachePath returns the on-disk path for a repository-relative path under
// this client's per-repository cache root.
func (c *Client) cachePath(repoID, relPath string) string {
	return filepath.Join(c.cacheDir, repoID, filepath.FromSlash(relPath))
}

// cachedModTime returns the mtime of a cached file, or the zero time if
// it doesn't exist.
func cachedModTime(path string) time.Time {
	fi, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return fi.ModTime()
}

func cachedBytes(path string) ([]byte, bool) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return b, true
}

// writeAtomic writes data to path via a ".part" sibling plus rename, so a
// concurrent reader never observes a partially written file (spec.md §4.4,
// §5 ambient-stack note on atomic cache writes).
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// pomCachePath, metadataCachePath, and artifactCachePath give the on-disk
// cache location for each fetch kind, for a given repository, using
// Coordinate's Maven-layout path derivation.
func (c *Client) pomCachePath(repoID string, coord coordinate.Coordinate) string {
	return c.cachePath(repoID, coord.PomPath())
}

func (c *Client) metadataCachePath(repoID string, groupID, artifactID string) string {
	ga := coordinate.Coordinate{GroupID: groupID, ArtifactID: artifactID}
	return c.cachePath(repoID, ga.MetadataPath())
}

func (c *Client) artifactCachePath(repoID string, coord coordinate.Coordinate) string {
	return c.cachePath(repoID, coord.ArtifactPath())
}
