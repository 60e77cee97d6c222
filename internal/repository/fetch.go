package repository

import (
	"context"
	"crypto/md5"  //nolint:gosec // sidecar checksum kind, not used for security
	"crypto/sha1" //nolint:gosec // sidecar checksum kind, not used for security
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/gofrs/flock"
)

// FetchPOM implements spec.md §4.4's fetch_pom: try each configured
// repository in order, cache-first, falling back to the network only on a
// cache miss. POMs (like artifacts, and unlike metadata) are never
// revalidated once cached — a resolved coordinate's POM is immutable.
func (c *Client) FetchPOM(ctx context.Context, coord coordinate.Coordinate) ([]byte, error) {
	_, data, err := c.fetchPOM(ctx, coord)
	return data, err
}

// FetchPOMPath is like FetchPOM but returns the on-disk cache path of the
// POM rather than its bytes, for callers (the pom.Loader adapter) that
// need gopom.Parse's file-path API rather than a byte slice.
func (c *Client) FetchPOMPath(ctx context.Context, coord coordinate.Coordinate) (string, error) {
	path, _, err := c.fetchPOM(ctx, coord)
	return path, err
}

func (c *Client) fetchPOM(ctx context.Context, coord coordinate.Coordinate) (string, []byte, error) {
	log := c.logger(ctx)
	var lastErr error
	for _, repo := range c.repos {
		path := c.pomCachePath(repo.ID, coord)
		if cached, ok := cachedBytes(path); ok {
			return path, cached, nil
		}
		if c.opts.Offline {
			continue
		}
		data, err := c.downloadLocked(ctx, path, repo.URL+"/"+coord.PomPath())
		if err != nil {
			log.Debugf("fetch_pom: %s from %s: %v", coord, repo.ID, err)
			lastErr = err
			continue
		}
		if data == nil {
			continue // 404 or similar, try next repo
		}
		return path, data, nil
	}
	if c.opts.Offline {
		return "", nil, errs.New(errs.KindNotAvailableOffline, coord.String())
	}
	return "", nil, errs.Wrap(errs.KindNotFound, coord.String(), lastErr)
}

// FetchMetadata implements spec.md §4.4's fetch_metadata. Unlike POMs and
// artifacts, metadata is revalidated with the origin whenever update mode
// is set, regardless of how fresh the cache is.
func (c *Client) FetchMetadata(ctx context.Context, groupID, artifactID string) (Metadata, error) {
	var lastErr error
	for _, repo := range c.repos {
		m, found, err := c.fetchMetadataFromRepo(ctx, repo, groupID, artifactID)
		if err != nil {
			lastErr = err
			continue
		}
		if found {
			return m, nil
		}
	}
	if c.opts.Offline {
		return Metadata{}, errs.New(errs.KindNotAvailableOffline, groupID+":"+artifactID)
	}
	return Metadata{}, errs.Wrap(errs.KindNotFound, groupID+":"+artifactID, lastErr)
}

// AllMetadata fetches maven-metadata.xml from every configured repository
// that has one, for the Version Resolver's cross-repository union
// (spec.md §4.2's deliberate deviation from upstream Maven's
// single-repository precedence). Repositories that 404 or fail are
// silently skipped; only a miss across every repository is an error.
func (c *Client) AllMetadata(ctx context.Context, groupID, artifactID string) ([]Metadata, error) {
	var all []Metadata
	var lastErr error
	for _, repo := range c.repos {
		m, found, err := c.fetchMetadataFromRepo(ctx, repo, groupID, artifactID)
		if err != nil {
			lastErr = err
			continue
		}
		if found {
			all = append(all, m)
		}
	}
	if len(all) == 0 {
		if c.opts.Offline {
			return nil, errs.New(errs.KindNotAvailableOffline, groupID+":"+artifactID)
		}
		return nil, errs.Wrap(errs.KindNotFound, groupID+":"+artifactID, lastErr)
	}
	return all, nil
}

func (c *Client) fetchMetadataFromRepo(ctx context.Context, repo Repository, groupID, artifactID string) (Metadata, bool, error) {
	log := c.logger(ctx)
	path := c.metadataCachePath(repo.ID, groupID, artifactID)
	cached, hasCached := cachedBytes(path)

	if c.opts.Offline {
		if hasCached {
			m, err := ParseMetadata(cached)
			return m, true, err
		}
		return Metadata{}, false, nil
	}
	if hasCached && !c.opts.Update {
		m, err := ParseMetadata(cached)
		return m, true, err
	}

	ga := coordinate.Coordinate{GroupID: groupID, ArtifactID: artifactID}
	url := repo.URL + "/" + ga.MetadataPath()
	body, status, err := c.revalidate(ctx, path, url, hasCached)
	if err != nil {
		log.Debugf("fetch_metadata: %s:%s from %s: %v", groupID, artifactID, repo.ID, err)
		return Metadata{}, false, err
	}
	switch status {
	case notModifiedStatus:
		m, err := ParseMetadata(cached)
		return m, true, err
	case fetchedStatus:
		m, err := ParseMetadata(body)
		return m, true, err
	default:
		return Metadata{}, false, nil
	}
}

// FetchArtifact implements spec.md §4.4's fetch_artifact: cache-first
// download with sidecar checksum verification on a fresh download. The
// returned repository URL identifies which configured repository
// actually served the artifact, for the lock file's per-artifact
// provenance record (spec.md §3, §4.5, §6.3).
func (c *Client) FetchArtifact(ctx context.Context, coord coordinate.Coordinate) (string, string, error) {
	log := c.logger(ctx)
	var lastErr error
	for _, repo := range c.repos {
		path := c.artifactCachePath(repo.ID, coord)
		if _, ok := cachedBytes(path); ok {
			return path, repo.URL, nil
		}
		if c.opts.Offline {
			continue
		}
		url := repo.URL + "/" + coord.ArtifactPath()
		data, err := c.downloadLocked(ctx, path, url)
		if err != nil {
			log.Debugf("fetch_artifact: %s from %s: %v", coord, repo.ID, err)
			lastErr = err
			continue
		}
		if data == nil {
			continue
		}
		if err := c.verifyChecksum(ctx, repo.URL, coord, data); err != nil {
			return "", "", err
		}
		return path, repo.URL, nil
	}
	if c.opts.Offline {
		return "", "", errs.New(errs.KindNotAvailableOffline, coord.String())
	}
	return "", "", errs.Wrap(errs.KindNotFound, coord.String(), lastErr)
}

const (
	notModifiedStatus = 1
	fetchedStatus     = 2
	missStatus        = 3
)

// revalidate performs a conditional GET, serialized by a per-destination
// flock so concurrent fetches of the same path don't race on the write.
func (c *Client) revalidate(ctx context.Context, path, url string, hasCached bool) ([]byte, int, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, 0, errs.Wrap(errs.KindIO, path, err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, 0, errs.Wrap(errs.KindIO, path, err)
	}
	defer lock.Unlock() //nolint:errcheck

	var modTime = cachedModTime(path)
	body, status, err := c.doGet(ctx, url, modTime)
	if err != nil {
		return nil, 0, errs.Wrap(errs.KindIO, url, err)
	}
	if status == 304 && hasCached {
		return nil, notModifiedStatus, nil
	}
	if status == 200 {
		if err := writeAtomic(path, body); err != nil {
			return nil, 0, errs.Wrap(errs.KindIO, path, err)
		}
		return body, fetchedStatus, nil
	}
	return nil, missStatus, nil
}

// downloadLocked fetches url unconditionally (no cached copy exists yet)
// and atomically commits it to path, serialized by a per-destination
// flock (spec.md §4.4: "concurrent downloads of the same artifact are
// serialized by a filesystem lock on the destination path").
func (c *Client) downloadLocked(ctx context.Context, path, url string) ([]byte, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errs.Wrap(errs.KindIO, path, err)
	}
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, errs.Wrap(errs.KindIO, path, err)
	}
	defer lock.Unlock() //nolint:errcheck

	// Another waiter may have populated the cache while we waited on the lock.
	if cached, ok := cachedBytes(path); ok {
		return cached, nil
	}

	body, status, err := c.doGet(ctx, url, cachedModTime(path))
	if err != nil {
		return nil, errs.Wrap(errs.KindIO, url, err)
	}
	if status != 200 {
		return nil, nil
	}
	if err := writeAtomic(path, body); err != nil {
		return nil, errs.Wrap(errs.KindIO, path, err)
	}
	return body, nil
}

// verifyChecksum fetches whichever sidecar checksum is available
// (.sha256 preferred, then .sha1, then .md5) and verifies data against it,
// per spec.md §4.4: "mismatch is fatal."
func (c *Client) verifyChecksum(ctx context.Context, repoURL string, coord coordinate.Coordinate, data []byte) error {
	sidecars := []struct {
		ext string
		sum func([]byte) string
	}{
		{".sha256", func(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }},
		{".sha1", func(b []byte) string { s := sha1.Sum(b); return hex.EncodeToString(s[:]) }},   //nolint:gosec
		{".md5", func(b []byte) string { s := md5.Sum(b); return hex.EncodeToString(s[:]) }}, //nolint:gosec
	}
	for _, sc := range sidecars {
		body, status, err := c.doGet(ctx, repoURL+"/"+coord.ArtifactPath()+sc.ext, time.Time{})
		if err != nil || status != 200 {
			continue
		}
		want := strings.ToLower(strings.Fields(strings.TrimSpace(string(body)))[0])
		got := sc.sum(data)
		if want != got {
			return errs.New(errs.KindIntegrity, fmt.Sprintf("%s: %s mismatch: want %s got %s", coord, sc.ext, want, got))
		}
		return nil
	}
	return nil // no sidecar published; nothing to verify against
}
