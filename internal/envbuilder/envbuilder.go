// Package envbuilder implements the Environment Builder (spec.md §4.6):
// materializing a resolved set of artifacts into a content-addressed
// directory of linked or copied JARs, coordinated across processes with
// a filesystem lock and an atomic completion sentinel.
package envbuilder

import (
	"context"
	"os"
	"path/filepath"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/chainguard-dev/mvnlaunch/internal/launch"
	"github.com/chainguard-dev/mvnlaunch/internal/lockfile"
	"github.com/chainguard-dev/mvnlaunch/internal/resolve"
	"github.com/gofrs/flock"
)

// LinkStrategy selects how an artifact is installed into the environment
// directory, per spec.md §4.6.
type LinkStrategy int

const (
	// LinkAuto tries hard, then soft, then copy, in that order.
	LinkAuto LinkStrategy = iota
	LinkHard
	LinkSoft
	LinkCopy
)

// ArtifactFetcher resolves a coordinate to its materialized location in
// the repository cache, reporting both the cache path and the URL of the
// repository it came from, for the lock file's provenance record.
// internal/repository.Client satisfies this directly.
type ArtifactFetcher interface {
	FetchArtifact(ctx context.Context, coord coordinate.Coordinate) (path string, repositoryURL string, err error)
}

// Options configures a build.
type Options struct {
	CacheRoot     string
	Strategy      LinkStrategy
	ToolVersion   string
	SpecHash      string
	OptionalDepth int                             // folded into the fingerprint, per spec.md §4.5
	Placements    map[string]coordinate.Placement // keyed by coordinate.Key(), overrides auto-classification
	Concurrency   int
}

// Env describes a materialized environment directory.
type Env struct {
	Dir         string
	ClassPath   []string // absolute paths under jars/
	ModulePath  []string // absolute paths under modules/
	Fingerprint string
}

// Build implements spec.md §4.6's eight-step protocol: compute the
// fingerprint, acquire the build lock, check for an existing .ok
// sentinel, materialize jars/ and modules/, write the lock file, then
// the sentinel, then release the lock.
func Build(ctx context.Context, fetcher ArtifactFetcher, resolved []resolve.Resolved, opts Options) (*Env, error) {
	log := clog.FromContext(ctx)

	entries := make([]lockfile.Entry, 0, len(resolved))
	for _, r := range resolved {
		entries = append(entries, lockfile.Entry{
			GroupID:    r.Coordinate.GroupID,
			ArtifactID: r.Coordinate.ArtifactID,
			Version:    r.Coordinate.Version,
			Classifier: r.Coordinate.Classifier,
			Packaging:  r.Coordinate.Packaging,
			Exclusions: exclusionStrings(r.Exclusions),
		})
	}
	fingerprint := lockfile.Fingerprint(entries, opts.OptionalDepth)

	if len(resolved) == 0 {
		return nil, errs.New(errs.KindResolution, "cannot build an environment from an empty resolved set")
	}
	root := resolved[0].Coordinate
	envDir := filepath.Join(opts.CacheRoot, "envs", root.GroupID, root.ArtifactID, fingerprint)

	if err := os.MkdirAll(filepath.Dir(envDir), 0o755); err != nil {
		return nil, errs.Wrap(errs.KindIO, envDir, err)
	}
	lock := flock.New(envDir + ".lock")
	if err := lock.Lock(); err != nil {
		return nil, errs.Wrap(errs.KindIO, envDir, err)
	}
	defer lock.Unlock() //nolint:errcheck

	sentinel := filepath.Join(envDir, ".ok")
	if _, err := os.Stat(sentinel); err == nil {
		env, err := loadEnv(envDir, fingerprint)
		if err == nil {
			log.Debugf("environment %s already built, reusing", fingerprint)
			return env, nil
		}
		log.Warnf("malformed .ok sentinel at %s, rebuilding: %v", envDir, err)
	}

	jarsDir := filepath.Join(envDir, "jars")
	modulesDir := filepath.Join(envDir, "modules")
	if err := os.MkdirAll(jarsDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.KindIO, jarsDir, err)
	}
	if err := os.MkdirAll(modulesDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.KindIO, modulesDir, err)
	}

	env := &Env{Dir: envDir, Fingerprint: fingerprint}
	var lockEntries []lockfile.Artifact

	for _, r := range resolved {
		srcPath, repoURL, err := fetcher.FetchArtifact(ctx, r.Coordinate)
		if err != nil {
			return nil, err
		}

		info, err := launch.InspectJAR(srcPath, r.Coordinate)
		if err != nil {
			return nil, err
		}
		override := opts.Placements[r.Coordinate.Key()]
		placement := launch.Classify(info, override)

		var destDir string
		if placement == coordinate.PlacementModulePath {
			destDir = modulesDir
		} else {
			destDir = jarsDir
		}
		destPath := filepath.Join(destDir, filepath.Base(srcPath))

		if err := install(srcPath, destPath, opts.Strategy); err != nil {
			return nil, errs.Wrap(errs.KindIO, destPath, err)
		}

		if placement == coordinate.PlacementModulePath {
			env.ModulePath = append(env.ModulePath, destPath)
		} else {
			env.ClassPath = append(env.ClassPath, destPath)
		}

		sum, err := sha256File(srcPath)
		if err != nil {
			return nil, errs.Wrap(errs.KindIO, srcPath, err)
		}
		lockEntries = append(lockEntries, lockfile.Artifact{
			GroupID:    r.Coordinate.GroupID,
			ArtifactID: r.Coordinate.ArtifactID,
			Version:    r.Coordinate.Version,
			Classifier: r.Coordinate.Classifier,
			Packaging:  r.Coordinate.Packaging,
			Scope:      r.Scope,
			SHA256:     sum,
			Repository: repoURL,
			Exclusions: exclusionStrings(r.Exclusions),
		})
	}

	lf := lockfile.LockFile{
		Metadata: lockfile.Metadata{
			ToolVersion: opts.ToolVersion,
			SpecHash:    opts.SpecHash,
			Fingerprint: fingerprint,
		},
		Artifacts: lockEntries,
	}
	lockPath := filepath.Join(envDir, "jgo.lock.toml")
	if err := lockfile.Write(lockPath, lf); err != nil {
		return nil, err
	}

	if err := writeSentinel(sentinel); err != nil {
		return nil, err
	}

	log.Infof("built environment %s (%d artifacts)", fingerprint, len(resolved))
	return env, nil
}

// loadEnv reconstructs an Env from an already-built directory by
// listing jars/ and modules/, used on the fast path when .ok is present.
func loadEnv(envDir, fingerprint string) (*Env, error) {
	env := &Env{Dir: envDir, Fingerprint: fingerprint}
	jarsDir := filepath.Join(envDir, "jars")
	modulesDir := filepath.Join(envDir, "modules")

	cp, err := listFiles(jarsDir)
	if err != nil {
		return nil, err
	}
	mp, err := listFiles(modulesDir)
	if err != nil {
		return nil, err
	}
	env.ClassPath = cp
	env.ModulePath = mp
	return env, nil
}

func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	return out, nil
}

func exclusionStrings(excl []coordinate.Exclusion) []string {
	if len(excl) == 0 {
		return nil
	}
	out := make([]string, len(excl))
	for i, e := range excl {
		out[i] = e.GroupID + ":" + e.ArtifactID
	}
	return out
}

// writeSentinel atomically commits the .ok completion marker, matching
// spec.md §4.6's "written as the last step" invariant: its presence is
// the only thing that makes an environment directory valid.
func writeSentinel(path string) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte("ok\n"), 0o644); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	return nil
}
