package lockfile

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

// Artifact is one locked entry, per spec.md §3's Lock file data model and
// §6.3's wire shape.
type Artifact struct {
	GroupID    string   `toml:"group_id"`
	ArtifactID string   `toml:"artifact_id"`
	Version    string   `toml:"version"`
	Classifier string   `toml:"classifier,omitempty"`
	Packaging  string   `toml:"packaging"`
	Scope      string   `toml:"scope"`
	SHA256     string   `toml:"sha256"`
	Repository string   `toml:"repository"`
	Exclusions []string `toml:"exclusions,omitempty"`
}

// Metadata is the lock file's header: the tool version that produced it
// and the hash of the unresolved spec that produced this resolution.
type Metadata struct {
	ToolVersion string `toml:"tool_version"`
	SpecHash    string `toml:"spec_hash"`
	Fingerprint string `toml:"fingerprint"`
}

// LockFile is the full on-disk record: spec.md §4.5's "declarative
// record written atomically next to the environment."
type LockFile struct {
	Metadata  Metadata   `toml:"metadata"`
	Artifacts []Artifact `toml:"artifact"`
}

// Write atomically commits lf to path via a temp file + rename, matching
// spec.md §4.5's "written atomically (temp file + rename)".
func Write(path string, lf LockFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	enc := toml.NewEncoder(f)
	if err := enc.Encode(lf); err != nil {
		f.Close()
		os.Remove(tmp)
		return errs.Wrap(errs.KindIO, path, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return errs.Wrap(errs.KindIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	return nil
}

// Read parses a lock file from path.
func Read(path string) (LockFile, error) {
	var lf LockFile
	if _, err := toml.DecodeFile(path, &lf); err != nil {
		if os.IsNotExist(err) {
			return LockFile{}, errs.Wrap(errs.KindNotFound, path, err)
		}
		return LockFile{}, errs.Wrap(errs.KindParse, path, err)
	}
	return lf, nil
}
