// Package orchestrator wires the Coordinate/Endpoint Parser, Resolver,
// Repository Client, Environment Builder, and Launch Planner into the
// high-level operations a caller (cmd/mvnlaunch or an embedder) drives:
// resolve, build, lock, sync, and run.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/envbuilder"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/chainguard-dev/mvnlaunch/internal/javahome"
	"github.com/chainguard-dev/mvnlaunch/internal/launch"
	"github.com/chainguard-dev/mvnlaunch/internal/lockfile"
	"github.com/chainguard-dev/mvnlaunch/internal/output"
	"github.com/chainguard-dev/mvnlaunch/internal/repository"
	"github.com/chainguard-dev/mvnlaunch/internal/resolve"
)

// Config is the ambient configuration every operation shares, per
// spec.md §6.4's persisted-state layout. The cmd layer fills it from
// command-line flags only; no environment variable is read.
type Config struct {
	Repositories []repository.Repository
	RepoCache    string
	CacheRoot    string
	Offline      bool
	Update       bool
	ToolVersion  string
	LinkStrategy envbuilder.LinkStrategy
}

// Orchestrator holds the long-lived components built from a Config.
type Orchestrator struct {
	cfg      Config
	client   *repository.Client
	resolver *resolve.Resolver
	versions *resolve.VersionResolver
	locator  javahome.Locator
}

// New wires a fresh Orchestrator from cfg.
func New(cfg Config) *Orchestrator {
	client := repository.NewClient(cfg.Repositories, cfg.RepoCache, repository.Options{
		Offline: cfg.Offline,
		Update:  cfg.Update,
	})
	loader := &repository.PomLoader{Client: client}
	versions := &resolve.VersionResolver{Client: client}
	resolver := resolve.NewResolver(loader, versions)

	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		resolver: resolver,
		versions: versions,
		locator:  javahome.PathLocator{},
	}
}

// Spec is the unresolved request an Endpoint plus caller options
// describes, used both to run the Resolver and to compute the lock
// file's spec hash (spec.md §4.5).
type Spec struct {
	Endpoint string
	Options  resolve.Options
	BOMs     []string // endpoint-grammar coordinate strings, version-resolved before use
}

// parseRoots parses the endpoint string into root coordinates and the
// global exclusions/placement overrides its modifiers declare.
func parseRoots(endpoint string) (roots []coordinate.Coordinate, globalExclusions []coordinate.Exclusion, placements map[string]coordinate.Placement, mainClass string, err error) {
	ep, err := coordinate.ParseEndpoint(endpoint)
	if err != nil {
		return nil, nil, nil, "", err
	}
	placements = map[string]coordinate.Placement{}
	for _, spec := range ep.Coordinates {
		if spec.IsExclude {
			globalExclusions = append(globalExclusions, coordinate.Exclusion{
				GroupID:    spec.Coordinate.GroupID,
				ArtifactID: spec.Coordinate.ArtifactID,
			})
			continue
		}
		roots = append(roots, spec.Coordinate)
		if spec.Placement != coordinate.PlacementAuto {
			placements[spec.Coordinate.Key()] = spec.Placement
		}
		globalExclusions = append(globalExclusions, spec.Exclusions...)
	}
	return roots, globalExclusions, placements, ep.MainClass, nil
}

// resolveBOMs version-resolves each BOM coordinate string against the
// configured repositories, since resolve.Resolver expects its BOMs
// already pinned to a concrete version (spec.md §4.3's dep_mgmt_stack
// outermost layer).
func (o *Orchestrator) resolveBOMs(ctx context.Context, boms []string) ([]coordinate.Coordinate, error) {
	var out []coordinate.Coordinate
	for _, b := range boms {
		c, err := coordinate.ParseCoordinate(b)
		if err != nil {
			return nil, err
		}
		version, err := o.versions.Resolve(ctx, c.GroupID, c.ArtifactID, c.Version)
		if err != nil {
			return nil, err
		}
		c.Version = version
		out = append(out, c)
	}
	return out, nil
}

// Resolve runs the Resolver over an endpoint string (spec.md §4.3) and
// returns both the raw result and the coordinate-level data the other
// operations (build, lock) need.
func (o *Orchestrator) Resolve(ctx context.Context, spec Spec) (*resolve.Result, map[string]coordinate.Placement, error) {
	roots, globalExcl, placements, _, err := parseRoots(spec.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	if len(roots) == 0 {
		return nil, nil, errs.New(errs.KindParse, "endpoint names no root coordinates")
	}

	boms, err := o.resolveBOMs(ctx, spec.BOMs)
	if err != nil {
		return nil, nil, err
	}

	opts := spec.Options
	opts.GlobalExclusions = append(append([]coordinate.Exclusion{}, opts.GlobalExclusions...), globalExcl...)
	opts.BOMs = append(append([]coordinate.Coordinate{}, opts.BOMs...), boms...)

	result, err := o.resolver.Resolve(ctx, roots, opts)
	if err != nil {
		return nil, nil, err
	}
	return result, placements, nil
}

// specHash computes the lock file's header hash (spec.md §4.5) from the
// unresolved inputs: root coordinates in declaration order, and the
// global exclusions/BOMs/scopes as sets.
func specHash(spec Spec, roots []coordinate.Coordinate, globalExcl []coordinate.Exclusion) string {
	rootStrs := make([]string, len(roots))
	for i, c := range roots {
		rootStrs[i] = c.String()
	}
	exclStrs := make([]string, len(globalExcl))
	for i, e := range globalExcl {
		exclStrs[i] = e.GroupID + ":" + e.ArtifactID
	}
	return lockfile.SpecHash(lockfile.SpecInput{
		Roots:            rootStrs,
		GlobalExclusions: exclStrs,
		BOMs:             append([]string{}, spec.BOMs...),
		Scopes:           append([]string{}, spec.Options.Scopes...),
		IncludeOptional:  spec.Options.OptionalDepth > 0,
		OptionalDepth:    spec.Options.OptionalDepth,
	})
}

// Build resolves spec and materializes the resulting environment
// (spec.md §4.6), returning the built Env.
func (o *Orchestrator) Build(ctx context.Context, spec Spec) (*envbuilder.Env, *resolve.Result, error) {
	result, placements, err := o.Resolve(ctx, spec)
	if err != nil {
		return nil, nil, err
	}

	roots, globalExcl, _, _, err := parseRoots(spec.Endpoint)
	if err != nil {
		return nil, nil, err
	}

	env, err := envbuilder.Build(ctx, o.client, result.Resolved, envbuilder.Options{
		CacheRoot:     o.cfg.CacheRoot,
		Strategy:      o.cfg.LinkStrategy,
		ToolVersion:   o.cfg.ToolVersion,
		SpecHash:      specHash(spec, roots, globalExcl),
		OptionalDepth: spec.Options.OptionalDepth,
		Placements:    placements,
	})
	if err != nil {
		return nil, nil, err
	}
	return env, result, nil
}

// Sync looks up the canonical lock file for spec's hash (spec.md §4.5)
// before doing anything else. A hit means the exact same roots,
// exclusions, BOMs and scopes were resolved before: the previously
// pinned artifact list is replayed directly into the Environment
// Builder, bypassing §4.3's resolution (and its repository traffic)
// entirely. A miss or a corrupt lock file falls back to a full
// Resolve+Build, after which the result is written back to that same
// canonical path for the next Sync to hit.
func (o *Orchestrator) Sync(ctx context.Context, spec Spec) (*envbuilder.Env, *resolve.Result, error) {
	log := clog.FromContext(ctx)

	roots, globalExcl, placements, _, err := parseRoots(spec.Endpoint)
	if err != nil {
		return nil, nil, err
	}
	wantHash := specHash(spec, roots, globalExcl)
	lockPath := lockFilePath(o.cfg.CacheRoot, wantHash)

	if lf, err := lockfile.Read(lockPath); err == nil && lf.Metadata.SpecHash == wantHash {
		log.Debugf("sync: spec hash %s matches cached lock file, skipping resolution", wantHash)
		result := resultFromLock(&lf)
		env, buildErr := envbuilder.Build(ctx, o.client, result.Resolved, envbuilder.Options{
			CacheRoot:     o.cfg.CacheRoot,
			Strategy:      o.cfg.LinkStrategy,
			ToolVersion:   o.cfg.ToolVersion,
			SpecHash:      wantHash,
			OptionalDepth: spec.Options.OptionalDepth,
			Placements:    placements,
		})
		if buildErr == nil {
			return env, result, nil
		}
		log.Warnf("sync: cached lock file replay failed, re-resolving: %v", buildErr)
	}

	env, result, err := o.Build(ctx, spec)
	if err != nil {
		return nil, nil, err
	}
	repos, err := o.fetchRepositories(ctx, result.Resolved)
	if err != nil {
		return nil, nil, err
	}
	lf := buildLockFile(o.cfg.ToolVersion, spec, result, roots, globalExcl, repos)
	if writeErr := o.writeLockFile(lf); writeErr != nil {
		log.Warnf("sync: failed to cache lock file at %s: %v", lockPath, writeErr)
	}
	return env, result, nil
}

// lockFilePath is the canonical, spec-hash-addressed location Sync
// reads/writes, independent of any particular resolved fingerprint —
// it must be resolvable without doing any resolution work first.
func lockFilePath(cacheRoot, specHash string) string {
	return filepath.Join(cacheRoot, "locks", specHash+".toml")
}

// resultFromLock replays a previously written lock file's artifacts as
// a resolve.Result, skipping the BFS/mediation machinery entirely.
func resultFromLock(lf *lockfile.LockFile) *resolve.Result {
	result := &resolve.Result{}
	for _, a := range lf.Artifacts {
		result.Resolved = append(result.Resolved, resolve.Resolved{
			Coordinate: coordinate.Coordinate{
				GroupID: a.GroupID, ArtifactID: a.ArtifactID, Version: a.Version,
				Classifier: a.Classifier, Packaging: a.Packaging,
			},
			Scope:      a.Scope,
			Exclusions: parseExclusions(a.Exclusions),
		})
	}
	return result
}

func parseExclusions(ss []string) []coordinate.Exclusion {
	if len(ss) == 0 {
		return nil
	}
	out := make([]coordinate.Exclusion, 0, len(ss))
	for _, s := range ss {
		g, a, ok := strings.Cut(s, ":")
		if !ok {
			continue
		}
		out = append(out, coordinate.Exclusion{GroupID: g, ArtifactID: a})
	}
	return out
}

// Lock writes (or rewrites) the lock file for an already-resolved
// environment without necessarily rebuilding its contents — used by a
// `lock`-only CLI verb that just wants to pin a resolution. It still
// consults the Repository Client for each artifact's source repository
// (spec.md §3, §4.5, §6.3); that lookup is cache-first, so it costs no
// network traffic once an environment has already been built for the
// same artifacts.
func (o *Orchestrator) Lock(ctx context.Context, spec Spec) (*lockfile.LockFile, error) {
	result, _, err := o.Resolve(ctx, spec)
	if err != nil {
		return nil, err
	}
	roots, globalExcl, _, _, err := parseRoots(spec.Endpoint)
	if err != nil {
		return nil, err
	}

	repos, err := o.fetchRepositories(ctx, result.Resolved)
	if err != nil {
		return nil, err
	}
	lf := buildLockFile(o.cfg.ToolVersion, spec, result, roots, globalExcl, repos)
	if err := o.writeLockFile(lf); err != nil {
		return nil, err
	}
	return &lf, nil
}

// fetchRepositories resolves which configured repository serves each
// already-resolved artifact, keyed by coordinate.Key(), for the lock
// file's per-artifact provenance field.
func (o *Orchestrator) fetchRepositories(ctx context.Context, resolved []resolve.Resolved) (map[string]string, error) {
	repos := make(map[string]string, len(resolved))
	for _, r := range resolved {
		_, repoURL, err := o.client.FetchArtifact(ctx, r.Coordinate)
		if err != nil {
			return nil, err
		}
		repos[r.Coordinate.Key()] = repoURL
	}
	return repos, nil
}

// buildLockFile assembles a lockfile.LockFile from an already-resolved
// result and a coordinate-keyed map of source repository URLs.
func buildLockFile(toolVersion string, spec Spec, result *resolve.Result, roots []coordinate.Coordinate, globalExcl []coordinate.Exclusion, repos map[string]string) lockfile.LockFile {
	entries := make([]lockfile.Entry, 0, len(result.Resolved))
	artifacts := make([]lockfile.Artifact, 0, len(result.Resolved))
	for _, r := range result.Resolved {
		excl := exclusionStrings(r.Exclusions)
		entries = append(entries, lockfile.Entry{
			GroupID: r.Coordinate.GroupID, ArtifactID: r.Coordinate.ArtifactID,
			Version: r.Coordinate.Version, Classifier: r.Coordinate.Classifier,
			Packaging: r.Coordinate.Packaging, Exclusions: excl,
		})
		artifacts = append(artifacts, lockfile.Artifact{
			GroupID: r.Coordinate.GroupID, ArtifactID: r.Coordinate.ArtifactID,
			Version: r.Coordinate.Version, Classifier: r.Coordinate.Classifier,
			Packaging: r.Coordinate.Packaging, Scope: r.Scope, Exclusions: excl,
			Repository: repos[r.Coordinate.Key()],
		})
	}
	fingerprint := lockfile.Fingerprint(entries, spec.Options.OptionalDepth)

	return lockfile.LockFile{
		Metadata: lockfile.Metadata{
			ToolVersion: toolVersion,
			SpecHash:    specHash(spec, roots, globalExcl),
			Fingerprint: fingerprint,
		},
		Artifacts: artifacts,
	}
}

// writeLockFile commits lf to its canonical, spec-hash-addressed path.
func (o *Orchestrator) writeLockFile(lf lockfile.LockFile) error {
	if err := os.MkdirAll(filepath.Join(o.cfg.CacheRoot, "locks"), 0o755); err != nil {
		return errs.Wrap(errs.KindIO, o.cfg.CacheRoot, err)
	}
	return lockfile.Write(lockFilePath(o.cfg.CacheRoot, lf.Metadata.SpecHash), lf)
}

// Run builds the environment and infers the Launch Planner's JVM
// invocation (spec.md §4.7), returning it as an unstarted exec.Cmd wired
// to this process's stdin, stdout and stderr; the caller starts it.
func (o *Orchestrator) Run(ctx context.Context, spec Spec, jvmOpts launch.Options, javaVendor string) (*exec.Cmd, error) {
	_, _, _, mainClassOverride, err := parseRoots(spec.Endpoint)
	if err != nil {
		return nil, err
	}

	env, result, err := o.Build(ctx, spec)
	if err != nil {
		return nil, err
	}

	var jars []launch.JarInfo
	for _, r := range result.Resolved {
		path, _, ferr := o.client.FetchArtifact(ctx, r.Coordinate)
		if ferr != nil {
			return nil, ferr
		}
		info, ierr := launch.InspectJAR(path, r.Coordinate)
		if ierr != nil {
			return nil, ierr
		}
		jars = append(jars, info)
	}

	mainClass := mainClassOverride
	if mainClass == "" && jvmOpts.MainClass == "" && jvmOpts.JarPath == "" {
		mainClass, err = launch.InferMainClass(jars)
		if err != nil {
			return nil, err
		}
	}
	if jvmOpts.MainClass == "" && jvmOpts.JarPath == "" {
		jvmOpts.MainClass = mainClass
	}
	jvmOpts.ClassPath = env.ClassPath
	jvmOpts.ModulePath = env.ModulePath

	req := javahome.RequestFor(jars, javaVendor)
	javaPath, _, err := o.locator.Locate(ctx, req)
	if err != nil {
		return nil, err
	}

	args := launch.BuildArgs(jvmOpts)
	cmd := exec.CommandContext(ctx, javaPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd, nil
}

// RenderResult converts a resolve.Result plus an optional Env into the
// output package's rendering shape.
func RenderResult(operation string, result *resolve.Result, env *envbuilder.Env, placements map[string]coordinate.Placement) *output.Result {
	r := &output.Result{Operation: operation}
	if env != nil {
		r.Fingerprint = env.Fingerprint
		r.EnvDir = env.Dir
	}
	if result != nil {
		for _, res := range result.Resolved {
			placement := ""
			if p, ok := placements[res.Coordinate.Key()]; ok {
				placement = placementString(p)
			}
			r.Artifacts = append(r.Artifacts, output.ArtifactLine{
				GroupID: res.Coordinate.GroupID, ArtifactID: res.Coordinate.ArtifactID,
				Version: res.Coordinate.Version, Classifier: res.Coordinate.Classifier,
				Packaging: res.Coordinate.Packaging, Scope: res.Scope, Placement: placement,
			})
		}
		for _, u := range result.Unresolved {
			r.Unresolved = append(r.Unresolved, fmt.Sprintf("%s: %s", u.Coordinate.String(), u.Reason))
		}
		r.Warnings = result.Warnings
	}
	sort.Slice(r.Artifacts, func(i, j int) bool {
		return r.Artifacts[i].GroupID+r.Artifacts[i].ArtifactID < r.Artifacts[j].GroupID+r.Artifacts[j].ArtifactID
	})
	return r
}

func placementString(p coordinate.Placement) string {
	switch p {
	case coordinate.PlacementClassPath:
		return "classpath"
	case coordinate.PlacementModulePath:
		return "modulepath"
	default:
		return ""
	}
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
