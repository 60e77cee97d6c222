package resolve

import (
	"context"
	"runtime"
	"sync"

	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/chainguard-dev/mvnlaunch/internal/pom"
	"golang.org/x/sync/errgroup"
)

// defaultConcurrency bounds the number of effective-POM builds (each of
// which may do several network fetches) in flight at once, per level.
const defaultConcurrency = 8

// Options configures a resolution run, per spec.md §4.3's Inputs.
type Options struct {
	Scopes          []string // e.g. {"compile", "runtime"}; defaults applied by Resolver.Resolve
	IncludeTest     bool
	OptionalDepth   int // traverse optional edges only when OptionalDepth > current depth; default 0 means never
	Lenient         bool
	GlobalExclusions []coordinate.Exclusion
	BOMs            []coordinate.Coordinate // resolved externally-supplied BOM coordinates, applied as the outermost dependency-management layer
	Activation      pom.ActivationContext
	Concurrency     int
}

func (o Options) withDefaults() Options {
	if len(o.Scopes) == 0 {
		o.Scopes = []string{"compile", "runtime"}
	}
	if o.Concurrency <= 0 {
		o.Concurrency = defaultConcurrency
		if n := runtime.NumCPU() * 2; n < o.Concurrency {
			o.Concurrency = n
		}
	}
	return o
}

func (o Options) scopeAllowed(scope string) bool {
	for _, s := range o.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// Resolved is one entry of the resolved set: the effective version and
// scope selected for a (groupId, artifactId) key, and the exclusions
// carried to it.
type Resolved struct {
	Coordinate coordinate.Coordinate
	Scope      string
	Depth      int
	Exclusions []coordinate.Exclusion
}

// Unresolved records a dependency that could not be fetched in lenient mode.
type Unresolved struct {
	Coordinate coordinate.Coordinate
	Reason     string
}

// Result is the Resolver's output: an ordered resolved set plus any
// lenient-mode failures and soft warnings collected along the way.
type Result struct {
	Resolved   []Resolved
	Unresolved []Unresolved
	Warnings   []string
}

// Resolver implements spec.md §4.3's layered-BFS nearest-wins algorithm.
type Resolver struct {
	Loader   pom.Loader
	Versions *VersionResolver
	opts     Options

	effCache sync.Map // key: "g:a:v" -> *pom.EffectivePOM
}

// NewResolver builds a Resolver over the given POM loader and version
// resolver (normally both backed by the same internal/repository.Client).
func NewResolver(loader pom.Loader, versions *VersionResolver) *Resolver {
	return &Resolver{Loader: loader, Versions: versions}
}

type queueItem struct {
	coord      coordinate.Coordinate
	depth      int
	exclusions []coordinate.Exclusion
	mgmtStack  [][]pom.Dependency // outer-to-inner; index 0 is outermost (wins)
	scope      string             // "" for roots; the edge scope that produced this node otherwise
	order      int                // global discovery order, for deterministic tie-break
}

type resolvedEntry struct {
	depth int
	order int
}

// Resolve runs the Resolver over roots (already-parsed root coordinates;
// version specs may still be LATEST/RELEASE/ranges).
func (r *Resolver) Resolve(ctx context.Context, roots []coordinate.Coordinate, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	r.opts = opts
	log := clog.FromContext(ctx)

	globalLayer, err := r.bomLayer(ctx, opts.BOMs)
	if err != nil {
		return nil, err
	}

	var (
		resolvedMap = map[string]resolvedEntry{}
		order       []Resolved
		unresolved  []Unresolved
		warnings    []string
		discovery   int
	)

	level := make([]queueItem, 0, len(roots))
	for _, c := range roots {
		level = append(level, queueItem{
			coord:      c,
			depth:      0,
			exclusions: append([]coordinate.Exclusion{}, opts.GlobalExclusions...),
			mgmtStack:  [][]pom.Dependency{globalLayer},
			order:      discovery,
		})
		discovery++
	}

	for len(level) > 0 {
		type fetchResult struct {
			item *queueItem
			eff  *pom.EffectivePOM
			err  error
		}
		results := make([]fetchResult, len(level))

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		for i := range level {
			i := i
			item := &level[i]
			g.Go(func() error {
				version, err := r.Versions.Resolve(gctx, item.coord.GroupID, item.coord.ArtifactID, item.coord.Version)
				if err != nil {
					results[i] = fetchResult{item: item, err: err}
					return nil // collected per-item; don't abort the group
				}
				item.coord.Version = version
				eff, err := r.buildEffective(gctx, item.coord)
				results[i] = fetchResult{item: item, eff: eff, err: err}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		var next []queueItem
		for _, res := range results {
			item := res.item
			gaKey := item.coord.GAKey()

			if existing, ok := resolvedMap[gaKey]; ok {
				if existing.depth <= item.depth {
					continue // nearest-wins / first-seen: this occurrence loses
				}
			}

			if res.err != nil {
				if opts.Lenient {
					unresolved = append(unresolved, Unresolved{Coordinate: item.coord, Reason: res.err.Error()})
					log.Warnf("resolve: dropping unresolved dependency %s: %v", item.coord, res.err)
					continue
				}
				return nil, res.err
			}

			resolvedMap[gaKey] = resolvedEntry{depth: item.depth, order: item.order}
			order = append(order, Resolved{
				Coordinate: item.coord,
				Scope:      item.scope,
				Depth:      item.depth,
				Exclusions: item.exclusions,
			})
			warnings = append(warnings, res.eff.Warnings...)

			if item.scope != "" && !isTransitiveScope(item.scope) {
				continue // test/provided/system are never propagated beyond depth 0
			}

			childMgmt := append(append([][]pom.Dependency{}, item.mgmtStack...), res.eff.DependencyManagement)
			for _, dep := range res.eff.Dependencies {
				if excluded(item.exclusions, dep.Coordinate.GroupID, dep.Coordinate.ArtifactID) {
					continue
				}
				effScope := dep.EffectiveScope()
				if dep.Optional && !(opts.OptionalDepth > item.depth) {
					continue
				}
				if !opts.scopeAllowedForEdge(effScope, item.depth) {
					continue
				}
				childCoord := applyManagement(dep.Coordinate, childMgmt)
				next = append(next, queueItem{
					coord:      childCoord,
					depth:      item.depth + 1,
					exclusions: unionExclusions(item.exclusions, dep.Exclusions, opts.GlobalExclusions),
					mgmtStack:  childMgmt,
					scope:      effScope,
					order:      discovery,
				})
				discovery++
			}
		}
		level = next
	}

	return &Result{Resolved: order, Unresolved: unresolved, Warnings: warnings}, nil
}

func (o Options) scopeAllowedForEdge(scope string, parentDepth int) bool {
	switch scope {
	case "compile", "runtime":
		return o.scopeAllowed(scope)
	case "test":
		return parentDepth == 0 && o.IncludeTest && o.scopeAllowed("test")
	case "provided", "system":
		return parentDepth == 0 && o.scopeAllowed(scope)
	default:
		return false
	}
}

func isTransitiveScope(scope string) bool {
	return scope == "compile" || scope == "runtime"
}

func (r *Resolver) buildEffective(ctx context.Context, c coordinate.Coordinate) (*pom.EffectivePOM, error) {
	key := c.GroupID + ":" + c.ArtifactID + ":" + c.Version
	if v, ok := r.effCache.Load(key); ok {
		return v.(*pom.EffectivePOM), nil
	}
	eff, err := pom.Build(ctx, r.Loader, c.GroupID, c.ArtifactID, c.Version, r.opts.Activation)
	if err != nil {
		return nil, errs.Wrap(errs.KindResolution, c.String(), err)
	}
	r.effCache.Store(key, eff)
	return eff, nil
}

// bomLayer builds the effective POM of each externally supplied BOM and
// concatenates their dependencyManagement entries, in declaration order,
// into one managed Dependency list (applyManagement's first match makes
// an earlier BOM win); the caller (internal/orchestrator) is expected to
// have already version-resolved them.
func (r *Resolver) bomLayer(ctx context.Context, boms []coordinate.Coordinate) ([]pom.Dependency, error) {
	var layer []pom.Dependency
	for _, b := range boms {
		eff, err := r.buildEffective(ctx, b)
		if err != nil {
			return nil, err
		}
		layer = append(layer, eff.DependencyManagement...)
	}
	return layer, nil
}

// applyManagement resolves dep's version by walking mgmtStack
// outermost-to-innermost, first match wins, falling back to dep's own
// declared version.
func applyManagement(c coordinate.Coordinate, mgmtStack [][]pom.Dependency) coordinate.Coordinate {
	for _, layer := range mgmtStack {
		for _, m := range layer {
			if m.Coordinate.GroupID == c.GroupID && m.Coordinate.ArtifactID == c.ArtifactID &&
				m.Coordinate.Classifier == c.Classifier && m.Coordinate.Packaging == c.Packaging {
				c.Version = m.Coordinate.Version
				return c
			}
		}
	}
	return c
}

func excluded(exclusions []coordinate.Exclusion, groupID, artifactID string) bool {
	for _, e := range exclusions {
		if e.Matches(groupID, artifactID) {
			return true
		}
	}
	return false
}

func unionExclusions(sets ...[]coordinate.Exclusion) []coordinate.Exclusion {
	seen := map[coordinate.Exclusion]bool{}
	var out []coordinate.Exclusion
	for _, s := range sets {
		for _, e := range s {
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	return out
}
