// Package mvnlaunch implements the mvnlaunch CLI: resolve, build, lock,
// sync and run verbs over the orchestrator package, following the same
// "one file per verb, one XxxCmd() constructor, wired up in a root
// command" layout the teacher uses in cmd/pombump.
package mvnlaunch

import (
	"context"
	"fmt"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
	"github.com/chainguard-dev/clog"
	"github.com/chainguard-dev/mvnlaunch/internal/envbuilder"
	"github.com/chainguard-dev/mvnlaunch/internal/orchestrator"
	"github.com/chainguard-dev/mvnlaunch/internal/project"
	"github.com/chainguard-dev/mvnlaunch/internal/repository"
	"github.com/chainguard-dev/mvnlaunch/internal/resolve"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"
)

// rootFlags holds the persistent flags shared by every verb, populated
// by cobra and read back in newOrchestrator/buildSpec.
type rootFlags struct {
	cacheDir     string
	repoCache    string
	repos        []string
	offline      bool
	update       bool
	linkStrategy string
	logLevel     string
	output       string
	projectFile  string
	boms         []string
	scopes       []string
}

var flags rootFlags

// NewRootCmd builds the mvnlaunch root command and wires every verb
// under it.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mvnlaunch",
		Short:         "Resolve, materialize, and launch JVM applications from Maven coordinates",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := charmlog.InfoLevel
			if lvl, err := charmlog.ParseLevel(flags.logLevel); err == nil {
				level = lvl
			}
			handler := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: false,
				Level:           level,
			})
			logger := clog.New(handler)
			cmd.SetContext(clog.WithLogger(cmd.Context(), logger))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&flags.cacheDir, "cache-dir", defaultCacheDir(), "environment cache root (spec.md §6.4)")
	root.PersistentFlags().StringVar(&flags.repoCache, "repo-cache", "", "repository POM/metadata cache directory (defaults under --cache-dir)")
	root.PersistentFlags().StringSliceVar(&flags.repos, "repo", []string{"central=https://repo1.maven.org/maven2"}, "repository as id=url, may be repeated; tried in order")
	root.PersistentFlags().BoolVar(&flags.offline, "offline", false, "never contact a repository; fail on cache miss")
	root.PersistentFlags().BoolVar(&flags.update, "update", false, "revalidate cached metadata against the network regardless of age")
	root.PersistentFlags().StringVar(&flags.linkStrategy, "link", "auto", "environment install strategy: auto, hard, soft, copy")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "debug, info, warn, or error")
	root.PersistentFlags().StringVarP(&flags.output, "output", "o", "human", "json, yaml, or human")
	root.PersistentFlags().StringVarP(&flags.projectFile, "project", "p", "", "project file (spec.md §6.2) supplying the coordinates and exclusions")
	root.PersistentFlags().StringSliceVar(&flags.boms, "bom", nil, "additional BOM coordinate (g:a:v), may be repeated")
	root.PersistentFlags().StringSliceVar(&flags.scopes, "scope", nil, "dependency scope to include, may be repeated (default: compile, runtime)")

	root.AddCommand(ResolveCmd(), BuildCmd(), LockCmd(), SyncCmd(), RunCmd(), version.WithFont("slant"))
	return root
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir + "/mvnlaunch"
	}
	return ".mvnlaunch-cache"
}

func parseLinkStrategy(s string) envbuilder.LinkStrategy {
	switch strings.ToLower(s) {
	case "hard":
		return envbuilder.LinkHard
	case "soft":
		return envbuilder.LinkSoft
	case "copy":
		return envbuilder.LinkCopy
	default:
		return envbuilder.LinkAuto
	}
}

func parseRepos(specs []string) []repository.Repository {
	repos := make([]repository.Repository, 0, len(specs))
	for _, s := range specs {
		id, url, ok := strings.Cut(s, "=")
		if !ok {
			id, url = "repo", s
		}
		repos = append(repos, repository.Repository{ID: id, URL: url})
	}
	return repos
}

func newOrchestrator() *orchestrator.Orchestrator {
	repoCache := flags.repoCache
	if repoCache == "" {
		repoCache = flags.cacheDir + "/repository"
	}
	return orchestrator.New(orchestrator.Config{
		Repositories: parseRepos(flags.repos),
		RepoCache:    repoCache,
		CacheRoot:    flags.cacheDir,
		Offline:      flags.offline,
		Update:       flags.update,
		ToolVersion:  version.GetVersionInfo().GitVersion,
		LinkStrategy: parseLinkStrategy(flags.linkStrategy),
	})
}

// specFromArgsOrProject builds an orchestrator.Spec from either a
// positional endpoint argument or a project file (spec.md §6.2),
// mirroring the endpoint grammar's "+"-joined coordinate list so both
// paths feed the same coordinate.ParseEndpoint logic.
func specFromArgsOrProject(args []string) (orchestrator.Spec, error) {
	if flags.projectFile != "" {
		pf, err := project.Parse(flags.projectFile)
		if err != nil {
			return orchestrator.Spec{}, fmt.Errorf("reading project file: %w", err)
		}
		endpoint := strings.Join(pf.Coordinates, "+")
		for _, excl := range pf.Exclusions {
			endpoint += "+" + excl + "(x)"
		}
		return orchestrator.Spec{
			Endpoint: endpoint,
			BOMs:     flags.boms,
			Options:  resolveOptions(),
		}, nil
	}
	if len(args) != 1 {
		return orchestrator.Spec{}, fmt.Errorf("expected exactly one endpoint argument (or --project)")
	}
	return orchestrator.Spec{
		Endpoint: args[0],
		BOMs:     flags.boms,
		Options:  resolveOptions(),
	}, nil
}

func resolveOptions() resolve.Options {
	return resolve.Options{Scopes: flags.scopes}
}
