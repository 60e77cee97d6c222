package mvnlaunch

import (
	"os"

	"github.com/chainguard-dev/mvnlaunch/internal/orchestrator"
	"github.com/spf13/cobra"
)

// SyncCmd implements spec.md §4.5's "sync" verb: replay a cached
// lock file when the spec hash matches, otherwise resolve and build
// fresh and cache the result for next time.
func SyncCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync [endpoint]",
		Short: "Bring an environment up to date, reusing a cached lock file when possible",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := specFromArgsOrProject(args)
			if err != nil {
				return err
			}
			o := newOrchestrator()
			env, result, err := o.Sync(cmd.Context(), spec)
			if err != nil {
				return err
			}
			out := orchestrator.RenderResult("sync", result, env, nil)
			return out.Write(flags.output, os.Stdout)
		},
	}
}
