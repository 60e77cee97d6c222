package mvnlaunch

import (
	"os"

	"github.com/chainguard-dev/mvnlaunch/internal/orchestrator"
	"github.com/spf13/cobra"
)

// BuildCmd implements spec.md §4.6's "build" verb: resolve and
// materialize a fresh (or cache-hit) environment directory.
func BuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build [endpoint]",
		Short: "Resolve an endpoint and materialize its environment directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := specFromArgsOrProject(args)
			if err != nil {
				return err
			}
			o := newOrchestrator()
			env, result, err := o.Build(cmd.Context(), spec)
			if err != nil {
				return err
			}
			out := orchestrator.RenderResult("build", result, env, nil)
			return out.Write(flags.output, os.Stdout)
		},
	}
}
