package mvnlaunch

import (
	"os"

	"github.com/chainguard-dev/mvnlaunch/internal/orchestrator"
	"github.com/spf13/cobra"
)

// ResolveCmd implements spec.md §4.3's standalone "resolve" verb: run
// the layered-BFS resolver and print the resolved set without touching
// any repository cache beyond POM/metadata fetches.
func ResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [endpoint]",
		Short: "Resolve an endpoint's dependency graph without materializing an environment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := specFromArgsOrProject(args)
			if err != nil {
				return err
			}
			o := newOrchestrator()
			result, placements, err := o.Resolve(cmd.Context(), spec)
			if err != nil {
				return err
			}
			out := orchestrator.RenderResult("resolve", result, nil, placements)
			return out.Write(flags.output, os.Stdout)
		},
	}
}
