package mvnlaunch

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

// LockCmd implements spec.md §4.5's standalone "lock" verb: resolve
// and write the canonical, spec-hash-addressed lock file without
// necessarily materializing any artifacts.
func LockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lock [endpoint]",
		Short: "Resolve an endpoint and write its lock file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := specFromArgsOrProject(args)
			if err != nil {
				return err
			}
			o := newOrchestrator()
			lf, err := o.Lock(cmd.Context(), spec)
			if err != nil {
				return err
			}
			enc := toml.NewEncoder(os.Stdout)
			return enc.Encode(lf)
		},
	}
}
