package mvnlaunch

import (
	"fmt"
	"strings"

	"github.com/chainguard-dev/mvnlaunch/internal/launch"
	"github.com/spf13/cobra"
)

type runFlags struct {
	gc         string
	minHeap    string
	maxHeap    string
	properties []string
	mainClass  string
	jarPath    string
	javaVendor string
}

var runOpts runFlags

// RunCmd implements spec.md §4.7's "run" verb: build the environment,
// plan the JVM invocation, and exec it. Arguments after "--" are
// passed through to the launched application untouched.
func RunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [endpoint] [-- args...]",
		Short: "Build an environment and launch it with the JVM",
		RunE: func(cmd *cobra.Command, args []string) error {
			endpointArgs := args
			var passthrough []string
			if dash := cmd.ArgsLenAtDash(); dash >= 0 {
				endpointArgs, passthrough = args[:dash], args[dash:]
			}
			if len(endpointArgs) > 1 {
				return fmt.Errorf("expected at most one endpoint argument before \"--\"")
			}

			spec, err := specFromArgsOrProject(endpointArgs)
			if err != nil {
				return err
			}

			jvmOpts := launch.Options{
				GCPreset:   runOpts.gc,
				MinHeap:    runOpts.minHeap,
				MaxHeap:    runOpts.maxHeap,
				Properties: parseProperties(runOpts.properties),
				MainClass:  runOpts.mainClass,
				JarPath:    runOpts.jarPath,
				Args:       passthrough,
			}

			o := newOrchestrator()
			proc, err := o.Run(cmd.Context(), spec, jvmOpts, runOpts.javaVendor)
			if err != nil {
				return err
			}
			return proc.Run()
		},
	}
	cmd.Flags().StringVar(&runOpts.gc, "gc", "", "GC preset: G1, Z, or none")
	cmd.Flags().StringVar(&runOpts.minHeap, "min-heap", "", "-Xms value, e.g. 512m")
	cmd.Flags().StringVar(&runOpts.maxHeap, "max-heap", "", "-Xmx value, e.g. 2g (1g if empty)")
	cmd.Flags().StringSliceVar(&runOpts.properties, "prop", nil, "JVM system property as key=value, may be repeated")
	cmd.Flags().StringVar(&runOpts.mainClass, "main-class", "", "override the inferred main class")
	cmd.Flags().StringVar(&runOpts.jarPath, "jar", "", "launch via -jar instead of a main class")
	cmd.Flags().StringVar(&runOpts.javaVendor, "java-vendor", "", "preferred JDK vendor for the JavaLocator")
	return cmd
}

func parseProperties(props []string) map[string]string {
	if len(props) == 0 {
		return nil
	}
	m := make(map[string]string, len(props))
	for _, p := range props {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			continue
		}
		m[k] = v
	}
	return m
}
