// Package output renders orchestrator results (resolve/build/sync)
// in json, yaml, or human-readable form. It is a direct descendant of
// the teacher's `pkg.AnalysisOutput` / `.Write(format, io.Writer)`
// pattern (`pkg/output_test.go` — the teacher's own pkg/output.go
// wasn't present in the retrieved slice, so this is reconstructed from
// its test's documented contract: json/yaml/yml/human, erroring
// "unsupported output format: <fmt>" on anything else), repurposed here
// for this system's own result shapes instead of POM-patch analysis.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ghodss/yaml"
)

// ArtifactLine is one resolved or installed artifact, common to
// Resolve/Build/Sync output.
type ArtifactLine struct {
	GroupID    string `json:"group_id" yaml:"group_id"`
	ArtifactID string `json:"artifact_id" yaml:"artifact_id"`
	Version    string `json:"version" yaml:"version"`
	Classifier string `json:"classifier,omitempty" yaml:"classifier,omitempty"`
	Packaging  string `json:"packaging" yaml:"packaging"`
	Scope      string `json:"scope,omitempty" yaml:"scope,omitempty"`
	Placement  string `json:"placement,omitempty" yaml:"placement,omitempty"`
}

// Result is the structured shape every orchestrator operation renders.
type Result struct {
	Operation   string         `json:"operation" yaml:"operation"`
	Timestamp   time.Time      `json:"timestamp" yaml:"timestamp"`
	Fingerprint string         `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	EnvDir      string         `json:"env_dir,omitempty" yaml:"env_dir,omitempty"`
	Artifacts   []ArtifactLine `json:"artifacts" yaml:"artifacts"`
	Unresolved  []string       `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Warnings    []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	MainClass   string         `json:"main_class,omitempty" yaml:"main_class,omitempty"`
	JavaVersion int            `json:"java_version,omitempty" yaml:"java_version,omitempty"`
	Command     []string       `json:"command,omitempty" yaml:"command,omitempty"`
}

// Write renders the result as json, yaml (or its "yml" alias), or a
// human-readable summary, matching the teacher's own format-dispatch
// contract and error message exactly.
func (r *Result) Write(format string, w io.Writer) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml", "yml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case "human":
		return r.writeHuman(w)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func (r *Result) writeHuman(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", capitalize(r.Operation))
	if r.Fingerprint != "" {
		fmt.Fprintf(&b, "Fingerprint: %s\n", r.Fingerprint)
	}
	if r.EnvDir != "" {
		fmt.Fprintf(&b, "Environment: %s\n", r.EnvDir)
	}
	fmt.Fprintf(&b, "Artifacts: %d\n", len(r.Artifacts))
	for _, a := range r.Artifacts {
		line := fmt.Sprintf("  - %s:%s:%s", a.GroupID, a.ArtifactID, a.Version)
		if a.Classifier != "" {
			line += ":" + a.Classifier
		}
		if a.Placement != "" {
			line += " [" + a.Placement + "]"
		}
		fmt.Fprintln(&b, line)
	}
	if len(r.Unresolved) > 0 {
		fmt.Fprintf(&b, "Unresolved: %d\n", len(r.Unresolved))
		for _, u := range r.Unresolved {
			fmt.Fprintf(&b, "  - %s\n", u)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(&b, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(&b, "  - %s\n", warn)
		}
	}
	if r.MainClass != "" {
		fmt.Fprintf(&b, "Main class: %s\n", r.MainClass)
	}
	if r.JavaVersion > 0 {
		fmt.Fprintf(&b, "Java version: %d\n", r.JavaVersion)
	}
	if len(r.Command) > 0 {
		fmt.Fprintf(&b, "Command: %s\n", strings.Join(r.Command, " "))
	}
	_, err := w.Write([]byte(b.String()))
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
