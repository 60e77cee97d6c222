package launch

import (
	"fmt"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

// InferMainClass implements spec.md §4.7's main-class inference: prefer
// a single unambiguous manifest Main-Class entry among the JARs on the
// path, and fall back to scanning for public static void main(String[])
// candidates, failing if more than one is found.
func InferMainClass(jars []JarInfo) (string, error) {
	var manifestCandidates []string
	for _, j := range jars {
		if j.MainClassManifest != "" {
			manifestCandidates = append(manifestCandidates, j.MainClassManifest)
		}
	}
	if len(manifestCandidates) == 1 {
		return manifestCandidates[0], nil
	}
	if len(manifestCandidates) > 1 {
		return "", errs.New(errs.KindLaunch, fmt.Sprintf("ambiguous Main-Class across jars: %v", manifestCandidates))
	}

	var scanCandidates []string
	for _, j := range jars {
		scanCandidates = append(scanCandidates, j.MainMethodCandidates...)
	}
	switch len(scanCandidates) {
	case 0:
		return "", errs.New(errs.KindLaunch, "no Main-Class manifest entry and no public static void main(String[]) found")
	case 1:
		return scanCandidates[0], nil
	default:
		return "", errs.New(errs.KindLaunch, fmt.Sprintf("ambiguous main method candidates: %v", scanCandidates))
	}
}
