package pom

import (
	"strings"

	"github.com/chainguard-dev/mvnlaunch/internal/mavenver"
)

// ActivationContext carries the caller-provided JDK version, OS detection
// inputs, and build properties used to evaluate profile activators
// (spec.md §4.1 step 5).
type ActivationContext struct {
	JDKVersion string
	OSName     string
	OSArch     string
	OSVersion  string
	// Properties are system/user properties available for `property.name`
	// activation; the project's own <properties> are checked separately.
	Properties map[string]string
	// FileBase resolves relative file.exists/file.missing paths; when
	// empty, file activators are always treated as inactive (no basedir).
	FileBase func(path string) bool
}

// osFamily classifies the runtime OS name the same way Maven's
// `family` activator does: "windows", "unix", or "mac".
func osFamily(osName string) string {
	n := strings.ToLower(osName)
	switch {
	case strings.Contains(n, "win"):
		return "windows"
	case strings.Contains(n, "mac") || strings.Contains(n, "darwin"):
		return "mac"
	default:
		return "unix"
	}
}

// evaluateActivation reports whether a profile is active. Its second
// result is always true: RawActivation carries only the jdk, os, property
// and file activators, so a profile whose activators are all of other
// kinds looks activator-less here, falls back to activeByDefault, and
// produces no warning.
func evaluateActivation(a RawActivation, ctx ActivationContext, projectProps map[string]string) (active bool, recognized bool) {
	anySet := a.HasJDK || a.HasOS || a.HasProperty || a.HasFile
	if !anySet {
		return a.ActiveByDefault, true
	}

	if a.HasJDK {
		recognized = true
		rng := a.JDK
		var ok bool
		if mavenver.IsRange(rng) {
			r, err := mavenver.ParseRange(rng)
			ok = err == nil && r.Includes(ctx.JDKVersion)
		} else {
			ok = mavenver.Compare(ctx.JDKVersion, rng) == 0 || strings.HasPrefix(ctx.JDKVersion, rng)
		}
		if !ok {
			return false, true
		}
	}

	if a.HasOS {
		recognized = true
		if a.OSName != "" && !strings.EqualFold(a.OSName, ctx.OSName) {
			return false, true
		}
		if a.OSFamily != "" && !strings.EqualFold(a.OSFamily, osFamily(ctx.OSName)) {
			return false, true
		}
		if a.OSArch != "" && !strings.EqualFold(a.OSArch, ctx.OSArch) {
			return false, true
		}
		if a.OSVersion != "" && !strings.EqualFold(a.OSVersion, ctx.OSVersion) {
			return false, true
		}
	}

	if a.HasProperty {
		recognized = true
		name := a.PropertyName
		negate := strings.HasPrefix(name, "!")
		name = strings.TrimPrefix(name, "!")
		val, present := ctx.Properties[name]
		if !present {
			val, present = projectProps[name]
		}
		ok := present
		if present && a.PropertyValue != "" {
			ok = val == a.PropertyValue
		}
		if negate {
			ok = !present
		}
		if !ok {
			return false, true
		}
	}

	if a.HasFile {
		recognized = true
		if ctx.FileBase == nil {
			return false, true
		}
		if a.FileExists != "" && !ctx.FileBase(a.FileExists) {
			return false, true
		}
		if a.FileMissing != "" && ctx.FileBase(a.FileMissing) {
			return false, true
		}
	}

	return true, true
}
