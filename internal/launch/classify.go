package launch

import "github.com/chainguard-dev/mvnlaunch/internal/coordinate"

// Classify decides classpath vs. module-path placement for a JAR, per
// spec.md §4.7: an explicit per-coordinate override always wins; failing
// that, a JAR with module-info.class or an Automatic-Module-Name goes on
// the module-path, otherwise the classpath.
func Classify(info JarInfo, override coordinate.Placement) coordinate.Placement {
	switch override {
	case coordinate.PlacementClassPath, coordinate.PlacementModulePath:
		return override
	}
	if info.HasModuleInfo || info.AutomaticModuleName != "" {
		return coordinate.PlacementModulePath
	}
	return coordinate.PlacementClassPath
}
