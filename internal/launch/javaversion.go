package launch

// classMajorToJavaVersion converts a .class file's major_version field
// to the Java SE version that introduced it (spec.md §4.7: "major 52 ⇒
// Java 8"). Major versions below 45 predate numbered releases and have
// no meaningful SE version; callers should treat 0 as "no constraint".
func classMajorToJavaVersion(major int) int {
	if major < 45 {
		return 0
	}
	return major - 44
}

// RequiredJavaVersion returns the minimum Java SE version that satisfies
// every JAR in jars, taking the maximum class-file major version across
// each JAR (Multi-Release JARs are already folded in by InspectJAR,
// which samples every .class entry including versioned overlays under
// META-INF/versions/).
func RequiredJavaVersion(jars []JarInfo) int {
	max := 0
	for _, j := range jars {
		if v := classMajorToJavaVersion(j.MaxClassMajor); v > max {
			max = v
		}
	}
	return max
}
