// Package launch implements the Launch Planner (spec.md §4.7):
// classpath-vs-module-path JAR classification, Java version inference
// from class file headers, JVM flag synthesis, and main-class inference.
package launch

import (
	"archive/zip"
	"bufio"
	"io"
	"strings"

	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

// maxClassSample bounds how many .class entries are opened per JAR when
// inferring the required Java version, per spec.md §4.7.
const maxClassSample = 200

// JarInfo is everything the planner needs to know about one installed JAR.
type JarInfo struct {
	Path                string
	Coordinate          coordinate.Coordinate
	HasModuleInfo       bool
	AutomaticModuleName string
	MainClassManifest   string
	MaxClassMajor       int
	MainMethodCandidates []string // binary class names of sampled .class entries declaring public static void main(String[])
}

// InspectJAR opens the JAR at path and extracts the module/manifest/class
// metadata the Launch Planner needs.
func InspectJAR(jarPath string, coord coordinate.Coordinate) (JarInfo, error) {
	r, err := zip.OpenReader(jarPath)
	if err != nil {
		return JarInfo{}, errs.Wrap(errs.KindLaunch, jarPath, err)
	}
	defer r.Close()

	info := JarInfo{Path: jarPath, Coordinate: coord}
	sampled := 0

	for _, f := range r.File {
		switch {
		case f.Name == "module-info.class":
			info.HasModuleInfo = true
		case f.Name == "META-INF/MANIFEST.MF":
			rc, err := f.Open()
			if err != nil {
				return JarInfo{}, errs.Wrap(errs.KindLaunch, jarPath, err)
			}
			attrs, err := parseManifest(rc)
			rc.Close()
			if err != nil {
				return JarInfo{}, errs.Wrap(errs.KindLaunch, jarPath, err)
			}
			info.AutomaticModuleName = attrs["Automatic-Module-Name"]
			info.MainClassManifest = attrs["Main-Class"]
		}

		if strings.HasSuffix(f.Name, ".class") && sampled < maxClassSample {
			sampled++
			rc, err := f.Open()
			if err != nil {
				return JarInfo{}, errs.Wrap(errs.KindLaunch, jarPath, err)
			}
			cfi, err := parseClassFile(rc)
			rc.Close()
			if err != nil {
				continue // tolerate a malformed/odd entry; this is a best-effort sample
			}
			if cfi.MajorVersion > info.MaxClassMajor {
				info.MaxClassMajor = cfi.MajorVersion
			}
			if cfi.HasMainMethod {
				className := strings.TrimSuffix(f.Name, ".class")
				className = strings.ReplaceAll(className, "/", ".")
				info.MainMethodCandidates = append(info.MainMethodCandidates, className)
			}
		}
	}

	return info, nil
}

// parseManifest reads the simple "Key: Value" line format of a JAR
// manifest, joining continuation lines (a line starting with a single
// space continues the previous value, per the JAR spec).
func parseManifest(r io.Reader) (map[string]string, error) {
	attrs := map[string]string{}
	scanner := bufio.NewScanner(bufio.NewReader(r))
	var lastKey string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, " ") {
			if lastKey != "" {
				attrs[lastKey] += strings.TrimPrefix(line, " ")
			}
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		val := strings.TrimSpace(line[idx+1:])
		attrs[key] = val
		lastKey = key
	}
	return attrs, scanner.Err()
}
