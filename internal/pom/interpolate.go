package pom

import (
	"fmt"
	"regexp"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

var propertyRef = regexp.MustCompile(`\$\{([^}]+)\}`)

const maxInterpolationIterations = 16

// interpolator resolves ${...} tokens against a property map to a fixed
// point, detecting cycles, per spec.md §4.1 step 4.
type interpolator struct {
	properties map[string]string
	warnings   *[]string
}

// resolveOne substitutes every ${key} token in s, iterating until no
// further substitutions occur or the iteration cap is hit. It detects
// cycles by tracking the chain of keys being expanded within one call.
func (in *interpolator) resolveOne(s string) (string, error) {
	seen := map[string]bool{}
	cur := s
	for i := 0; i < maxInterpolationIterations; i++ {
		changed := false
		var resolveErr error
		next := propertyRef.ReplaceAllStringFunc(cur, func(m string) string {
			key := propertyRef.FindStringSubmatch(m)[1]
			if seen[key] {
				resolveErr = errs.New(errs.KindResolution, fmt.Sprintf("interpolation cycle involving ${%s}", key))
				return m
			}
			val, ok := in.properties[key]
			if !ok {
				return m // leave literal; caller records a soft warning
			}
			seen[key] = true
			changed = true
			return val
		})
		if resolveErr != nil {
			return "", resolveErr
		}
		cur = next
		if !changed {
			break
		}
	}
	if propertyRef.MatchString(cur) && in.warnings != nil {
		for _, m := range propertyRef.FindAllStringSubmatch(cur, -1) {
			*in.warnings = append(*in.warnings, fmt.Sprintf("unresolved property reference ${%s}", m[1]))
		}
	}
	return cur, nil
}

func (in *interpolator) resolveDependency(d RawDependency) (RawDependency, error) {
	var err error
	if d.GroupID, err = in.resolveOne(d.GroupID); err != nil {
		return d, err
	}
	if d.ArtifactID, err = in.resolveOne(d.ArtifactID); err != nil {
		return d, err
	}
	if d.Version, err = in.resolveOne(d.Version); err != nil {
		return d, err
	}
	if d.Classifier, err = in.resolveOne(d.Classifier); err != nil {
		return d, err
	}
	if d.Scope, err = in.resolveOne(d.Scope); err != nil {
		return d, err
	}
	return d, nil
}

func mergeProperties(base, override map[string]string) map[string]string {
	merged := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}

func wellKnownProperties(groupID, artifactID, version string) map[string]string {
	return map[string]string{
		"project.groupId":    groupID,
		"project.artifactId": artifactID,
		"project.version":    version,
		"project.basedir":    "",
		"groupId":            groupID,
		"artifactId":         artifactID,
		"version":            version,
		"pom.groupId":        groupID,
		"pom.artifactId":     artifactID,
		"pom.version":        version,
	}
}
