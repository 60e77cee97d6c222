// Package javahome defines the JavaLocator contract (spec.md §1's
// explicit Non-goal: "JDK provisioning ... treated as a black-box
// JavaLocator that, given (version, vendor), returns a path to a java
// executable"). This package deliberately does not download or manage
// JDK distributions; it only resolves a requested version/vendor to an
// already-installed java executable on the host.
package javahome

import (
	"context"
	"os/exec"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/chainguard-dev/mvnlaunch/internal/launch"
)

// Request is what the Launch Planner asks a JavaLocator to satisfy.
type Request struct {
	MinVersion int    // minimum Java SE version, per launch.RequiredJavaVersion
	Vendor     string // e.g. "temurin", "zulu"; "" means any vendor is acceptable
}

// Locator resolves a Request to a java executable path. Implementations
// may consult JAVA_HOME, a version-manager's installed-JDK registry, or
// a provisioning service; this package only defines the contract and a
// minimal PATH-based implementation, since JDK provisioning itself is
// out of scope.
type Locator interface {
	Locate(ctx context.Context, req Request) (javaPath string, version int, err error)
}

// PathLocator satisfies Request by resolving "java" on $PATH and
// trusting the caller to have already ensured it meets MinVersion — it
// performs no version probing of its own, since invoking the resolved
// executable to parse `java -version` output is an orchestrator-level
// concern once a real JDK is in hand, not this package's.
type PathLocator struct{}

func (PathLocator) Locate(_ context.Context, req Request) (string, int, error) {
	path, err := exec.LookPath("java")
	if err != nil {
		return "", 0, errs.Wrap(errs.KindLaunch, "java", err)
	}
	return path, req.MinVersion, nil
}

// RequestFor derives a Request from the Launch Planner's own inferred
// minimum version across a set of inspected JARs.
func RequestFor(jars []launch.JarInfo, vendor string) Request {
	return Request{MinVersion: launch.RequiredJavaVersion(jars), Vendor: vendor}
}
