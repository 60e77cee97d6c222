package pom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mapLoader is a fixture Loader backed by an in-memory map, keyed
// "g:a:v", for unit-testing the effective-POM algorithm without a
// network-backed Repository Client.
type mapLoader map[string]RawPOM

func (m mapLoader) Load(_ context.Context, g, a, v string) (RawPOM, error) {
	raw, ok := m[g+":"+a+":"+v]
	if !ok {
		return RawPOM{}, assertNotFound(g, a, v)
	}
	return raw, nil
}

type notFoundErr string

func (e notFoundErr) Error() string { return string(e) }

func assertNotFound(g, a, v string) error {
	return notFoundErr(g + ":" + a + ":" + v + " not found")
}

func TestBuildParentMerge(t *testing.T) {
	loader := mapLoader{
		"com.example:parent:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "parent", Version: "1.0", Packaging: "pom",
			Properties: map[string]string{"shared.version": "2.0"},
			Dependencies: []RawDependency{
				{GroupID: "com.example", ArtifactID: "base", Version: "1.0", Type: "jar"},
			},
		},
		"com.example:child:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "child", Version: "1.0",
			HasParent: true, ParentGroupID: "com.example", ParentArtifactID: "parent", ParentVersion: "1.0",
			Dependencies: []RawDependency{
				{GroupID: "com.example", ArtifactID: "extra", Version: "${shared.version}", Type: "jar"},
			},
		},
	}
	eff, err := Build(context.Background(), loader, "com.example", "child", "1.0", ActivationContext{})
	require.NoError(t, err)
	require.Len(t, eff.Dependencies, 2)
	byArtifact := map[string]Dependency{}
	for _, d := range eff.Dependencies {
		byArtifact[d.Coordinate.ArtifactID] = d
	}
	assert.Equal(t, "1.0", byArtifact["base"].Coordinate.Version)
	assert.Equal(t, "2.0", byArtifact["extra"].Coordinate.Version)
}

func TestBuildBOMPinning(t *testing.T) {
	loader := mapLoader{
		"com.example:bom:3.0.0": RawPOM{
			GroupID: "com.example", ArtifactID: "bom", Version: "3.0.0", Packaging: "pom",
			ManagedDependencies: []RawDependency{
				{GroupID: "org.springframework", ArtifactID: "spring-core", Version: "5.3.22", Type: "jar"},
			},
		},
		"com.example:app:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "app", Version: "1.0",
			ManagedDependencies: []RawDependency{
				{GroupID: "com.example", ArtifactID: "bom", Version: "3.0.0", Type: "pom", Scope: "import"},
			},
			Dependencies: []RawDependency{
				{GroupID: "org.springframework", ArtifactID: "spring-core", Type: "jar"},
			},
		},
	}
	eff, err := Build(context.Background(), loader, "com.example", "app", "1.0", ActivationContext{})
	require.NoError(t, err)
	managed, ok := eff.ManagedVersion("org.springframework:spring-core::jar")
	require.True(t, ok)
	assert.Equal(t, "5.3.22", managed.Coordinate.Version)
}

func TestBuildInterpolationCycle(t *testing.T) {
	loader := mapLoader{
		"com.example:cyc:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "cyc", Version: "1.0",
			Properties: map[string]string{"a": "${b}", "b": "${a}"},
			Dependencies: []RawDependency{
				{GroupID: "g", ArtifactID: "x", Version: "${a}", Type: "jar"},
			},
		},
	}
	_, err := Build(context.Background(), loader, "com.example", "cyc", "1.0", ActivationContext{})
	require.Error(t, err)
}

func TestBuildParentCycleDetected(t *testing.T) {
	loader := mapLoader{
		"com.example:a:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "a", Version: "1.0",
			HasParent: true, ParentGroupID: "com.example", ParentArtifactID: "b", ParentVersion: "1.0",
		},
		"com.example:b:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "b", Version: "1.0",
			HasParent: true, ParentGroupID: "com.example", ParentArtifactID: "a", ParentVersion: "1.0",
		},
	}
	_, err := Build(context.Background(), loader, "com.example", "a", "1.0", ActivationContext{})
	require.Error(t, err)
}

func TestProfileActivationByOSFamily(t *testing.T) {
	loader := mapLoader{
		"com.example:withprofile:1.0": RawPOM{
			GroupID: "com.example", ArtifactID: "withprofile", Version: "1.0",
			Profiles: []RawProfile{
				{
					ID:         "linux-only",
					Activation: RawActivation{HasOS: true, OSFamily: "unix"},
					Dependencies: []RawDependency{
						{GroupID: "g", ArtifactID: "linux-native", Version: "1.0", Type: "jar"},
					},
				},
			},
		},
	}
	eff, err := Build(context.Background(), loader, "com.example", "withprofile", "1.0", ActivationContext{OSName: "Linux"})
	require.NoError(t, err)
	assert.Len(t, eff.Dependencies, 1)

	eff, err = Build(context.Background(), loader, "com.example", "withprofile", "1.0", ActivationContext{OSName: "Windows"})
	require.NoError(t, err)
	assert.Len(t, eff.Dependencies, 0)
}
