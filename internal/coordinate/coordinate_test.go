package coordinate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Coordinate
		wantErr bool
	}{
		{
			name: "group and artifact only",
			in:   "org.python:jython-standalone",
			want: Coordinate{GroupID: "org.python", ArtifactID: "jython-standalone", Packaging: "jar"},
		},
		{
			name: "with version",
			in:   "org.python:jython-standalone:2.7.4",
			want: Coordinate{GroupID: "org.python", ArtifactID: "jython-standalone", Version: "2.7.4", Packaging: "jar"},
		},
		{
			name: "with classifier and packaging",
			in:   "org.foo:bar:1.0:sources:jar",
			want: Coordinate{GroupID: "org.foo", ArtifactID: "bar", Version: "1.0", Classifier: "sources", Packaging: "jar"},
		},
		{
			name:    "missing artifact id",
			in:      "org.foo",
			wantErr: true,
		},
		{
			name:    "empty group",
			in:      ":bar:1.0",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCoordinateSpecModifiers(t *testing.T) {
	spec, err := ParseCoordinateSpec("org.apache.httpcomponents:httpclient:4.5.14(x:commons-logging:commons-logging)")
	require.NoError(t, err)
	assert.Equal(t, "org.apache.httpcomponents", spec.Coordinate.GroupID)
	assert.Equal(t, "httpclient", spec.Coordinate.ArtifactID)
	require.Len(t, spec.Exclusions, 1)
	assert.Equal(t, Exclusion{GroupID: "commons-logging", ArtifactID: "commons-logging"}, spec.Exclusions[0])

	spec, err = ParseCoordinateSpec("io.netty:netty-all:4.1.94.Final(m)!")
	require.NoError(t, err)
	assert.Equal(t, PlacementModulePath, spec.Placement)
	assert.True(t, spec.Raw)
}

func TestExclusionMatchesWildcard(t *testing.T) {
	e := Exclusion{GroupID: "*", ArtifactID: "commons-logging"}
	assert.True(t, e.Matches("anything", "commons-logging"))
	assert.False(t, e.Matches("anything", "other"))
}

func TestParseEndpoint(t *testing.T) {
	ep, err := ParseEndpoint("org.python:jython-standalone:2.7.4@org.python.util.jython")
	require.NoError(t, err)
	require.Len(t, ep.Coordinates, 1)
	assert.Equal(t, "org.python.util.jython", ep.MainClass)

	ep, err = ParseEndpoint("a:b:1.0+c:d:2.0")
	require.NoError(t, err)
	require.Len(t, ep.Coordinates, 2)
	assert.Equal(t, "", ep.MainClass)
}

func TestFormatRoundTrip(t *testing.T) {
	c := Coordinate{GroupID: "g", ArtifactID: "a", Version: "1.0"}
	parsed, err := ParseCoordinate(Format(c, false))
	require.NoError(t, err)
	assert.Equal(t, c.Normalize(), parsed)
}
