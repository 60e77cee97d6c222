package output

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseResult() *Result {
	return &Result{
		Operation:   "resolve",
		Timestamp:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Fingerprint: "abc123",
		Artifacts: []ArtifactLine{
			{GroupID: "org.apache.commons", ArtifactID: "commons-lang3", Version: "3.12.0", Packaging: "jar", Scope: "compile", Placement: "classpath"},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, baseResult().Write("json", &buf))
	assert.Contains(t, buf.String(), `"group_id"`)
	assert.Contains(t, buf.String(), "commons-lang3")
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, baseResult().Write("yaml", &buf))
	assert.Contains(t, buf.String(), "group_id:")

	var buf2 bytes.Buffer
	require.NoError(t, baseResult().Write("yml", &buf2))
	assert.Equal(t, buf.String(), buf2.String())
}

func TestWriteHuman(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, baseResult().Write("human", &buf))
	out := buf.String()
	assert.Contains(t, out, "Resolve")
	assert.Contains(t, out, "Fingerprint: abc123")
	assert.Contains(t, out, "commons-lang3")
	assert.Contains(t, out, "[classpath]")
}

func TestWriteUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := baseResult().Write("xml", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: xml")
}

func TestWriteEmptyFormatDefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, baseResult().Write("", &buf))
	assert.Contains(t, buf.String(), `"operation"`)
}
