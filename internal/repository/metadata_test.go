package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {
	doc := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<metadata>
  <groupId>org.example</groupId>
  <artifactId>widget</artifactId>
  <versioning>
    <latest>2.0-SNAPSHOT</latest>
    <release>1.5.0</release>
    <versions>
      <version>1.0.0</version>
      <version>1.5.0</version>
      <version>2.0-SNAPSHOT</version>
    </versions>
    <lastUpdated>20250101120000</lastUpdated>
  </versioning>
</metadata>`)

	m, err := ParseMetadata(doc)
	require.NoError(t, err)
	assert.Equal(t, "org.example", m.GroupID)
	assert.Equal(t, "widget", m.ArtifactID)
	assert.Equal(t, "1.5.0", m.Versioning.Release)
	assert.Equal(t, "2.0-SNAPSHOT", m.Versioning.Latest)
	assert.ElementsMatch(t, []string{"1.0.0", "1.5.0", "2.0-SNAPSHOT"}, m.Versioning.Versions)
}

func TestParseMetadataMalformed(t *testing.T) {
	_, err := ParseMetadata([]byte("not xml"))
	assert.Error(t, err)
}
