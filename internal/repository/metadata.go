package repository

import (
	"encoding/xml"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
)

// Metadata mirrors the subset of maven-metadata.xml this module consumes:
// the version list (for LATEST/RELEASE/range resolution) and the
// snapshot/release pointers.
//
// gopom (the teacher's POM parser) only models the <project> document type,
// not <metadata>; maven-metadata.xml has no dependency/property/profile
// structure to share with a POM, so there is nothing in it that gopom's
// machinery buys us. No example repo in the corpus carries a dedicated
// maven-metadata.xml parser either, so this is hand-rolled over
// encoding/xml (DESIGN.md).
type Metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest      string   `xml:"latest"`
		Release     string   `xml:"release"`
		Versions    []string `xml:"versions>version"`
		LastUpdated string   `xml:"lastUpdated"`
	} `xml:"versioning"`
}

// ParseMetadata parses a maven-metadata.xml document.
func ParseMetadata(data []byte) (Metadata, error) {
	var m Metadata
	if err := xml.Unmarshal(data, &m); err != nil {
		return Metadata{}, errs.Wrap(errs.KindParse, "maven-metadata.xml", err)
	}
	return m, nil
}
