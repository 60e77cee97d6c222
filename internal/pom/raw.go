package pom

import (
	"strings"

	"github.com/chainguard-dev/gopom"
	"github.com/chainguard-dev/mvnlaunch/internal/coordinate"
)

// RawDependency is our normalized view of a gopom.Dependency, isolating
// the rest of this package from gopom's exact field shapes.
type RawDependency struct {
	GroupID    string
	ArtifactID string
	Version    string
	Classifier string
	Type       string // packaging; "pom" + Scope=="import" marks a BOM
	Scope      string
	Optional   bool
	Exclusions []coordinate.Exclusion
}

// RawActivation is our normalized view of a gopom.Activation.
type RawActivation struct {
	ActiveByDefault bool
	JDK             string
	OSName          string
	OSFamily        string
	OSArch          string
	OSVersion       string
	PropertyName    string
	PropertyValue   string
	FileExists      string
	FileMissing     string
	HasJDK          bool
	HasOS           bool
	HasProperty     bool
	HasFile         bool
}

// RawProfile is our normalized view of a gopom.Profile.
type RawProfile struct {
	ID                   string
	Activation           RawActivation
	Properties           map[string]string
	Dependencies         []RawDependency
	ManagedDependencies  []RawDependency
	Repositories         []string
}

// RawPOM is our normalized view of a gopom.Project: everything the
// effective-POM builder needs, with gopom's pointer-heavy optional fields
// flattened into plain zero values.
type RawPOM struct {
	GroupID    string
	ArtifactID string
	Version    string
	Packaging  string

	ParentGroupID    string
	ParentArtifactID string
	ParentVersion    string
	HasParent        bool

	Properties          map[string]string
	Dependencies        []RawDependency
	ManagedDependencies []RawDependency
	Profiles            []RawProfile
	Repositories        []string
}

// FromGopom converts a parsed gopom.Project into our RawPOM, tolerating
// every optional section being absent.
func FromGopom(p *gopom.Project) RawPOM {
	raw := RawPOM{
		GroupID:    p.GroupID,
		ArtifactID: p.ArtifactID,
		Version:    p.Version,
		Packaging:  strings.ToLower(p.Packaging),
	}
	if raw.Packaging == "" {
		raw.Packaging = "jar"
	}

	if p.Parent != nil {
		raw.HasParent = true
		raw.ParentGroupID = p.Parent.GroupID
		raw.ParentArtifactID = p.Parent.ArtifactID
		raw.ParentVersion = p.Parent.Version
	}

	raw.Properties = map[string]string{}
	if p.Properties != nil && p.Properties.Entries != nil {
		for k, v := range p.Properties.Entries {
			raw.Properties[k] = v
		}
	}

	if p.Dependencies != nil {
		for _, d := range *p.Dependencies {
			raw.Dependencies = append(raw.Dependencies, fromGopomDependency(d))
		}
	}

	if p.DependencyManagement != nil && p.DependencyManagement.Dependencies != nil {
		for _, d := range *p.DependencyManagement.Dependencies {
			raw.ManagedDependencies = append(raw.ManagedDependencies, fromGopomDependency(d))
		}
	}

	if p.Repositories != nil {
		for _, r := range *p.Repositories {
			if r.URL != "" {
				raw.Repositories = append(raw.Repositories, r.URL)
			}
		}
	}

	if p.Profiles != nil {
		for _, prof := range *p.Profiles {
			raw.Profiles = append(raw.Profiles, fromGopomProfile(prof))
		}
	}

	return raw
}

func fromGopomDependency(d gopom.Dependency) RawDependency {
	rd := RawDependency{
		GroupID:    d.GroupID,
		ArtifactID: d.ArtifactID,
		Version:    d.Version,
		Classifier: d.Classifier,
		Type:       strings.ToLower(d.Type),
		Scope:      d.Scope,
		Optional:   strings.EqualFold(d.Optional, "true"),
	}
	if rd.Type == "" {
		rd.Type = "jar"
	}
	if d.Exclusions != nil {
		for _, ex := range *d.Exclusions {
			rd.Exclusions = append(rd.Exclusions, coordinate.Exclusion{GroupID: ex.GroupID, ArtifactID: ex.ArtifactID})
		}
	}
	return rd
}

func fromGopomProfile(p gopom.Profile) RawProfile {
	rp := RawProfile{ID: p.ID, Properties: map[string]string{}}
	if p.Activation != nil {
		a := p.Activation
		rp.Activation.ActiveByDefault = strings.EqualFold(a.ActiveByDefault, "true")
		if a.JDK != "" {
			rp.Activation.HasJDK = true
			rp.Activation.JDK = a.JDK
		}
		if a.OS != nil {
			rp.Activation.HasOS = true
			rp.Activation.OSName = a.OS.Name
			rp.Activation.OSFamily = a.OS.Family
			rp.Activation.OSArch = a.OS.Arch
			rp.Activation.OSVersion = a.OS.Version
		}
		if a.Property != nil {
			rp.Activation.HasProperty = true
			rp.Activation.PropertyName = a.Property.Name
			rp.Activation.PropertyValue = a.Property.Value
		}
		if a.File != nil {
			rp.Activation.HasFile = true
			rp.Activation.FileExists = a.File.Exists
			rp.Activation.FileMissing = a.File.Missing
		}
	}
	if p.Properties != nil && p.Properties.Entries != nil {
		for k, v := range p.Properties.Entries {
			rp.Properties[k] = v
		}
	}
	if p.Dependencies != nil {
		for _, d := range *p.Dependencies {
			rp.Dependencies = append(rp.Dependencies, fromGopomDependency(d))
		}
	}
	if p.DependencyManagement != nil && p.DependencyManagement.Dependencies != nil {
		for _, d := range *p.DependencyManagement.Dependencies {
			rp.ManagedDependencies = append(rp.ManagedDependencies, fromGopomDependency(d))
		}
	}
	if p.Repositories != nil {
		for _, r := range *p.Repositories {
			if r.URL != "" {
				rp.Repositories = append(rp.Repositories, r.URL)
			}
		}
	}
	return rp
}
