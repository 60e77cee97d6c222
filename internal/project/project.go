// Package project implements the Project File Model (spec.md §6.2): the
// human-authored declarative environment descriptor. It is HCL
// (github.com/hashicorp/hcl/v2 + github.com/zclconf/go-cty); the
// machine-written lock file is TOML and is handled by internal/lockfile.
// HCL is the same
// stack `lfreleng-actions-build-metadata-action` and
// `petrarca-tech-stack-analyzer` use to parse nested key/value
// configuration via hclsyntax.
package project

import (
	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// File is the parsed shape of spec.md §6.2's recognized keys.
// Properties/Entrypoints/Repositories/Shortcuts are "dynamic
// configuration dictionaries" (spec.md §9): each is a single HCL
// attribute whose expression is an object, so arbitrary dotted keys
// (e.g. "log.level") need no special nested-block flattening — the map
// key already carries the dots.
type File struct {
	EnvironmentName string

	Coordinates []string
	Exclusions  []string

	GC      string
	MinHeap string
	MaxHeap string

	Properties map[string]string

	Entrypoints map[string]string

	CacheDir  string
	RepoCache string
	Links     string

	Repositories map[string]string
	Shortcuts    map[string]string
}

var schema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "entrypoints"},
		{Name: "repositories"},
		{Name: "shortcuts"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "environment"},
		{Type: "dependencies"},
		{Type: "java"},
		{Type: "settings"},
	},
}

// Parse reads an HCL project file's structured fields. It ignores any
// keys not in spec.md §6.2's recognized set rather than erroring, the
// way a tolerant config reader should.
func Parse(path string) (*File, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, errs.Wrap(errs.KindParse, path, diags)
	}

	content, _, diags := hclFile.Body.PartialContent(schema)
	if diags.HasErrors() {
		return nil, errs.Wrap(errs.KindParse, path, diags)
	}

	pf := &File{}

	if attr, ok := content.Attributes["entrypoints"]; ok {
		m, err := attrStringMap(attr)
		if err != nil {
			return nil, errs.Wrap(errs.KindParse, path, err)
		}
		pf.Entrypoints = m
	}
	if attr, ok := content.Attributes["repositories"]; ok {
		m, err := attrStringMap(attr)
		if err != nil {
			return nil, errs.Wrap(errs.KindParse, path, err)
		}
		pf.Repositories = m
	}
	if attr, ok := content.Attributes["shortcuts"]; ok {
		m, err := attrStringMap(attr)
		if err != nil {
			return nil, errs.Wrap(errs.KindParse, path, err)
		}
		pf.Shortcuts = m
	}

	for _, block := range content.Blocks {
		switch block.Type {
		case "environment":
			if err := parseEnvironmentBlock(block, pf); err != nil {
				return nil, errs.Wrap(errs.KindParse, path, err)
			}
		case "dependencies":
			if err := parseDependenciesBlock(block, pf); err != nil {
				return nil, errs.Wrap(errs.KindParse, path, err)
			}
		case "java":
			if err := parseJavaBlock(block, pf); err != nil {
				return nil, errs.Wrap(errs.KindParse, path, err)
			}
		case "settings":
			if err := parseSettingsBlock(block, pf); err != nil {
				return nil, errs.Wrap(errs.KindParse, path, err)
			}
		}
	}

	return pf, nil
}

func parseEnvironmentBlock(block *hcl.Block, pf *File) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	if attr, ok := attrs["name"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.EnvironmentName = v
	}
	return nil
}

func parseDependenciesBlock(block *hcl.Block, pf *File) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	if attr, ok := attrs["coordinates"]; ok {
		v, err := attrStringList(attr)
		if err != nil {
			return err
		}
		pf.Coordinates = v
	}
	if attr, ok := attrs["exclusions"]; ok {
		v, err := attrStringList(attr)
		if err != nil {
			return err
		}
		pf.Exclusions = v
	}
	return nil
}

func parseJavaBlock(block *hcl.Block, pf *File) error {
	content, _, diags := block.Body.PartialContent(&hcl.BodySchema{
		Attributes: []hcl.AttributeSchema{
			{Name: "gc"}, {Name: "min_heap"}, {Name: "max_heap"}, {Name: "properties"},
		},
	})
	if diags.HasErrors() {
		return diags
	}
	if attr, ok := content.Attributes["gc"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.GC = v
	}
	if attr, ok := content.Attributes["min_heap"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.MinHeap = v
	}
	if attr, ok := content.Attributes["max_heap"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.MaxHeap = v
	}
	if attr, ok := content.Attributes["properties"]; ok {
		m, err := attrStringMap(attr)
		if err != nil {
			return err
		}
		pf.Properties = m
	}
	return nil
}

func parseSettingsBlock(block *hcl.Block, pf *File) error {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return diags
	}
	if attr, ok := attrs["cache_dir"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.CacheDir = v
	}
	if attr, ok := attrs["repo_cache"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.RepoCache = v
	}
	if attr, ok := attrs["links"]; ok {
		v, err := attrString(attr)
		if err != nil {
			return err
		}
		pf.Links = v
	}
	return nil
}

func attrString(attr *hcl.Attribute) (string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return "", diags
	}
	return v.AsString(), nil
}

func attrStringList(attr *hcl.Attribute) ([]string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() {
		return nil, nil
	}
	var out []string
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		out = append(out, ev.AsString())
	}
	return out, nil
}

func attrStringMap(attr *hcl.Attribute) (map[string]string, error) {
	v, diags := attr.Expr.Value(nil)
	if diags.HasErrors() {
		return nil, diags
	}
	if v.IsNull() || !(v.Type().IsObjectType() || v.Type().IsMapType()) {
		return map[string]string{}, nil
	}
	out := map[string]string{}
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		if ev.Type() != cty.String {
			continue
		}
		out[k.AsString()] = ev.AsString()
	}
	return out, nil
}
