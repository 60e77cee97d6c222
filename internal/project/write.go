package project

import (
	"os"
	"path/filepath"

	"github.com/chainguard-dev/mvnlaunch/internal/errs"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Render produces a fresh project file's HCL source for a File value,
// used when no project file exists yet.
func Render(pf *File) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()

	env := root.AppendNewBlock("environment", nil).Body()
	if pf.EnvironmentName != "" {
		env.SetAttributeValue("name", cty.StringVal(pf.EnvironmentName))
	}
	root.AppendNewline()

	deps := root.AppendNewBlock("dependencies", nil).Body()
	if len(pf.Coordinates) > 0 {
		deps.SetAttributeValue("coordinates", stringListVal(pf.Coordinates))
	}
	if len(pf.Exclusions) > 0 {
		deps.SetAttributeValue("exclusions", stringListVal(pf.Exclusions))
	}
	root.AppendNewline()

	java := root.AppendNewBlock("java", nil).Body()
	if pf.GC != "" {
		java.SetAttributeValue("gc", cty.StringVal(pf.GC))
	}
	if pf.MinHeap != "" {
		java.SetAttributeValue("min_heap", cty.StringVal(pf.MinHeap))
	}
	if pf.MaxHeap != "" {
		java.SetAttributeValue("max_heap", cty.StringVal(pf.MaxHeap))
	}
	if len(pf.Properties) > 0 {
		java.SetAttributeValue("properties", stringMapVal(pf.Properties))
	}
	root.AppendNewline()

	if len(pf.Entrypoints) > 0 {
		root.SetAttributeValue("entrypoints", stringMapVal(pf.Entrypoints))
	}
	if len(pf.Repositories) > 0 {
		root.SetAttributeValue("repositories", stringMapVal(pf.Repositories))
	}
	if len(pf.Shortcuts) > 0 {
		root.SetAttributeValue("shortcuts", stringMapVal(pf.Shortcuts))
	}

	settings := root.AppendNewBlock("settings", nil).Body()
	if pf.CacheDir != "" {
		settings.SetAttributeValue("cache_dir", cty.StringVal(pf.CacheDir))
	}
	if pf.RepoCache != "" {
		settings.SetAttributeValue("repo_cache", cty.StringVal(pf.RepoCache))
	}
	if pf.Links != "" {
		settings.SetAttributeValue("links", cty.StringVal(pf.Links))
	}

	return f.Bytes()
}

// Write atomically commits a freshly rendered project file to path.
func Write(path string, pf *File) error {
	return writeAtomic(path, Render(pf))
}

// UpdateEntrypoint performs a read-modify-write that sets a single
// entrypoint on an existing project file, preserving every other key
// and comment the underlying hclwrite AST carries (spec.md §9: "Read-
// modify-write of the project file preserves unrelated keys and
// comments where the underlying format supports it").
func UpdateEntrypoint(path, name, mainClass string) error {
	return updateTopLevelMapEntry(path, "entrypoints", name, mainClass)
}

// UpdateShortcut is UpdateEntrypoint's counterpart for spec.md §6.2's
// `shortcuts.<name>` dictionary.
func UpdateShortcut(path, name, endpoint string) error {
	return updateTopLevelMapEntry(path, "shortcuts", name, endpoint)
}

func updateTopLevelMapEntry(path, attrName, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	f, diags := hclwrite.ParseConfig(data, filepath.Base(path), hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return errs.Wrap(errs.KindParse, path, diags)
	}

	root := f.Body()
	existing := map[string]cty.Value{}
	if attr := root.GetAttribute(attrName); attr != nil {
		// Best-effort: re-parse the existing expression's known string
		// keys via the read path so values not being touched survive.
		if pf, perr := Parse(path); perr == nil {
			m := mapField(pf, attrName)
			for k, v := range m {
				existing[k] = cty.StringVal(v)
			}
		}
	}
	existing[key] = cty.StringVal(value)
	root.SetAttributeValue(attrName, cty.ObjectVal(existing))

	return writeAtomic(path, f.Bytes())
}

func mapField(pf *File, attrName string) map[string]string {
	switch attrName {
	case "entrypoints":
		return pf.Entrypoints
	case "shortcuts":
		return pf.Shortcuts
	case "repositories":
		return pf.Repositories
	default:
		return nil
	}
}

func stringListVal(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

func stringMapVal(m map[string]string) cty.Value {
	if len(m) == 0 {
		return cty.ObjectVal(map[string]cty.Value{})
	}
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.StringVal(v)
	}
	return cty.ObjectVal(vals)
}

func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return errs.Wrap(errs.KindIO, path, err)
	}
	return nil
}
