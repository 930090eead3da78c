// Package manifest reads, queries, and caches the nearest ancestor
// package.json per spec.md §4.2. The shape-shifting "exports"/"imports"
// fields (string or object, possibly nested conditionals) are queried with
// gjson rather than unmarshaled into a rigid struct, since their shape is
// genuinely polymorphic; the small set of scalar fields we always need
// (type, main, module) are read with gjson as well.
package manifest

import (
	"path"
	"strings"

	"github.com/spf13/afero"
	"github.com/tidwall/gjson"
)

// Manifest is the parsed form of one package.json, per spec.md §3.
type Manifest struct {
	Type    string // "module" | "commonjs" | ""
	Main    string
	Module  string
	Dir     string // absolute directory containing the manifest
	raw     string // original JSON text, queried lazily for exports/imports
}

const filename = "package.json"

// ParseExact reads exactly one package.json file at path.
func ParseExact(fs afero.Fs, filePath string) (*Manifest, error) {
	data, err := afero.ReadFile(fs, filePath)
	if err != nil {
		return nil, err
	}
	text := string(data)
	if !gjson.Valid(text) {
		return nil, errInvalidJSON(filePath)
	}
	m := &Manifest{
		Dir: path.Dir(filePath),
		raw: text,
	}
	m.Type = gjson.Get(text, "type").String()
	m.Main = gjson.Get(text, "main").String()
	m.Module = gjson.Get(text, "module").String()
	return m, nil
}

type parseError struct{ path string }

func (e *parseError) Error() string { return "invalid package.json: " + e.path }

func errInvalidJSON(p string) error { return &parseError{path: p} }

// FindAndParse walks ancestor directories starting at startDir, returning
// the first package.json found. A parse failure is treated as absent - no
// error propagates, per spec.md §4.2. find_and_parse is intentionally not
// memoizing; callers that want caching use Cache (below).
func FindAndParse(fs afero.Fs, startDir string) *Manifest {
	dir := startDir
	for {
		candidate := path.Join(dir, filename)
		if ok, _ := afero.Exists(fs, candidate); ok {
			m, err := ParseExact(fs, candidate)
			if err != nil {
				return nil
			}
			return m
		}
		parent := path.Dir(dir)
		if parent == dir {
			return nil
		}
		dir = parent
	}
}

// ResolveExports implements spec.md §4.2's exports resolution: a string
// exports maps "." directly; an object is looked up by subpath, and string
// values return directly while object values try the conditional keys
// "import"/"require" (depending on isESM) then "default".
func ResolveExports(m *Manifest, subpath string, isESM bool) (string, bool) {
	if m == nil {
		return "", false
	}
	exportsVal := gjson.Get(m.raw, "exports")
	if !exportsVal.Exists() {
		return "", false
	}

	if exportsVal.Type == gjson.String {
		if subpath == "." {
			return exportsVal.String(), true
		}
		return "", false
	}

	if !exportsVal.IsObject() {
		return "", false
	}

	entry := exportsVal.Get(gjsonEscape(subpath))
	if !entry.Exists() {
		return "", false
	}
	return resolveConditional(entry, isESM)
}

// ResolveImports implements spec.md §4.2's "#name" subpath imports lookup,
// with condition "default" only.
func ResolveImports(m *Manifest, name string) (string, bool) {
	if m == nil {
		return "", false
	}
	importsVal := gjson.Get(m.raw, "imports")
	if !importsVal.Exists() || !importsVal.IsObject() {
		return "", false
	}
	entry := importsVal.Get(gjsonEscape(name))
	if !entry.Exists() {
		return "", false
	}
	if entry.Type == gjson.String {
		return entry.String(), true
	}
	if entry.IsObject() {
		def := entry.Get("default")
		if def.Exists() && def.Type == gjson.String {
			return def.String(), true
		}
	}
	return "", false
}

func resolveConditional(entry gjson.Result, isESM bool) (string, bool) {
	if entry.Type == gjson.String {
		return entry.String(), true
	}
	if !entry.IsObject() {
		return "", false
	}
	conditions := []string{"require", "default"}
	if isESM {
		conditions = []string{"import", "default"}
	}
	for _, cond := range conditions {
		v := entry.Get(cond)
		if v.Exists() && v.Type == gjson.String {
			return v.String(), true
		}
	}
	return "", false
}

// gjsonEscape escapes path-like keys (e.g. "./sub") for use with gjson.Get,
// since '.' is gjson's own path separator.
func gjsonEscape(key string) string {
	return strings.ReplaceAll(key, ".", `\.`)
}

// GetMain returns the ESM "module" field when isESM and set, else "main" if
// set, else "".
func GetMain(m *Manifest, isESM bool) (string, bool) {
	if m == nil {
		return "", false
	}
	if isESM && m.Module != "" {
		return m.Module, true
	}
	if m.Main != "" {
		return m.Main, true
	}
	return "", false
}

// IsESM reports whether the manifest declares "type": "module".
func IsESM(m *Manifest) bool {
	return m != nil && m.Type == "module"
}
