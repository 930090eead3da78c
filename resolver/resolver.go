// Package resolver implements spec.md §4.6: turning a classified specifier
// plus a referrer into a concrete ResolvedPath, probing the filesystem for
// the usual extension/index fallbacks along the way.
package resolver

import (
	"github.com/spf13/afero"

	"github.com/speedboat/jsrt/internal/jserr"
	"github.com/speedboat/jsrt/manifest"
	"github.com/speedboat/jsrt/pathutil"
	"github.com/speedboat/jsrt/specifier"
)

// ResolvedPath is the result of a successful resolve.
type ResolvedPath struct {
	Resolved  string
	IsBuiltin bool
	IsURL     bool
}

var supportedURLSchemes = map[string]bool{"http": true, "https": true, "file": true}

var extensionCandidates = []string{".js", ".mjs", ".cjs"}
var indexCandidates = []string{"index.js", "index.mjs", "index.cjs"}

// Resolve implements spec.md §4.6. cwd is used when referrer is empty.
func Resolve(fs afero.Fs, mcache *manifest.Cache, rawSpecifier, referrer string, isESM bool, cwd string) (*ResolvedPath, error) {
	spec, err := specifier.Classify(rawSpecifier)
	if err != nil {
		return nil, err
	}

	switch spec.Kind {
	case specifier.KindBuiltin:
		return &ResolvedPath{Resolved: rawSpecifier, IsBuiltin: true}, nil

	case specifier.KindURL:
		if !supportedURLSchemes[spec.Scheme] {
			return nil, jserr.New(jserr.CodeUnsupportedProtocol, "unsupported URL scheme: "+spec.Scheme)
		}
		return &ResolvedPath{Resolved: rawSpecifier, IsURL: true}, nil

	case specifier.KindRelative:
		base := cwd
		if referrer != "" {
			base = pathutil.Dirname(referrer)
		}
		candidate := pathutil.Join(base, spec.Name)
		return probeOrNotFound(fs, candidate)

	case specifier.KindAbsolute:
		return probeOrNotFound(fs, pathutil.Normalize(spec.Name))

	case specifier.KindPackageImport:
		base := cwd
		if referrer != "" {
			base = pathutil.Dirname(referrer)
		}
		m := findManifest(fs, mcache, base)
		if m == nil {
			return nil, jserr.New(jserr.CodePackageImportNotDefined, "no package.json found for import specifier: "+rawSpecifier)
		}
		target, ok := manifest.ResolveImports(m, spec.Name)
		if !ok {
			return nil, jserr.New(jserr.CodePackageImportNotDefined, "unresolved package import: "+rawSpecifier)
		}
		return probeOrNotFound(fs, pathutil.Join(m.Dir, target))

	case specifier.KindBare:
		base := cwd
		if referrer != "" {
			base = pathutil.Dirname(referrer)
		}
		return resolveBare(fs, mcache, spec, base, isESM)

	default:
		return nil, jserr.New(jserr.CodeModuleNotFound, "unclassifiable specifier: "+rawSpecifier)
	}
}

func findManifest(fs afero.Fs, mcache *manifest.Cache, startDir string) *manifest.Manifest {
	if mcache != nil {
		return mcache.FindAndParse(startDir)
	}
	return manifest.FindAndParse(fs, startDir)
}

// resolveBare walks ancestor directories from startDir looking for
// node_modules/<package>, per spec.md §4.6 step 7.
func resolveBare(fs afero.Fs, mcache *manifest.Cache, spec specifier.Specifier, startDir string, isESM bool) (*ResolvedPath, error) {
	pkgDir, ok := findPackageDir(fs, spec.Package, startDir)
	if !ok {
		return nil, jserr.New(jserr.CodeModuleNotFound, "package not found: "+spec.Package)
	}
	m := findManifestExact(fs, mcache, pkgDir)

	if spec.Subpath != "" {
		if target, ok := manifest.ResolveExports(m, "./"+spec.Subpath, isESM); ok {
			return probeOrNotFound(fs, pathutil.Join(pkgDir, target))
		}
		return probeOrNotFound(fs, pathutil.Join(pkgDir, spec.Subpath))
	}

	if target, ok := manifest.ResolveExports(m, ".", isESM); ok {
		return probeOrNotFound(fs, pathutil.Join(pkgDir, target))
	}
	if main, ok := manifest.GetMain(m, isESM); ok {
		return probeOrNotFound(fs, pathutil.Join(pkgDir, main))
	}
	return probeOrNotFound(fs, pkgDir)
}

func findManifestExact(fs afero.Fs, mcache *manifest.Cache, pkgDir string) *manifest.Manifest {
	if mcache != nil {
		return mcache.FindAndParse(pkgDir)
	}
	return manifest.FindAndParse(fs, pkgDir)
}

// findPackageDir walks ancestors of startDir looking for
// node_modules/<package>, the way Node's CommonJS resolver does.
func findPackageDir(fs afero.Fs, pkg, startDir string) (string, bool) {
	dir := startDir
	for {
		candidate := pathutil.Join(pathutil.Join(dir, "node_modules"), pkg)
		if ok, _ := afero.DirExists(fs, candidate); ok {
			return candidate, true
		}
		parent := pathutil.Dirname(dir)
		if parent == dir || dir == "/" {
			return "", false
		}
		dir = parent
	}
}

// probeOrNotFound implements spec.md §4.6's existence-probing fallback
// chain. It never itself returns NotFound - per the spec, an unresolved
// probe still returns the unadorned candidate so the loader can surface a
// more specific I/O error.
func probeOrNotFound(fs afero.Fs, candidate string) (*ResolvedPath, error) {
	if ok, _ := afero.Exists(fs, candidate); ok {
		if isDir, _ := afero.DirExists(fs, candidate); !isDir {
			return &ResolvedPath{Resolved: candidate}, nil
		}
	}

	for _, ext := range extensionCandidates {
		withExt := candidate + ext
		if ok, _ := afero.Exists(fs, withExt); ok {
			return &ResolvedPath{Resolved: withExt}, nil
		}
	}

	for _, idx := range indexCandidates {
		withIdx := pathutil.Join(candidate, idx)
		if ok, _ := afero.Exists(fs, withIdx); ok {
			return &ResolvedPath{Resolved: withIdx}, nil
		}
	}

	return &ResolvedPath{Resolved: candidate}, nil
}
