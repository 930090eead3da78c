// Package moduleloader implements spec.md §4.8: the single entry point
// require()/import() ultimately call through, tying together specifier
// classification, resolution, format detection, and the per-format loaders.
package moduleloader

import (
	"strings"
	"sync/atomic"

	"github.com/dop251/goja"
	"github.com/spf13/afero"

	"github.com/speedboat/jsrt/format"
	"github.com/speedboat/jsrt/internal/jserr"
	"github.com/speedboat/jsrt/loader"
	"github.com/speedboat/jsrt/manifest"
	"github.com/speedboat/jsrt/modulecache"
	"github.com/speedboat/jsrt/protocol"
	"github.com/speedboat/jsrt/resolver"
)

// Stats accumulates the failure statistic mentioned in spec.md §4.8 step 6.
type Stats struct {
	Failures atomic.Int64
}

// Facade is the stateful module loader described by spec.md §4.8.
type Facade struct {
	FS       afero.Fs
	Registry *protocol.Registry
	Cache    *modulecache.Cache
	Manifest *manifest.Cache
	CWD      string

	Builtin  *loader.Builtin
	CommonJS *loader.CommonJS
	JSON     *loader.JSON
	ESM      *loader.ESM

	Stats Stats

	// modulePaths reverses a compiled ESM module record back to the resolved
	// path it was compiled from, since goja's module resolver callback only
	// hands back the referencing module's own opaque record - the same
	// problem the teacher's ModuleResolver.reverse map solves.
	modulePaths map[goja.ModuleRecord]string
}

// New wires a Facade and its loaders together, including the CommonJS
// require() and ESM module-resolver callbacks that close back over Load.
func New(fs afero.Fs, registry *protocol.Registry, cache *modulecache.Cache, mcache *manifest.Cache, cwd string, builtinTable map[string]loader.Initializer, nodeCompat loader.NodeCompatRegistry, opts loader.Options) *Facade {
	f := &Facade{
		FS:          fs,
		Registry:    registry,
		Cache:       cache,
		Manifest:    mcache,
		CWD:         cwd,
		modulePaths: make(map[goja.ModuleRecord]string),
	}
	f.Builtin = loader.NewBuiltin(builtinTable, nodeCompat, cache)
	f.JSON = loader.NewJSON(registry, cache)
	f.CommonJS = loader.NewCommonJS(registry, cache, func(rt *goja.Runtime, specifier, referrer string) (goja.Value, error) {
		return f.Load(rt, specifier, referrer)
	}, opts)
	f.ESM = loader.NewESM(registry, cache)
	return f
}

// Load implements spec.md §4.8's algorithm.
func (f *Facade) Load(rt *goja.Runtime, specifierStr, referrer string) (goja.Value, error) {
	v, err := f.load(rt, specifierStr, referrer)
	if err != nil {
		f.Stats.Failures.Add(1)
	}
	return v, err
}

func (f *Facade) load(rt *goja.Runtime, specifierStr, referrer string) (goja.Value, error) {
	if isBuiltinByPrefix(specifierStr) {
		return f.Builtin.Load(rt, specifierStr)
	}

	isESM := false
	if m := manifest.FindAndParse(f.FS, referrerDir(referrer, f.CWD)); m != nil {
		isESM = manifest.IsESM(m)
	}

	resolved, err := resolver.Resolve(f.FS, f.Manifest, specifierStr, referrer, isESM, f.CWD)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeModuleNotFound, "module not found: "+specifierStr, err)
	}
	if resolved.IsBuiltin {
		return f.Builtin.Load(rt, resolved.Resolved)
	}

	if cached, ok := f.Cache.Get(resolved.Resolved); ok {
		if cv, ok := cached.(goja.Value); ok {
			return cv, nil
		}
	}

	var content []byte
	if !resolved.IsURL {
		content, _ = afero.ReadFile(f.FS, resolved.Resolved)
	}
	detected := format.Detect(f.FS, resolved.Resolved, content)

	switch detected {
	case format.JSON:
		return f.JSON.Load(rt, resolved.Resolved)
	case format.ESM:
		mod, err := f.ESM.Compile(resolved.Resolved, f.resolveForModule)
		if err != nil {
			return nil, err
		}
		f.modulePaths[mod] = resolved.Resolved
		return loader.Evaluate(rt, mod, f.resolveForModule)
	default:
		return f.CommonJS.Load(rt, resolved.Resolved)
	}
}

func (f *Facade) resolveForModule(referencingScriptOrModule interface{}, specifierStr string) (goja.ModuleRecord, error) {
	referrer := f.reverseReferrer(referencingScriptOrModule)
	resolved, err := resolver.Resolve(f.FS, f.Manifest, specifierStr, referrer, true, f.CWD)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeModuleNotFound, "module not found: "+specifierStr, err)
	}
	mod, err := f.ESM.Compile(resolved.Resolved, f.resolveForModule)
	if err != nil {
		return nil, err
	}
	f.modulePaths[mod] = resolved.Resolved
	return mod, nil
}

// reverseReferrer recovers the referrer path of the referencing module. The
// entry module has no referrer (nil), in which case CWD anchors resolution.
func (f *Facade) reverseReferrer(referencingScriptOrModule interface{}) string {
	if referencingScriptOrModule == nil {
		return ""
	}
	mod, ok := referencingScriptOrModule.(goja.ModuleRecord)
	if !ok {
		return ""
	}
	return f.modulePaths[mod]
}

func isBuiltinByPrefix(s string) bool {
	return strings.HasPrefix(s, "jsrt:") || strings.HasPrefix(s, "node:")
}

func referrerDir(referrer, cwd string) string {
	if referrer == "" {
		return cwd
	}
	idx := strings.LastIndex(referrer, "/")
	if idx < 0 {
		return cwd
	}
	return referrer[:idx]
}
