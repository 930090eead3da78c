package loader

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/modulecache"
	"github.com/speedboat/jsrt/pathutil"
	"github.com/speedboat/jsrt/protocol"
)

// ResolveForModule is the goja module resolver callback signature: given the
// referencing module record (nil for the entry module) and a raw specifier,
// produce the target ModuleRecord. The facade supplies this, since only it
// knows how to turn a specifier+referrer into a resolved path and dispatch
// to the right loader.
type ResolveForModule func(referencingScriptOrModule interface{}, specifier string) (goja.ModuleRecord, error)

// ESM implements spec.md §4.7's ESM loader.
type ESM struct {
	Registry *protocol.Registry
	Cache    *modulecache.Cache
}

func NewESM(registry *protocol.Registry, cache *modulecache.Cache) *ESM {
	return &ESM{Registry: registry, Cache: cache}
}

// Compile obtains source for resolvedPath and compiles it in module mode,
// returning the linkable goja.ModuleRecord. It does not evaluate it; per
// spec.md §4.7 step 4, evaluation happens through the engine's cyclic
// module linker, driven by the facade.
func (l *ESM) Compile(resolvedPath string, resolve ResolveForModule) (goja.ModuleRecord, error) {
	if cached, ok := l.Cache.Get(resolvedPath); ok {
		if mod, ok := cached.(goja.ModuleRecord); ok {
			return mod, nil
		}
	}

	src, err := l.Registry.Dispatch(resolvedPath)
	if err != nil {
		return nil, errLoadFailed(resolvedPath, err)
	}

	prg, err := goja.CompileModule(resolvedPath, string(src))
	if err != nil {
		return nil, errLoadFailed(resolvedPath, err)
	}

	mod, err := goja.ModuleFromAST(prg, func(referencingScriptOrModule interface{}, specifier string) (goja.ModuleRecord, error) {
		return resolve(referencingScriptOrModule, specifier)
	})
	if err != nil {
		return nil, errLoadFailed(resolvedPath, err)
	}

	_ = l.Cache.Put(resolvedPath, mod)
	return mod, nil
}

// Evaluate links and evaluates mod on rt, returning its namespace object so
// CommonJS callers observe a plain value, per spec.md §4.8 step 5.
func Evaluate(rt *goja.Runtime, mod goja.ModuleRecord, resolve ResolveForModule) (goja.Value, error) {
	if err := mod.Link(); err != nil {
		return nil, errLoadFailed("<module>", err)
	}
	cyclic, ok := mod.(goja.CyclicModuleRecord)
	if !ok {
		return goja.Undefined(), nil
	}
	promise := rt.CyclicModuleRecordEvaluate(cyclic, func(referencingScriptOrModule interface{}, specifier string) (goja.ModuleRecord, error) {
		return resolve(referencingScriptOrModule, specifier)
	})
	switch promise.State() {
	case goja.PromiseStateRejected:
		if errVal, ok := promise.Result().Export().(error); ok {
			return nil, errLoadFailed("<module>", errVal)
		}
		return nil, errLoadFailed("<module>", nil)
	case goja.PromiseStateFulfilled:
		return rt.NamespaceObjectFor(mod), nil
	default:
		return nil, errLoadFailed("<module>", nil)
	}
}

// ImportMetaURL canonicalizes a resolved filesystem path into the file://
// form used for import.meta.url, per spec.md §4.7 step 3.
func ImportMetaURL(resolvedPath string) string {
	p := pathutil.Normalize(resolvedPath)
	if strings.Contains(p, ":") && !strings.HasPrefix(p, "/") {
		// Windows drive path, e.g. "C:/rest".
		p = strings.ReplaceAll(p, "\\", "/")
		return "file:///" + p
	}
	return "file://" + p
}
