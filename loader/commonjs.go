// Package loader implements the per-format loaders of spec.md §4.7: builtin,
// JSON, CommonJS, and ESM, sharing the common cache/cycle/error contract
// described at the top of that section.
package loader

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/internal/jserr"
	"github.com/speedboat/jsrt/modulecache"
	"github.com/speedboat/jsrt/pathutil"
	"github.com/speedboat/jsrt/protocol"
)

// RequireFunc is how a CommonJS module's bound require() delegates back to
// the facade: it is invoked with the raw specifier string and this module's
// own resolved path as referrer.
type RequireFunc func(rt *goja.Runtime, specifier, referrer string) (goja.Value, error)

// CommonJS is the stateful collaborator for spec.md §4.7's CommonJS loader:
// it owns the loading stack shared by every require() call on a Runtime.
type CommonJS struct {
	Registry *protocol.Registry
	Cache    *modulecache.Cache
	Require  RequireFunc
	Options  Options

	stack *loadingStack
}

// NewCommonJS builds a CommonJS loader bound to the given registry, cache,
// and require delegate.
func NewCommonJS(registry *protocol.Registry, cache *modulecache.Cache, require RequireFunc, opts Options) *CommonJS {
	return &CommonJS{Registry: registry, Cache: cache, Require: require, Options: opts, stack: newLoadingStack()}
}

// Load implements spec.md §4.7's CommonJS loader algorithm.
func (l *CommonJS) Load(rt *goja.Runtime, resolvedPath string) (goja.Value, error) {
	if pm, ok := l.stack.inProgress(resolvedPath); ok {
		// Cycle-tolerance: hand back the current partial exports.
		if v, ok := pm.exports.(goja.Value); ok {
			return v, nil
		}
		return goja.Undefined(), nil
	}

	if cached, ok := l.Cache.Get(resolvedPath); ok {
		if v, ok := cached.(goja.Value); ok {
			return v, nil
		}
	}

	src, err := l.Registry.Dispatch(resolvedPath)
	if err != nil {
		return nil, errLoadFailed(resolvedPath, err)
	}

	const maxLoadingDepth = 512
	if len(l.stack.paths) >= maxLoadingDepth {
		return nil, jserr.New(jserr.CodeModuleLoadFailed, "module loading stack exceeds maximum depth: "+resolvedPath)
	}

	exports := rt.NewObject()
	module := rt.NewObject()
	_ = module.Set("exports", exports)

	pm := &partialModule{exports: exports}
	l.stack.push(resolvedPath, pm)
	defer l.stack.pop(resolvedPath)

	dirname := pathutil.Dirname(resolvedPath)
	var prologue string
	if needsBabelTypesShim(l.Options, resolvedPath) {
		prologue = babelTypesShimPrologue
	}

	wrapped := "(function (exports, require, module, __filename, __dirname) {" + prologue + string(src) + "\n})"
	program, err := goja.Compile(resolvedPath, wrapped, false)
	if err != nil {
		l.Cache.Delete(resolvedPath)
		return nil, errLoadFailed(resolvedPath, err)
	}

	wrapperVal, err := rt.RunProgram(program)
	if err != nil {
		l.Cache.Delete(resolvedPath)
		return nil, errLoadFailed(resolvedPath, err)
	}
	call, ok := goja.AssertFunction(wrapperVal)
	if !ok {
		l.Cache.Delete(resolvedPath)
		return nil, jserr.New(jserr.CodeModuleLoadFailed, "module body did not evaluate to a function: "+resolvedPath)
	}

	requireForModule := func(call goja.FunctionCall) goja.Value {
		spec := call.Argument(0).String()
		v, err := l.Require(rt, spec, resolvedPath)
		if err != nil {
			panic(rt.ToValue(err.Error()))
		}
		return v
	}

	if _, err := call(exports, rt.ToValue(requireForModule), module, rt.ToValue(resolvedPath), rt.ToValue(dirname)); err != nil {
		l.Cache.Delete(resolvedPath)
		return nil, errLoadFailed(resolvedPath, err)
	}

	finalExports := module.Get("exports")
	pm.exports = finalExports
	_ = l.Cache.Put(resolvedPath, finalExports)

	return finalExports, nil
}
