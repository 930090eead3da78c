// Package nodecompat implements the node-compatibility registry consulted
// by spec.md §4.7's builtin loader for "node:" specifiers, plus
// "node:module"'s static surface described in spec.md §6.
package nodecompat

import (
	"strconv"
	"strings"

	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/loader"
)

// Registry implements loader.NodeCompatRegistry against a fixed table.
type Registry struct {
	table map[string]loader.Initializer
}

// NewRegistry builds the node-compat registry. path and crypto are the thin
// wrappers over pathutil and cryptoengine/webcrypto described in SPEC_FULL.md
// §15; module is "node:module" itself, built by the moduleInitializer method
// below once the registry exists (it needs BuiltinModules()).
func NewRegistry(pathModule, cryptoModule loader.Initializer) *Registry {
	r := &Registry{table: map[string]loader.Initializer{}}
	if pathModule != nil {
		r.table["path"] = pathModule
	}
	if cryptoModule != nil {
		r.table["crypto"] = cryptoModule
	}
	r.table["module"] = r.moduleInitializer
	return r
}

// Lookup implements loader.NodeCompatRegistry.
func (r *Registry) Lookup(name string) (loader.Initializer, bool) {
	init, ok := r.table[name]
	return init, ok
}

// BuiltinModules returns the recognized "node:*" names, backing
// Module.builtinModules. The order follows map iteration and is not fixed.
func (r *Registry) BuiltinModules() []string {
	names := make([]string, 0, len(r.table))
	for name := range r.table {
		names = append(names, name)
	}
	return names
}

// IsBuiltin implements Module.isBuiltin(specifier): true for any
// "node:name" (or bare name) this registry recognizes.
func (r *Registry) IsBuiltin(specifier string) bool {
	name := strings.TrimPrefix(specifier, "node:")
	_, ok := r.table[name]
	return ok
}

// moduleInitializer builds the "node:module" module object itself. The
// object carries builtinModules, isBuiltin and wrap only; createRequire,
// _resolveFilename, _load, _cache and the instance require/_compile members
// are not provided, here or anywhere else in the module.
func (r *Registry) moduleInitializer(rt *goja.Runtime) (goja.Value, error) {
	obj := rt.NewObject()
	builtins := rt.NewArray()
	for i, name := range r.BuiltinModules() {
		_ = builtins.Set(strconv.Itoa(i), "node:"+name)
	}
	_ = obj.Set("builtinModules", builtins)
	_ = obj.Set("isBuiltin", rt.ToValue(func(call goja.FunctionCall) goja.Value {
		return rt.ToValue(r.IsBuiltin(call.Argument(0).String()))
	}))
	_ = obj.Set("wrap", rt.ToValue(func(call goja.FunctionCall) goja.Value {
		src := call.Argument(0).String()
		return rt.ToValue("(function (exports, require, module, __filename, __dirname) {" + src + "\n})")
	}))
	return obj, nil
}
