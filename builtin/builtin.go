// Package builtin is the fixed internal-initializer table consulted by
// spec.md §4.7's builtin loader for "jsrt:" specifiers - the bindings also
// installed as globals (crypto, fetch) are additionally exposed here in
// module form, for code that prefers require("jsrt:crypto") over the
// ambient global.
package builtin

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/loader"
)

// ModuleFactory builds the JS-facing value for one jsrt: builtin, freshly
// bound to rt. Each concrete binding package (webcrypto, webfetch) supplies
// one of these.
type ModuleFactory func(rt *goja.Runtime) (goja.Value, error)

// Table builds the "jsrt:" initializer map consumed by loader.Builtin.
func Table(crypto, fetch ModuleFactory) map[string]loader.Initializer {
	table := map[string]loader.Initializer{}
	if crypto != nil {
		table["crypto"] = loader.Initializer(crypto)
	}
	if fetch != nil {
		table["fetch"] = loader.Initializer(fetch)
	}
	return table
}
