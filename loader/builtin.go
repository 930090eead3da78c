package loader

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/modulecache"
)

// Initializer builds the module value for one builtin, freshly bound to rt.
type Initializer func(rt *goja.Runtime) (goja.Value, error)

// NodeCompatRegistry is consulted for "node:*" specifiers, per spec.md
// §4.7's builtin loader. It is implemented by package nodecompat; defined
// here as an interface to avoid an import cycle.
type NodeCompatRegistry interface {
	Lookup(name string) (Initializer, bool)
}

// Builtin implements spec.md §4.7's builtin loader: a fixed internal table
// for "jsrt:" specifiers, and a pluggable compatibility registry for
// "node:" specifiers.
type Builtin struct {
	Table      map[string]Initializer
	NodeCompat NodeCompatRegistry
	Cache      *modulecache.Cache
}

func NewBuiltin(table map[string]Initializer, nodeCompat NodeCompatRegistry, cache *modulecache.Cache) *Builtin {
	return &Builtin{Table: table, NodeCompat: nodeCompat, Cache: cache}
}

// Load dispatches specifier (e.g. "jsrt:crypto", "node:path") and caches
// under the original specifier string, per spec.md §4.7.
func (l *Builtin) Load(rt *goja.Runtime, specifier string) (goja.Value, error) {
	if cached, ok := l.Cache.Get(specifier); ok {
		if v, ok := cached.(goja.Value); ok {
			return v, nil
		}
	}

	scheme, name, ok := splitBuiltinSpecifier(specifier)
	if !ok {
		return nil, errModuleNotFound(specifier)
	}

	var init Initializer
	switch scheme {
	case "jsrt":
		init, ok = l.Table[name]
		if !ok {
			return nil, errModuleNotFound(specifier)
		}
	case "node":
		if l.NodeCompat == nil {
			return nil, errModuleNotFound(specifier)
		}
		init, ok = l.NodeCompat.Lookup(name)
		if !ok {
			return nil, errModuleNotFound(specifier)
		}
	default:
		return nil, errModuleNotFound(specifier)
	}

	value, err := init(rt)
	if err != nil {
		return nil, errLoadFailed(specifier, err)
	}
	_ = l.Cache.Put(specifier, value)
	return value, nil
}

func splitBuiltinSpecifier(specifier string) (scheme, name string, ok bool) {
	idx := strings.Index(specifier, ":")
	if idx <= 0 {
		return "", "", false
	}
	return specifier[:idx], specifier[idx+1:], true
}
