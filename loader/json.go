package loader

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/modulecache"
	"github.com/speedboat/jsrt/protocol"
)

// JSON implements spec.md §4.7's JSON loader: read bytes, parse with the
// engine's own JSON parser (so the result is a native goja value graph,
// not a Go map needing re-conversion), and cache it.
type JSON struct {
	Registry *protocol.Registry
	Cache    *modulecache.Cache
}

func NewJSON(registry *protocol.Registry, cache *modulecache.Cache) *JSON {
	return &JSON{Registry: registry, Cache: cache}
}

func (l *JSON) Load(rt *goja.Runtime, resolvedPath string) (goja.Value, error) {
	if cached, ok := l.Cache.Get(resolvedPath); ok {
		if v, ok := cached.(goja.Value); ok {
			return v, nil
		}
	}

	data, err := l.Registry.Dispatch(resolvedPath)
	if err != nil {
		return nil, errLoadFailed(resolvedPath, err)
	}

	global := rt.GlobalObject()
	jsonNS := global.Get("JSON").ToObject(rt)
	parse, ok := goja.AssertFunction(jsonNS.Get("parse"))
	if !ok {
		return nil, errLoadFailed(resolvedPath, nil)
	}
	value, err := parse(jsonNS, rt.ToValue(string(data)))
	if err != nil {
		return nil, errLoadFailed(resolvedPath, err)
	}

	_ = l.Cache.Put(resolvedPath, value)
	return value, nil
}
