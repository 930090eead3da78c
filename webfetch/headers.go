package webfetch

import (
	"strings"

	"github.com/dop251/goja"
)

// headersMap is a case-insensitive, multi-value header bag backing the JS
// Headers object, mirroring net/http.Header's fold-on-canonical-key
// behavior without depending on net/http for it (fetch/request.go already
// does its own case folding for the same reason: the wire serializer must
// not silently title-case a caller's custom headers).
type headersMap map[string][]string

func normalizeHeaderName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func newHeadersMap() headersMap {
	return headersMap{}
}

func (h headersMap) set(name, value string) {
	h[normalizeHeaderName(name)] = []string{value}
}

func (h headersMap) add(name, value string) {
	key := normalizeHeaderName(name)
	h[key] = append(h[key], value)
}

func (h headersMap) get(name string) (string, bool) {
	vs, ok := h[normalizeHeaderName(name)]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.Join(vs, ", "), true
}

func (h headersMap) has(name string) bool {
	_, ok := h[normalizeHeaderName(name)]
	return ok
}

func (h headersMap) del(name string) {
	delete(h, normalizeHeaderName(name))
}

// headersConstructor builds the JS `Headers` constructor: `new
// Headers(init)` where init is a plain object, an array of [name, value]
// pairs, or another Headers instance.
func headersConstructor(rt *goja.Runtime) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		h := newHeadersMap()
		if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) {
			populateHeadersFromJS(rt, h, call.Arguments[0])
		}
		return wrapHeadersObject(rt, h, call)
	}
}

func populateHeadersFromJS(rt *goja.Runtime, h headersMap, v goja.Value) {
	obj := v.ToObject(rt)
	if obj == nil {
		return
	}
	if arr, ok := obj.Export().([]interface{}); ok {
		for _, entry := range arr {
			pair, ok := entry.([]interface{})
			if !ok || len(pair) != 2 {
				continue
			}
			h.add(toString(pair[0]), toString(pair[1]))
		}
		return
	}
	for _, key := range obj.Keys() {
		h.set(key, obj.Get(key).String())
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func wrapHeadersObject(rt *goja.Runtime, h headersMap, call goja.ConstructorCall) *goja.Object {
	obj := rt.NewObject()
	if call.This != nil {
		obj = call.This
	}
	_ = obj.Set("get", rt.ToValue(func(c goja.FunctionCall) goja.Value {
		v, ok := h.get(c.Argument(0).String())
		if !ok {
			return goja.Null()
		}
		return rt.ToValue(v)
	}))
	_ = obj.Set("set", rt.ToValue(func(c goja.FunctionCall) goja.Value {
		h.set(c.Argument(0).String(), c.Argument(1).String())
		return goja.Undefined()
	}))
	_ = obj.Set("append", rt.ToValue(func(c goja.FunctionCall) goja.Value {
		h.add(c.Argument(0).String(), c.Argument(1).String())
		return goja.Undefined()
	}))
	_ = obj.Set("has", rt.ToValue(func(c goja.FunctionCall) goja.Value {
		return rt.ToValue(h.has(c.Argument(0).String()))
	}))
	_ = obj.Set("delete", rt.ToValue(func(c goja.FunctionCall) goja.Value {
		h.del(c.Argument(0).String())
		return goja.Undefined()
	}))
	_ = obj.Set("forEach", rt.ToValue(func(c goja.FunctionCall) goja.Value {
		fn, ok := goja.AssertFunction(c.Argument(0))
		if !ok {
			return goja.Undefined()
		}
		for name, values := range h {
			for _, v := range values {
				if _, err := fn(goja.Undefined(), rt.ToValue(v), rt.ToValue(name)); err != nil {
					panic(err)
				}
			}
		}
		return goja.Undefined()
	}))
	_ = obj.Set("__headersMap", h)
	return obj
}

func headersMapFromJS(rt *goja.Runtime, v goja.Value) headersMap {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return newHeadersMap()
	}
	obj := v.ToObject(rt)
	if raw, ok := obj.Get("__headersMap").Export().(headersMap); ok {
		return raw
	}
	h := newHeadersMap()
	populateHeadersFromJS(rt, h, v)
	return h
}

func headersMapToPlain(h headersMap) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}
