package webfetch

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/fetch"
)

// responseConstructor builds the JS `Response` constructor: `new
// Response(body, init?)`, mostly useful for mocking fetch in tests.
func responseConstructor(rt *goja.Runtime) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		body := bodyFromJS(rt, call.Argument(0))
		status := 200
		headers := newHeadersMap()
		if init := call.Argument(1); init != nil && !goja.IsUndefined(init) {
			obj := init.ToObject(rt)
			if s := obj.Get("status"); s != nil && !goja.IsUndefined(s) {
				status = int(s.ToInteger())
			}
			if h := obj.Get("headers"); h != nil && !goja.IsUndefined(h) {
				headers = headersMapFromJS(rt, h)
			}
		}
		resp := &fetch.Response{Status: status, StatusText: "", HTTPVersion: "HTTP/1.1", Headers: headersMapToPlain(headers), Body: body}
		return newResponseObject(rt, resp)
	}
}

// newResponseObject wraps a fetch.Response as the JS-visible Response:
// status/statusText/ok/headers plus promise-returning text()/json(), per
// spec.md §4.12's closing sentence.
func newResponseObject(rt *goja.Runtime, resp *fetch.Response) *goja.Object {
	obj := rt.NewObject()
	_ = obj.Set("status", resp.Status)
	_ = obj.Set("statusText", resp.StatusText)
	_ = obj.Set("ok", resp.Status >= 200 && resp.Status < 300)
	_ = obj.Set("httpVersion", resp.HTTPVersion)

	h := newHeadersMap()
	for k, vs := range resp.Headers {
		for _, v := range vs {
			h.add(k, v)
		}
	}
	_ = obj.Set("headers", wrapHeadersObject(rt, h, goja.ConstructorCall{}))

	body := append([]byte(nil), resp.Body...)

	_ = obj.Set("text", rt.ToValue(func(goja.FunctionCall) goja.Value {
		promise, resolve, _ := rt.NewPromise()
		resolve(rt.ToValue(string(body)))
		return rt.ToValue(promise)
	}))
	_ = obj.Set("json", rt.ToValue(func(goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		jsonGlobal := rt.GlobalObject().Get("JSON").ToObject(rt)
		parse, ok := goja.AssertFunction(jsonGlobal.Get("parse"))
		if !ok {
			reject(errJSONUnavailable)
			return rt.ToValue(promise)
		}
		v, err := parse(goja.Undefined(), rt.ToValue(string(body)))
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}
		resolve(v)
		return rt.ToValue(promise)
	}))

	return obj
}

var errJSONUnavailable = &responseError{"JSON.parse is unavailable on this runtime"}

type responseError struct{ msg string }

func (e *responseError) Error() string { return e.msg }
