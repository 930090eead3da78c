package webfetch

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/fetch"
	"github.com/speedboat/jsrt/internal/jserr"
)

// requestConstructor builds the JS `Request` constructor: `new
// Request(url, init?)`. It is a plain data holder - the actual fetch is
// driven by jsFetch, which accepts either a URL string or a Request
// object as its first argument (requestFromArgs below).
func requestConstructor(rt *goja.Runtime) func(goja.ConstructorCall) *goja.Object {
	return func(call goja.ConstructorCall) *goja.Object {
		urlStr := call.Argument(0).String()
		method, headers, body := parseInit(rt, call.Argument(1))
		obj := call.This
		if obj == nil {
			obj = rt.NewObject()
		}
		_ = obj.Set("url", urlStr)
		_ = obj.Set("method", method)
		_ = obj.Set("headers", wrapHeadersObject(rt, headers, goja.ConstructorCall{}))
		_ = obj.Set("__body", body)
		return obj
	}
}

func parseInit(rt *goja.Runtime, init goja.Value) (method string, headers headersMap, body []byte) {
	method = "GET"
	headers = newHeadersMap()
	if init == nil || goja.IsUndefined(init) || goja.IsNull(init) {
		return
	}
	obj := init.ToObject(rt)
	if m := obj.Get("method"); m != nil && !goja.IsUndefined(m) {
		method = m.String()
	}
	if h := obj.Get("headers"); h != nil && !goja.IsUndefined(h) {
		headers = headersMapFromJS(rt, h)
	}
	if b := obj.Get("body"); b != nil && !goja.IsUndefined(b) && !goja.IsNull(b) {
		body = bodyFromJS(rt, b)
	}
	return
}

func bodyFromJS(rt *goja.Runtime, v goja.Value) []byte {
	if s, ok := v.Export().(string); ok {
		return []byte(s)
	}
	obj := v.ToObject(rt)
	if ab, ok := obj.Export().([]byte); ok {
		return ab
	}
	return []byte(v.String())
}

// requestFromArgs builds a fetch.Request from fetch()'s arguments, which
// per spec.md §6 may be a URL string with an options object, or a Request
// object constructed earlier.
func requestFromArgs(rt *goja.Runtime, call goja.FunctionCall) (*fetch.Request, error) {
	first := call.Argument(0)
	var urlStr, method string
	var headers headersMap
	var body []byte

	if obj := first.ToObject(rt); obj != nil && obj.Get("__body") != nil {
		urlStr = obj.Get("url").String()
		method = obj.Get("method").String()
		headers = headersMapFromJS(rt, obj.Get("headers"))
		if bv := obj.Get("__body"); bv != nil {
			if b, ok := bv.Export().([]byte); ok {
				body = b
			}
		}
	} else {
		urlStr = first.String()
	}

	initMethod, initHeaders, initBody := parseInit(rt, call.Argument(1))
	if initMethod != "GET" {
		method = initMethod
	}
	if method == "" {
		method = "GET"
	}
	for k, v := range initHeaders {
		headers[k] = v
	}
	if headers == nil {
		headers = newHeadersMap()
	}
	if len(initBody) > 0 {
		body = initBody
	}

	req, err := fetch.NewRequest(urlStr, method, headersMapToPlain(headers), body)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "invalid fetch request", err)
	}
	return req, nil
}
