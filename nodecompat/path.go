package nodecompat

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/loader"
	"github.com/speedboat/jsrt/pathutil"
)

// PathModule builds the "node:path" initializer: a thin wrapper exposing
// pathutil's join/dirname/normalize/isAbsolute under Node's legacy names,
// enough for CommonJS packages that feature-test via require('node:path').
func PathModule() loader.Initializer {
	return func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		_ = obj.Set("join", rt.ToValue(func(call goja.FunctionCall) goja.Value {
			result := ""
			for _, arg := range call.Arguments {
				result = pathutil.Join(result, arg.String())
			}
			return rt.ToValue(result)
		}))
		_ = obj.Set("normalize", rt.ToValue(func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(pathutil.Normalize(call.Argument(0).String()))
		}))
		_ = obj.Set("dirname", rt.ToValue(func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(pathutil.Dirname(call.Argument(0).String()))
		}))
		_ = obj.Set("isAbsolute", rt.ToValue(func(call goja.FunctionCall) goja.Value {
			return rt.ToValue(pathutil.IsAbsolute(call.Argument(0).String()))
		}))
		_ = obj.Set("sep", rt.ToValue("/"))
		return obj, nil
	}
}
