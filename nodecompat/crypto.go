package nodecompat

import (
	"encoding/hex"

	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/cryptoengine"
	"github.com/speedboat/jsrt/loader"
)

// CryptoModule builds the "node:crypto" initializer: a thin wrapper over
// cryptoengine exposing a handful of the legacy Node callback-and-hex-string
// API (createHash/update/digest, randomBytes), enough for packages that
// feature-test via require('node:crypto') without pulling in the full
// WebCrypto surface already exposed as the global `crypto`.
func CryptoModule(table cryptoengine.OperationTable) loader.Initializer {
	return func(rt *goja.Runtime) (goja.Value, error) {
		obj := rt.NewObject()
		_ = obj.Set("randomBytes", rt.ToValue(func(call goja.FunctionCall) goja.Value {
			n := int(call.Argument(0).ToInteger())
			buf := make([]byte, n)
			if err := table.Random(buf); err != nil {
				panic(rt.ToValue(err.Error()))
			}
			return rt.ToValue(hex.EncodeToString(buf))
		}))
		_ = obj.Set("createHash", rt.ToValue(func(call goja.FunctionCall) goja.Value {
			return newHashHandle(rt, nodeAlgName(call.Argument(0).String()))
		}))
		return obj, nil
	}
}

func nodeAlgName(name string) cryptoengine.Algorithm {
	switch name {
	case "sha1":
		return cryptoengine.SHA1
	case "sha384":
		return cryptoengine.SHA384
	case "sha512":
		return cryptoengine.SHA512
	default:
		return cryptoengine.SHA256
	}
}

// newHashHandle returns a chainable {update(data), digest(encoding)} object,
// matching Node's legacy Hash API shape.
func newHashHandle(rt *goja.Runtime, alg cryptoengine.Algorithm) *goja.Object {
	var buffered []byte
	handle := rt.NewObject()
	_ = handle.Set("update", rt.ToValue(func(call goja.FunctionCall) goja.Value {
		buffered = append(buffered, []byte(call.Argument(0).String())...)
		return handle
	}))
	_ = handle.Set("digest", rt.ToValue(func(call goja.FunctionCall) goja.Value {
		sum, err := cryptoengine.Digest(alg, buffered)
		if err != nil {
			panic(rt.ToValue(err.Error()))
		}
		encoding := "hex"
		if len(call.Arguments) > 0 {
			encoding = call.Argument(0).String()
		}
		if encoding == "hex" {
			return rt.ToValue(hex.EncodeToString(sum))
		}
		return rt.ToValue(string(sum))
	}))
	return handle
}
