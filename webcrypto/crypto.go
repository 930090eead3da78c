// Package webcrypto binds cryptoengine to goja as the global `crypto`
// object described in spec.md §6: getRandomValues, randomUUID, and
// crypto.subtle's digest/encrypt/decrypt/sign/verify/generateKey/
// importKey/exportKey/deriveKey/deriveBits.
package webcrypto

import (
	"crypto/rsa"
	"encoding/base64"
	"strconv"

	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/cryptoengine"
	"github.com/speedboat/jsrt/internal/jserr"
)

// Crypto holds the operation table this binding is built over, and the
// registry of imported keys (JS sees opaque handles, per CryptoKey
// semantics - this engine represents a CryptoKey as a goja object wrapping
// an index into this registry).
type Crypto struct {
	table cryptoengine.OperationTable
	keys  []cryptoKeyMaterial
}

type cryptoKeyMaterial struct {
	kind      string // "aes", "hmac", "rsa-private", "rsa-public"
	raw       []byte
	algorithm cryptoengine.Algorithm
	rsaPriv   *rsa.PrivateKey
	rsaPub    *rsa.PublicKey
}

// New builds a Crypto bound to table (the Static or Dynamic OperationTable
// chosen at process startup, per spec.md §4.9).
func New(table cryptoengine.OperationTable) *Crypto {
	return &Crypto{table: table}
}

// Install defines the `crypto` global on rt.
func (c *Crypto) Install(rt *goja.Runtime) error {
	obj := rt.NewObject()
	_ = obj.Set("getRandomValues", rt.ToValue(c.getRandomValues(rt)))
	_ = obj.Set("randomUUID", rt.ToValue(c.randomUUID(rt)))
	_ = obj.Set("subtle", c.newSubtle(rt))
	return rt.GlobalObject().Set("crypto", obj)
}

// Factory returns a builtin.ModuleFactory-compatible initializer, for
// binding "jsrt:crypto" as a require()-able module in addition to the
// global, per SPEC_FULL.md §15.
func (c *Crypto) Factory(rt *goja.Runtime) (goja.Value, error) {
	obj := rt.NewObject()
	_ = obj.Set("getRandomValues", rt.ToValue(c.getRandomValues(rt)))
	_ = obj.Set("randomUUID", rt.ToValue(c.randomUUID(rt)))
	_ = obj.Set("subtle", c.newSubtle(rt))
	return obj, nil
}

func (c *Crypto) getRandomValues(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		arg := call.Argument(0)
		obj := arg.ToObject(rt)
		length := obj.Get("length").ToInteger()
		buf := make([]byte, length)
		if err := c.table.Random(buf); err != nil {
			panic(rt.ToValue(err.Error()))
		}
		for i, b := range buf {
			_ = obj.Set(itoa(i), b)
		}
		return arg
	}
}

func (c *Crypto) randomUUID(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		buf := make([]byte, 16)
		if err := c.table.Random(buf); err != nil {
			panic(rt.ToValue(err.Error()))
		}
		buf[6] = (buf[6] & 0x0f) | 0x40
		buf[8] = (buf[8] & 0x3f) | 0x80
		return rt.ToValue(formatUUID(buf))
	}
}

func formatUUID(b []byte) string {
	const hextable = "0123456789abcdef"
	out := make([]byte, 36)
	pos := 0
	dash := map[int]bool{8: true, 13: true, 18: true, 23: true}
	bi := 0
	for i := 0; i < 36; i++ {
		if dash[i] {
			out[i] = '-'
			continue
		}
		b0 := b[bi/2]
		if bi%2 == 0 {
			out[i] = hextable[b0>>4]
		} else {
			out[i] = hextable[b0&0x0f]
			bi++
			continue
		}
		bi++
		pos++
	}
	return string(out)
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// base64URLEncode is used by exportKey for raw AES/HMAC material, matching
// the JWK "k" member's base64url encoding convention.
func base64URLEncode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

var errUnsupportedAlgorithm = jserr.New(jserr.CodeNotSupported, "unsupported algorithm")
