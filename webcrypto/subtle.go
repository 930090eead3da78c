package webcrypto

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/cryptoengine"
)

// newSubtle builds the `crypto.subtle` object. Every CryptoKey handed back
// to JS is a goja object carrying a private "__keyIndex" property pointing
// into c.keys - opaque to JS code the way the Web Crypto API's CryptoKey is
// meant to be, without needing to expose Go pointers through goja.
func (c *Crypto) newSubtle(rt *goja.Runtime) *goja.Object {
	subtle := rt.NewObject()
	_ = subtle.Set("digest", rt.ToValue(c.subtleDigest(rt)))
	_ = subtle.Set("encrypt", rt.ToValue(c.subtleEncrypt(rt)))
	_ = subtle.Set("decrypt", rt.ToValue(c.subtleDecrypt(rt)))
	_ = subtle.Set("sign", rt.ToValue(c.subtleSign(rt)))
	_ = subtle.Set("verify", rt.ToValue(c.subtleVerify(rt)))
	_ = subtle.Set("generateKey", rt.ToValue(c.subtleGenerateKey(rt)))
	_ = subtle.Set("importKey", rt.ToValue(c.subtleImportKey(rt)))
	_ = subtle.Set("exportKey", rt.ToValue(c.subtleExportKey(rt)))
	_ = subtle.Set("deriveBits", rt.ToValue(c.subtleDeriveBits(rt)))
	_ = subtle.Set("deriveKey", rt.ToValue(c.subtleDeriveKey(rt)))
	return subtle
}

func bytesFromJS(rt *goja.Runtime, v goja.Value) []byte {
	if s, ok := v.Export().(string); ok {
		return []byte(s)
	}
	obj := v.ToObject(rt)
	if ab, ok := obj.Export().([]byte); ok {
		return ab
	}
	length := obj.Get("length")
	if length == nil || goja.IsUndefined(length) {
		return []byte(v.String())
	}
	n := int(length.ToInteger())
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(obj.Get(itoa(i)).ToInteger())
	}
	return out
}

func (c *Crypto) newCryptoKey(rt *goja.Runtime, material cryptoKeyMaterial, algName string, extractable bool, usages []string) *goja.Object {
	idx := len(c.keys)
	c.keys = append(c.keys, material)
	obj := rt.NewObject()
	_ = obj.Set("__keyIndex", idx)
	_ = obj.Set("type", keyTypeFor(material.kind))
	_ = obj.Set("extractable", extractable)
	_ = obj.Set("algorithm", rt.ToValue(map[string]interface{}{"name": algName}))
	usageVals := make([]interface{}, len(usages))
	for i, u := range usages {
		usageVals[i] = u
	}
	_ = obj.Set("usages", rt.ToValue(usageVals))
	return obj
}

func keyTypeFor(kind string) string {
	switch kind {
	case "rsa-private":
		return "private"
	case "rsa-public":
		return "public"
	default:
		return "secret"
	}
}

func (c *Crypto) keyFromJS(rt *goja.Runtime, v goja.Value) (*cryptoKeyMaterial, error) {
	obj := v.ToObject(rt)
	idxVal := obj.Get("__keyIndex")
	if idxVal == nil {
		return nil, errUnsupportedAlgorithm
	}
	idx := int(idxVal.ToInteger())
	if idx < 0 || idx >= len(c.keys) {
		return nil, errUnsupportedAlgorithm
	}
	return &c.keys[idx], nil
}

func algNameFromParam(rt *goja.Runtime, v goja.Value) string {
	if s, ok := v.Export().(string); ok {
		return s
	}
	obj := v.ToObject(rt)
	return obj.Get("name").String()
}

func digestAlgFromName(name string) cryptoengine.Algorithm {
	switch name {
	case "SHA-1":
		return cryptoengine.SHA1
	case "SHA-384":
		return cryptoengine.SHA384
	case "SHA-512":
		return cryptoengine.SHA512
	default:
		return cryptoengine.SHA256
	}
}
