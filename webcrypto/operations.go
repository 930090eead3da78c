package webcrypto

import (
	"github.com/dop251/goja"

	"github.com/speedboat/jsrt/cryptoengine"
)

func (c *Crypto) subtleDigest(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		alg := digestAlgFromName(algNameFromParam(rt, call.Argument(0)))
		data := bytesFromJS(rt, call.Argument(1))
		promise, resolve, reject := rt.NewPromise()
		sum, err := cryptoengine.Digest(alg, data)
		if err != nil {
			reject(err)
		} else {
			resolve(rt.ToValue(sum))
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleEncrypt(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		algObj := call.Argument(0).ToObject(rt)
		name := algObj.Get("name").String()
		key, err := c.keyFromJS(rt, call.Argument(1))
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}
		data := bytesFromJS(rt, call.Argument(2))

		var out []byte
		switch name {
		case "AES-CBC":
			iv := bytesFromJS(rt, algObj.Get("iv"))
			out, err = cryptoengine.EncryptCBC(key.raw, iv, data)
		case "AES-GCM":
			iv := bytesFromJS(rt, algObj.Get("iv"))
			var aad []byte
			if v := algObj.Get("additionalData"); v != nil && !goja.IsUndefined(v) {
				aad = bytesFromJS(rt, v)
			}
			out, err = cryptoengine.EncryptGCM(key.raw, iv, aad, data)
		case "AES-CTR":
			iv := bytesFromJS(rt, algObj.Get("counter"))
			out, err = cryptoengine.EncryptCTR(key.raw, iv, data)
		case "RSA-OAEP":
			alg := digestAlgFromName(algNameFromParam(rt, call.Argument(0)))
			out, err = cryptoengine.RSAOAEPEncrypt(key.rsaPub, alg, nil, data)
		default:
			err = errUnsupportedAlgorithm
		}
		if err != nil {
			reject(err)
		} else {
			resolve(rt.ToValue(out))
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleDecrypt(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		algObj := call.Argument(0).ToObject(rt)
		name := algObj.Get("name").String()
		key, err := c.keyFromJS(rt, call.Argument(1))
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}
		data := bytesFromJS(rt, call.Argument(2))

		var out []byte
		switch name {
		case "AES-CBC":
			iv := bytesFromJS(rt, algObj.Get("iv"))
			out, err = cryptoengine.DecryptCBC(key.raw, iv, data)
		case "AES-GCM":
			iv := bytesFromJS(rt, algObj.Get("iv"))
			var aad []byte
			if v := algObj.Get("additionalData"); v != nil && !goja.IsUndefined(v) {
				aad = bytesFromJS(rt, v)
			}
			out, err = cryptoengine.DecryptGCM(key.raw, iv, aad, data)
		case "AES-CTR":
			iv := bytesFromJS(rt, algObj.Get("counter"))
			out, err = cryptoengine.DecryptCTR(key.raw, iv, data)
		case "RSA-OAEP":
			alg := digestAlgFromName(algNameFromParam(rt, call.Argument(0)))
			out, err = cryptoengine.RSAOAEPDecrypt(key.rsaPriv, alg, nil, data)
		default:
			err = errUnsupportedAlgorithm
		}
		if err != nil {
			reject(err)
		} else {
			resolve(rt.ToValue(out))
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleSign(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		name := algNameFromParam(rt, call.Argument(0))
		key, err := c.keyFromJS(rt, call.Argument(1))
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}
		data := bytesFromJS(rt, call.Argument(2))

		var out []byte
		switch name {
		case "HMAC":
			out, err = cryptoengine.HMACSign(key.algorithm, key.raw, data)
		case "RSASSA-PKCS1-v1_5":
			out, err = cryptoengine.RSAPKCS1Sign(key.rsaPriv, key.algorithm, data)
		default:
			err = errUnsupportedAlgorithm
		}
		if err != nil {
			reject(err)
		} else {
			resolve(rt.ToValue(out))
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleVerify(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		name := algNameFromParam(rt, call.Argument(0))
		key, err := c.keyFromJS(rt, call.Argument(1))
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}
		signature := bytesFromJS(rt, call.Argument(2))
		data := bytesFromJS(rt, call.Argument(3))

		var ok bool
		switch name {
		case "HMAC":
			ok, err = cryptoengine.HMACVerify(key.algorithm, key.raw, data, signature)
		case "RSASSA-PKCS1-v1_5":
			ok, err = cryptoengine.RSAPKCS1Verify(key.rsaPub, key.algorithm, data, signature)
		default:
			err = errUnsupportedAlgorithm
		}
		if err != nil {
			reject(err)
		} else {
			resolve(rt.ToValue(ok))
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleGenerateKey(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		algObj := call.Argument(0).ToObject(rt)
		name := algObj.Get("name").String()
		extractable := call.Argument(1).ToBoolean()

		switch name {
		case "AES-CBC", "AES-GCM", "AES-CTR":
			length := int(algObj.Get("length").ToInteger()) / 8
			key, err := cryptoengine.GenerateKey(c.table, length)
			if err != nil {
				reject(err)
				return rt.ToValue(promise)
			}
			resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "aes", raw: key}, name, extractable, []string{"encrypt", "decrypt"}))
		case "HMAC":
			alg := digestAlgFromName(algNameFromParam(rt, algObj.Get("hash")))
			key, err := cryptoengine.HMACGenerateKey(c.table, alg)
			if err != nil {
				reject(err)
				return rt.ToValue(promise)
			}
			resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "hmac", raw: key, algorithm: alg}, name, extractable, []string{"sign", "verify"}))
		case "RSA-OAEP", "RSASSA-PKCS1-v1_5":
			modulusBits := int(algObj.Get("modulusLength").ToInteger())
			alg := digestAlgFromName(algNameFromParam(rt, algObj.Get("hash")))
			pair, err := cryptoengine.GenerateRSAKeyPair(modulusBits)
			if err != nil {
				reject(err)
				return rt.ToValue(promise)
			}
			priv, _ := cryptoengine.ImportRSAPrivateKey(pair.PrivateKeyDER)
			pub, _ := cryptoengine.ImportRSAPublicKey(pair.PublicKeyDER)
			privKey := c.newCryptoKey(rt, cryptoKeyMaterial{kind: "rsa-private", rsaPriv: priv, algorithm: alg}, name, extractable, []string{"decrypt", "sign"})
			pubKey := c.newCryptoKey(rt, cryptoKeyMaterial{kind: "rsa-public", rsaPub: pub, algorithm: alg}, name, true, []string{"encrypt", "verify"})
			pairObj := rt.NewObject()
			_ = pairObj.Set("privateKey", privKey)
			_ = pairObj.Set("publicKey", pubKey)
			resolve(pairObj)
		default:
			reject(errUnsupportedAlgorithm)
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleImportKey(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		format := call.Argument(0).String()
		keyData := bytesFromJS(rt, call.Argument(1))
		algObj := call.Argument(2).ToObject(rt)
		name := algObj.Get("name").String()
		extractable := call.Argument(3).ToBoolean()

		switch name {
		case "AES-CBC", "AES-GCM", "AES-CTR":
			resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "aes", raw: keyData}, name, extractable, []string{"encrypt", "decrypt"}))
		case "HMAC":
			alg := digestAlgFromName(algNameFromParam(rt, algObj.Get("hash")))
			resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "hmac", raw: keyData, algorithm: alg}, name, extractable, []string{"sign", "verify"}))
		case "RSA-OAEP", "RSASSA-PKCS1-v1_5":
			alg := digestAlgFromName(algNameFromParam(rt, algObj.Get("hash")))
			if format == "spki" {
				pub, err := cryptoengine.ImportRSAPublicKey(keyData)
				if err != nil {
					reject(err)
					return rt.ToValue(promise)
				}
				resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "rsa-public", rsaPub: pub, algorithm: alg}, name, extractable, []string{"encrypt", "verify"}))
			} else {
				priv, err := cryptoengine.ImportRSAPrivateKey(keyData)
				if err != nil {
					reject(err)
					return rt.ToValue(promise)
				}
				resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "rsa-private", rsaPriv: priv, algorithm: alg}, name, extractable, []string{"decrypt", "sign"}))
			}
		default:
			reject(errUnsupportedAlgorithm)
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleExportKey(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		key, err := c.keyFromJS(rt, call.Argument(1))
		if err != nil {
			reject(err)
			return rt.ToValue(promise)
		}
		switch key.kind {
		case "aes", "hmac":
			resolve(rt.ToValue(key.raw))
		default:
			reject(errUnsupportedAlgorithm)
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleDeriveBits(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		algObj := call.Argument(0).ToObject(rt)
		name := algObj.Get("name").String()
		length := int(call.Argument(2).ToInteger()) / 8

		switch name {
		case "PBKDF2":
			baseKey, err := c.keyFromJS(rt, call.Argument(1))
			if err != nil {
				reject(err)
				return rt.ToValue(promise)
			}
			alg := digestAlgFromName(algNameFromParam(rt, algObj.Get("hash")))
			salt := bytesFromJS(rt, algObj.Get("salt"))
			iterations := int(algObj.Get("iterations").ToInteger())
			out, err := cryptoengine.PBKDF2Derive(alg, baseKey.raw, salt, iterations, length)
			if err != nil {
				reject(err)
			} else {
				resolve(rt.ToValue(out))
			}
		case "HKDF":
			baseKey, err := c.keyFromJS(rt, call.Argument(1))
			if err != nil {
				reject(err)
				return rt.ToValue(promise)
			}
			alg := digestAlgFromName(algNameFromParam(rt, algObj.Get("hash")))
			var salt, info []byte
			if v := algObj.Get("salt"); v != nil && !goja.IsUndefined(v) {
				salt = bytesFromJS(rt, v)
			}
			if v := algObj.Get("info"); v != nil && !goja.IsUndefined(v) {
				info = bytesFromJS(rt, v)
			}
			out, err := cryptoengine.HKDFDerive(alg, baseKey.raw, salt, info, length)
			if err != nil {
				reject(err)
			} else {
				resolve(rt.ToValue(out))
			}
		default:
			reject(errUnsupportedAlgorithm)
		}
		return rt.ToValue(promise)
	}
}

func (c *Crypto) subtleDeriveKey(rt *goja.Runtime) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		promise, resolve, reject := rt.NewPromise()
		derivedAlgObj := call.Argument(2).ToObject(rt)
		derivedName := derivedAlgObj.Get("name").String()
		extractable := call.Argument(3).ToBoolean()

		deriveBits := c.subtleDeriveBits(rt)
		length := 256
		if v := derivedAlgObj.Get("length"); v != nil && !goja.IsUndefined(v) {
			length = int(v.ToInteger())
		}
		bitsPromiseVal := deriveBits(goja.FunctionCall{
			Arguments: []goja.Value{call.Argument(0), call.Argument(1), rt.ToValue(length)},
		})
		bitsPromise, _ := bitsPromiseVal.Export().(*goja.Promise)
		if bitsPromise == nil {
			reject(errUnsupportedAlgorithm)
			return rt.ToValue(promise)
		}
		switch bitsPromise.State() {
		case goja.PromiseStateFulfilled:
			raw, _ := bitsPromise.Result().Export().([]byte)
			resolve(c.newCryptoKey(rt, cryptoKeyMaterial{kind: "aes", raw: raw}, derivedName, extractable, []string{"encrypt", "decrypt"}))
		default:
			reject(errUnsupportedAlgorithm)
		}
		return rt.ToValue(promise)
	}
}
