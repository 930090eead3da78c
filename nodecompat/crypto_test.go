package nodecompat

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedboat/jsrt/cryptoengine"
)

func TestCryptoModuleCreateHashDigest(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	v, err := CryptoModule(cryptoengine.NewStatic())(rt)
	require.NoError(t, err)
	obj := v.ToObject(rt)
	createHash, ok := goja.AssertFunction(obj.Get("createHash"))
	require.True(t, ok)

	hashVal, err := createHash(goja.Undefined(), rt.ToValue("sha256"))
	require.NoError(t, err)
	hashObj := hashVal.ToObject(rt)
	update, ok := goja.AssertFunction(hashObj.Get("update"))
	require.True(t, ok)
	_, err = update(hashObj, rt.ToValue("hello"))
	require.NoError(t, err)

	digest, ok := goja.AssertFunction(hashObj.Get("digest"))
	require.True(t, ok)
	result, err := digest(hashObj, rt.ToValue("hex"))
	require.NoError(t, err)
	assert.Len(t, result.String(), 64)
}

func TestCryptoModuleRandomBytes(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	v, err := CryptoModule(cryptoengine.NewStatic())(rt)
	require.NoError(t, err)
	obj := v.ToObject(rt)
	randomBytes, ok := goja.AssertFunction(obj.Get("randomBytes"))
	require.True(t, ok)
	result, err := randomBytes(goja.Undefined(), rt.ToValue(16))
	require.NoError(t, err)
	assert.Len(t, result.String(), 32)
}
