package nodecompat

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedboat/jsrt/cryptoengine"
)

func TestRegistryLookupKnownModules(t *testing.T) {
	t.Parallel()
	r := NewRegistry(PathModule(), CryptoModule(cryptoengine.NewStatic()))

	_, ok := r.Lookup("path")
	assert.True(t, ok)
	_, ok = r.Lookup("crypto")
	assert.True(t, ok)
	_, ok = r.Lookup("module")
	assert.True(t, ok)
	_, ok = r.Lookup("does-not-exist")
	assert.False(t, ok)
}

func TestIsBuiltinAcceptsPrefixedAndBareNames(t *testing.T) {
	t.Parallel()
	r := NewRegistry(PathModule(), nil)
	assert.True(t, r.IsBuiltin("node:path"))
	assert.True(t, r.IsBuiltin("path"))
	assert.False(t, r.IsBuiltin("node:nope"))
}

func TestModuleInitializerExposesBuiltinModules(t *testing.T) {
	t.Parallel()
	r := NewRegistry(PathModule(), nil)
	init, ok := r.Lookup("module")
	require.True(t, ok)
	rt := goja.New()
	v, err := init(rt)
	require.NoError(t, err)
	obj := v.ToObject(rt)
	var builtins []string
	require.NoError(t, rt.ExportTo(obj.Get("builtinModules"), &builtins))
	assert.ElementsMatch(t, []string{"node:path", "node:module"}, builtins)
	isBuiltin, ok := goja.AssertFunction(obj.Get("isBuiltin"))
	require.True(t, ok)
	result, err := isBuiltin(goja.Undefined(), rt.ToValue("node:path"))
	require.NoError(t, err)
	assert.True(t, result.ToBoolean())
}

func TestPathModuleJoin(t *testing.T) {
	t.Parallel()
	rt := goja.New()
	v, err := PathModule()(rt)
	require.NoError(t, err)
	obj := v.ToObject(rt)
	join, ok := goja.AssertFunction(obj.Get("join"))
	require.True(t, ok)
	result, err := join(goja.Undefined(), rt.ToValue("/a"), rt.ToValue("b"), rt.ToValue("c.js"))
	require.NoError(t, err)
	assert.Equal(t, "/a/b/c.js", result.String())
}
