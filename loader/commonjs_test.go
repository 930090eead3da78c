package loader

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedboat/jsrt/modulecache"
	"github.com/speedboat/jsrt/protocol"
)

func newTestRegistry(fs afero.Fs) *protocol.Registry {
	return protocol.NewDefaultRegistry(fs, protocol.HTTPSecurityPolicy{})
}

func TestCommonJSLoadBasicExports(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.js", []byte("module.exports = { greet: function() { return 'hi'; } };"), 0o644))

	rt := goja.New()
	cjs := NewCommonJS(newTestRegistry(fs), modulecache.New(0), func(rt *goja.Runtime, spec, referrer string) (goja.Value, error) {
		t.Fatalf("unexpected require of %s from %s", spec, referrer)
		return nil, nil
	}, Options{})

	exports, err := cjs.Load(rt, "/a.js")
	require.NoError(t, err)
	obj := exports.ToObject(rt)
	greet, ok := goja.AssertFunction(obj.Get("greet"))
	require.True(t, ok)
	v, err := greet(goja.Undefined())
	require.NoError(t, err)
	assert.Equal(t, "hi", v.String())
}

func TestCommonJSLoadCachesResult(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.js", []byte("module.exports = {};"), 0o644))

	rt := goja.New()
	cache := modulecache.New(0)
	cjs := NewCommonJS(newTestRegistry(fs), cache, nil, Options{})

	first, err := cjs.Load(rt, "/a.js")
	require.NoError(t, err)
	second, err := cjs.Load(rt, "/a.js")
	require.NoError(t, err)
	assert.Same(t, first.Export(), second.Export())
}

func TestCommonJSCycleReturnsPartialExports(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/a.js", []byte("exports.fromA = require('/b.js');"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/b.js", []byte("exports.fromB = require('/a.js');"), 0o644))

	rt := goja.New()
	var cjs *CommonJS
	cjs = NewCommonJS(newTestRegistry(fs), modulecache.New(0), func(rt *goja.Runtime, spec, referrer string) (goja.Value, error) {
		return cjs.Load(rt, spec)
	}, Options{})

	exports, err := cjs.Load(rt, "/a.js")
	require.NoError(t, err)
	obj := exports.ToObject(rt)
	assert.NotNil(t, obj.Get("fromA"))
}
