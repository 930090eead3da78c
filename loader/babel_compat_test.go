package loader

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedboat/jsrt/modulecache"
)

func TestBabelShimOffByDefault(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/node_modules/@babel/types/index.js", []byte("exports.ok = typeof t === 'undefined';"), 0o644))

	rt := goja.New()
	cjs := NewCommonJS(newTestRegistry(fs), modulecache.New(0), nil, Options{})
	exports, err := cjs.Load(rt, "/node_modules/@babel/types/index.js")
	require.NoError(t, err)
	assert.True(t, exports.ToObject(rt).Get("ok").ToBoolean())
}

func TestBabelShimEnabledDefinesProxy(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/node_modules/@babel/types/index.js", []byte("exports.ok = typeof t !== 'undefined';"), 0o644))

	rt := goja.New()
	cjs := NewCommonJS(newTestRegistry(fs), modulecache.New(0), nil, Options{EnableBabelCompat: true})
	exports, err := cjs.Load(rt, "/node_modules/@babel/types/index.js")
	require.NoError(t, err)
	assert.True(t, exports.ToObject(rt).Get("ok").ToBoolean())
}
