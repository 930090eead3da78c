package loader

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/speedboat/jsrt/modulecache"
)

type fakeNodeCompat struct {
	table map[string]Initializer
}

func (f *fakeNodeCompat) Lookup(name string) (Initializer, bool) {
	init, ok := f.table[name]
	return init, ok
}

func TestBuiltinLoadJsrtScheme(t *testing.T) {
	t.Parallel()
	table := map[string]Initializer{
		"crypto": func(rt *goja.Runtime) (goja.Value, error) {
			return rt.ToValue("crypto-module"), nil
		},
	}
	l := NewBuiltin(table, nil, modulecache.New(0))
	rt := goja.New()

	v, err := l.Load(rt, "jsrt:crypto")
	require.NoError(t, err)
	assert.Equal(t, "crypto-module", v.String())
}

func TestBuiltinLoadNodeSchemeViaCompatRegistry(t *testing.T) {
	t.Parallel()
	compat := &fakeNodeCompat{table: map[string]Initializer{
		"path": func(rt *goja.Runtime) (goja.Value, error) { return rt.ToValue("node-path"), nil },
	}}
	l := NewBuiltin(nil, compat, modulecache.New(0))
	rt := goja.New()

	v, err := l.Load(rt, "node:path")
	require.NoError(t, err)
	assert.Equal(t, "node-path", v.String())
}

func TestBuiltinLoadUnknownNodeModuleFails(t *testing.T) {
	t.Parallel()
	compat := &fakeNodeCompat{table: map[string]Initializer{}}
	l := NewBuiltin(nil, compat, modulecache.New(0))
	rt := goja.New()

	_, err := l.Load(rt, "node:does-not-exist")
	assert.Error(t, err)
}
