package builtin

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableOmitsNilFactories(t *testing.T) {
	t.Parallel()
	table := Table(nil, nil)
	assert.Empty(t, table)
}

func TestTableWiresFactories(t *testing.T) {
	t.Parallel()
	table := Table(
		func(rt *goja.Runtime) (goja.Value, error) { return rt.ToValue("crypto"), nil },
		func(rt *goja.Runtime) (goja.Value, error) { return rt.ToValue("fetch"), nil },
	)
	rt := goja.New()
	v, err := table["crypto"](rt)
	require.NoError(t, err)
	assert.Equal(t, "crypto", v.String())
	v, err = table["fetch"](rt)
	require.NoError(t, err)
	assert.Equal(t, "fetch", v.String())
}
