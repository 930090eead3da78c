package specifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEmpty(t *testing.T) {
	t.Parallel()
	_, err := Classify("")
	require.Error(t, err)
}

func TestClassifyVariants(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		kind Kind
	}{
		{"jsrt:assert", KindBuiltin},
		{"node:path", KindBuiltin},
		{"file:///tmp/a.js", KindURL},
		{"https://example.com/a.js", KindURL},
		{"./a.js", KindRelative},
		{"../a.js", KindRelative},
		{"/abs/a.js", KindAbsolute},
		{"#internal/thing", KindPackageImport},
		{"lodash", KindBare},
		{"@scope/pkg", KindBare},
		{"@scope/pkg/sub", KindBare},
		{"lodash/sub/path", KindBare},
	}
	for _, c := range cases {
		got, err := Classify(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.kind, got.Kind, c.in)
	}
}

func TestClassifyScopedPackageSplit(t *testing.T) {
	t.Parallel()
	s, err := Classify("@scope/pkg/lib/x.js")
	require.NoError(t, err)
	assert.Equal(t, "@scope/pkg", s.Package)
	assert.Equal(t, "lib/x.js", s.Subpath)
}

func TestClassifyBareNoSubpath(t *testing.T) {
	t.Parallel()
	s, err := Classify("lodash")
	require.NoError(t, err)
	assert.Equal(t, "lodash", s.Package)
	assert.Equal(t, "", s.Subpath)
}

func TestClassifyBuiltinName(t *testing.T) {
	t.Parallel()
	s, err := Classify("node:path")
	require.NoError(t, err)
	assert.Equal(t, "node", s.Scheme)
	assert.Equal(t, "path", s.Name)
}
