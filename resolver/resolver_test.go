package resolver

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveBuiltin(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	rp, err := Resolve(fs, nil, "jsrt:crypto", "", false, "/")
	require.NoError(t, err)
	assert.True(t, rp.IsBuiltin)
	assert.Equal(t, "jsrt:crypto", rp.Resolved)
}

func TestResolveURL(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	rp, err := Resolve(fs, nil, "https://example.com/a.js", "", false, "/")
	require.NoError(t, err)
	assert.True(t, rp.IsURL)

	_, err = Resolve(fs, nil, "ftp://example.com/a.js", "", false, "/")
	assert.Error(t, err)
}

func TestResolveRelativeExactFile(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/lib/foo.js", []byte("x"), 0o644))
	rp, err := Resolve(fs, nil, "./foo.js", "/proj/lib/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/lib/foo.js", rp.Resolved)
}

func TestResolveRelativeExtensionFallback(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/lib/foo.mjs", []byte("x"), 0o644))
	rp, err := Resolve(fs, nil, "./foo", "/proj/lib/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/lib/foo.mjs", rp.Resolved)
}

func TestResolveRelativeIndexFallback(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/lib/foo/index.js", []byte("x"), 0o644))
	rp, err := Resolve(fs, nil, "./foo", "/proj/lib/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/lib/foo/index.js", rp.Resolved)
}

func TestResolveAbsolute(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/abs/foo.js", []byte("x"), 0o644))
	rp, err := Resolve(fs, nil, "/abs/foo.js", "/anything/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/abs/foo.js", rp.Resolved)
}

func TestResolveBareMainField(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/pkg/package.json", []byte(`{"main":"lib/index.js"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/pkg/lib/index.js", []byte("x"), 0o644))

	rp, err := Resolve(fs, nil, "pkg", "/proj/src/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/node_modules/pkg/lib/index.js", rp.Resolved)
}

func TestResolveBareExportsSubpath(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/pkg/package.json",
		[]byte(`{"exports":{"./sub":{"require":"./lib/sub.js"}}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/pkg/lib/sub.js", []byte("x"), 0o644))

	rp, err := Resolve(fs, nil, "pkg/sub", "/proj/src/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/node_modules/pkg/lib/sub.js", rp.Resolved)
}

func TestResolveBareWalksAncestors(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/pkg/package.json", []byte(`{"main":"index.js"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/node_modules/pkg/index.js", []byte("x"), 0o644))

	rp, err := Resolve(fs, nil, "pkg", "/proj/src/deep/nested/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/node_modules/pkg/index.js", rp.Resolved)
}

func TestResolveBareNotFound(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	_, err := Resolve(fs, nil, "nope", "/proj/src/main.js", false, "/")
	assert.Error(t, err)
}

func TestResolvePackageImport(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/proj/package.json",
		[]byte(`{"imports":{"#util":"./lib/util.js"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/proj/lib/util.js", []byte("x"), 0o644))

	rp, err := Resolve(fs, nil, "#util", "/proj/src/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/lib/util.js", rp.Resolved)
}

func TestResolveUnresolvedProbeReturnsUnadornedPath(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	rp, err := Resolve(fs, nil, "./missing", "/proj/src/main.js", false, "/")
	require.NoError(t, err)
	assert.Equal(t, "/proj/src/missing", rp.Resolved)
}
