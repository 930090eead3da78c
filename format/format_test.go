package format

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectByExtension(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	assert.Equal(t, CommonJS, Detect(fs, "/a/x.cjs", nil))
	assert.Equal(t, ESM, Detect(fs, "/a/x.mjs", nil))
	assert.Equal(t, JSON, Detect(fs, "/a/x.json", nil))
}

func TestDetectByManifestType(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/pkg/package.json", []byte(`{"type":"module"}`), 0o644))
	assert.Equal(t, ESM, Detect(fs, "/pkg/x.js", nil))

	fs2 := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs2, "/pkg/package.json", []byte(`{"type":"commonjs"}`), 0o644))
	assert.Equal(t, CommonJS, Detect(fs2, "/pkg/x.js", nil))
}

func TestDetectByLexicalScanESM(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	content := []byte("import { foo } from './foo.js';\nexport const bar = 1;\n")
	assert.Equal(t, ESM, Detect(fs, "/a/x.js", content))
}

func TestDetectByLexicalScanCommonJS(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	content := []byte("const foo = require('./foo');\nmodule.exports = foo;\n")
	assert.Equal(t, CommonJS, Detect(fs, "/a/x.js", content))
}

func TestDetectPrefersESMWhenBothAppear(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	content := []byte("import foo from './foo.js';\nmodule.exports = foo;\n")
	assert.Equal(t, ESM, Detect(fs, "/a/x.js", content))
}

func TestDetectDefaultsToCommonJS(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	content := []byte("const x = 1;\n")
	assert.Equal(t, CommonJS, Detect(fs, "/a/x.js", content))
}

func TestDetectIgnoresTokensInsideStringsAndComments(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	content := []byte("// import shouldn't count\nconst s = \"export nope\";\nconst t = `require(nope)`;\nconst x = 1;\n")
	assert.Equal(t, CommonJS, Detect(fs, "/a/x.js", content))
}

func TestDetectTemplateExpressionIsLiveCode(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	content := []byte("const x = `prefix ${ require('./x') } suffix`;\n")
	assert.Equal(t, CommonJS, Detect(fs, "/a/x.js", content))
}
