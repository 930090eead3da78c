package protocol

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractScheme(t *testing.T) {
	t.Parallel()
	scheme, ok := ExtractScheme("https://example.com/a.js")
	require.True(t, ok)
	assert.Equal(t, "https", scheme)

	_, ok = ExtractScheme("not-a-url")
	assert.False(t, ok)

	_, ok = ExtractScheme("averylongschemethatistoobig://x")
	assert.False(t, ok)
}

func TestRegistryRegisterDuplicate(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	require.NoError(t, r.Register("custom", NewFileHandler(afero.NewMemMapFs())))
	assert.Error(t, r.Register("custom", NewFileHandler(afero.NewMemMapFs())))
}

func TestFileHandlerLoad(t *testing.T) {
	t.Parallel()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/x/m.js", []byte("hello"), 0o644))

	r := NewDefaultRegistry(fs, HTTPSecurityPolicy{})
	data, err := r.Dispatch("file:///tmp/x/m.js")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	data, err = r.Dispatch("/tmp/x/m.js")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestHTTPHandlerSanitizesBOMAndControlChars(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write(append([]byte{0xEF, 0xBB, 0xBF}, []byte("module.exports = 1;\r\n")...))
	}))
	defer srv.Close()

	r := NewDefaultRegistry(afero.NewMemMapFs(), HTTPSecurityPolicy{})
	data, err := r.Dispatch(srv.URL + "/mod.js")
	require.NoError(t, err)
	assert.Equal(t, byte('m'), data[0])
	assert.NotContains(t, string(data), "\r")
}

func TestHTTPHandlerDomainAllowlist(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	r := NewDefaultRegistry(afero.NewMemMapFs(), HTTPSecurityPolicy{AllowedDomains: []string{"nope.example"}})
	_, err := r.Dispatch(srv.URL + "/mod.js")
	assert.Error(t, err)
}

func TestDispatchUnknownScheme(t *testing.T) {
	t.Parallel()
	r := NewDefaultRegistry(afero.NewMemMapFs(), HTTPSecurityPolicy{})
	_, err := r.Dispatch("ftp://example.com/a.js")
	assert.Error(t, err)
}
