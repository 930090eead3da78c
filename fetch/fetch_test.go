package fetch

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoreDoPlainResponse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "ok")
		w.WriteHeader(200)
		_, _ = w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	req, err := NewRequest(srv.URL, "GET", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := <-NewCore().Do(ctx, req)
	require.NoError(t, result.Err)
	assert.Equal(t, StateSettled, result.State)
	assert.Equal(t, 200, result.Response.Status)
	assert.Equal(t, "hello world", string(result.Response.Body))
}

func TestCoreDoGzipResponse(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, _ = gz.Write([]byte("compressed body"))
		_ = gz.Close()
		w.Header().Set("Content-Encoding", "gzip")
		w.WriteHeader(200)
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	req, err := NewRequest(srv.URL, "GET", nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := <-NewCore().Do(ctx, req)
	require.NoError(t, result.Err)
	assert.Equal(t, "compressed body", string(result.Response.Body))
}

func TestCoreDoRejectsUnsupportedScheme(t *testing.T) {
	t.Parallel()
	req, err := NewRequest("ftp://example.com/file", "GET", nil, nil)
	require.NoError(t, err)

	result := <-NewCore().Do(context.Background(), req)
	require.Error(t, result.Err)
	assert.Equal(t, StateParsingURL, result.State)
}

func TestCoreDoPostWithBody(t *testing.T) {
	t.Parallel()
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		_, _ = r.Body.Read(buf)
		gotBody = buf
		w.WriteHeader(201)
	}))
	defer srv.Close()

	req, err := NewRequest(srv.URL, "POST", map[string][]string{"Content-Type": {"text/plain"}}, []byte("payload"))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result := <-NewCore().Do(ctx, req)
	require.NoError(t, result.Err)
	assert.Equal(t, 201, result.Response.Status)
	assert.Equal(t, "payload", string(gotBody))
}
