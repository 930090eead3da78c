package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParserContentLengthBody(t *testing.T) {
	t.Parallel()
	var status int
	var body []byte
	headers := map[string][]string{}
	var field string
	complete := false

	p := NewParser(Callbacks{
		OnStatus:          func(v string, code int, text string) { status = code },
		OnHeaderField:     func(name string) { field = name },
		OnHeaderValue:     func(value string) { headers[field] = append(headers[field], value) },
		OnBody:            func(chunk []byte) { body = append(body, chunk...) },
		OnMessageComplete: func() { complete = true },
	})

	raw := "HTTP/1.1 200 OK\r\nContent-Length: 5\r\n\r\nhello"
	require.NoError(t, p.Feed([]byte(raw)))
	assert.Equal(t, 200, status)
	assert.Equal(t, "hello", string(body))
	assert.True(t, complete)
}

func TestParserChunkedBody(t *testing.T) {
	t.Parallel()
	var body []byte
	complete := false
	p := NewParser(Callbacks{
		OnBody:            func(chunk []byte) { body = append(body, chunk...) },
		OnMessageComplete: func() { complete = true },
	})

	raw := "HTTP/1.1 200 OK\r\nTransfer-Encoding: chunked\r\n\r\n5\r\nhello\r\n6\r\n world\r\n0\r\n\r\n"
	require.NoError(t, p.Feed([]byte(raw)))
	assert.Equal(t, "hello world", string(body))
	assert.True(t, complete)
}

func TestParserFeedInSmallPieces(t *testing.T) {
	t.Parallel()
	var body []byte
	complete := false
	p := NewParser(Callbacks{
		OnBody:            func(chunk []byte) { body = append(body, chunk...) },
		OnMessageComplete: func() { complete = true },
	})

	raw := []byte("HTTP/1.1 200 OK\r\nContent-Length: 11\r\n\r\nhello world")
	for i := 0; i < len(raw); i++ {
		require.NoError(t, p.Feed(raw[i:i+1]))
	}
	assert.Equal(t, "hello world", string(body))
	assert.True(t, complete)
}

func TestParserEOFWithoutLengthResolves(t *testing.T) {
	t.Parallel()
	var body []byte
	complete := false
	p := NewParser(Callbacks{
		OnBody:            func(chunk []byte) { body = append(body, chunk...) },
		OnMessageComplete: func() { complete = true },
	})

	raw := "HTTP/1.1 200 OK\r\n\r\nno length here"
	require.NoError(t, p.Feed([]byte(raw)))
	assert.False(t, complete)
	p.Close()
	assert.True(t, complete)
	assert.Equal(t, "no length here", string(body))
}

func TestParserMalformedStatusLine(t *testing.T) {
	t.Parallel()
	p := NewParser(Callbacks{})
	err := p.Feed([]byte("not a status line\r\n"))
	require.Error(t, err)
}
