package fetch

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"

	"github.com/speedboat/jsrt/internal/jserr"
)

// Response is the fully-parsed, decompressed result of one fetch.
type Response struct {
	Status      int
	StatusText  string
	HTTPVersion string
	Headers     map[string][]string
	Body        []byte
}

func headerGet(headers map[string][]string, name string) (string, bool) {
	for k, v := range headers {
		if equalFoldHeader(k, name) && len(v) > 0 {
			return v[0], true
		}
	}
	return "", false
}

// decodeBody applies the inverse of the server's Content-Encoding, per
// spec.md §4.12's note that the fetch core transparently decompresses
// gzip/deflate/br before handing the body back to JS.
func decodeBody(headers map[string][]string, body []byte) ([]byte, error) {
	enc, ok := headerGet(headers, "Content-Encoding")
	if !ok || enc == "" || strings.EqualFold(enc, "identity") {
		return body, nil
	}
	switch strings.ToLower(strings.TrimSpace(enc)) {
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "invalid gzip body", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "truncated gzip body", err)
		}
		return out, nil
	case "deflate":
		r := flate.NewReader(bytes.NewReader(body))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "truncated deflate body", err)
		}
		return out, nil
	case "br":
		out, err := io.ReadAll(brotli.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "truncated brotli body", err)
		}
		return out, nil
	default:
		return body, nil
	}
}

func parseStatusLineVersion(v string) string {
	if v == "" {
		return "HTTP/1.1"
	}
	return v
}

func contentLengthOf(headers map[string][]string) (int64, bool) {
	v, ok := headerGet(headers, "Content-Length")
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
