package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/speedboat/jsrt/internal/jserr"
)

// maxResponseBytes bounds how much body a single fetch will buffer, per
// spec.md §7's ERR_HTTP_SECURITY_VIOLATION ("domain, size, or content-type").
const maxResponseBytes = 64 << 20

// Core drives the state machine in spec.md §4.12 for one fetch at a time.
// It has no goja dependency; webfetch turns its result channel into a
// resolved/rejected Promise.
type Core struct {
	Dialer    *net.Dialer
	TLSConfig *tls.Config
}

func NewCore() *Core {
	return &Core{
		Dialer: &net.Dialer{Timeout: 30 * time.Second},
	}
}

// Result is delivered on the channel returned by Do: exactly one of
// Response or Err is set, matching the Settled state's resolve/reject.
type Result struct {
	Response *Response
	Err      error
	State    State
}

// Do runs one fetch to completion on its own goroutine and returns a channel
// that receives a single Result once the state machine reaches Settled.
func (c *Core) Do(ctx context.Context, req *Request) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		resp, state, err := c.run(ctx, req)
		out <- Result{Response: resp, Err: err, State: state}
		close(out)
	}()
	return out
}

func (c *Core) run(ctx context.Context, req *Request) (*Response, State, error) {
	state := StateParsingURL
	u := req.URL
	if u == nil || u.Host == "" {
		return nil, state, jserr.New(jserr.CodeHTTPProtocol, "invalid URL")
	}

	scheme := u.Scheme
	if scheme != "http" && scheme != "https" {
		return nil, state, jserr.New(jserr.CodeHTTPSecurityViolation, fmt.Sprintf("unsupported scheme %q", scheme))
	}

	host := u.Host
	if u.Port() == "" {
		if scheme == "https" {
			host = net.JoinHostPort(u.Hostname(), "443")
		} else {
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}

	state = StateResolvingDNS
	state = StateConnecting
	conn, err := c.Dialer.DialContext(ctx, "tcp", host)
	if err != nil {
		return nil, state, jserr.Wrap(jserr.CodeHTTPNetwork, "connect failed", err)
	}
	defer conn.Close()

	var rw net.Conn = conn
	if scheme == "https" {
		state = StateHandshaking
		cfg := c.TLSConfig
		if cfg == nil {
			cfg = &tls.Config{ServerName: u.Hostname()}
		} else if cfg.ServerName == "" {
			clone := cfg.Clone()
			clone.ServerName = u.Hostname()
			cfg = clone
		}
		tlsConn := tls.Client(conn, cfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return nil, state, jserr.Wrap(jserr.CodeHTTPNetwork, "TLS handshake failed", err)
		}
		rw = tlsConn
	}

	state = StateSending
	if dl, ok := ctx.Deadline(); ok {
		_ = rw.SetDeadline(dl)
	}
	if _, err := rw.Write(req.serialize()); err != nil {
		return nil, state, jserr.Wrap(jserr.CodeHTTPNetwork, "write failed", err)
	}

	state = StateReceiving
	resp, err := c.receive(rw)
	if err != nil {
		return nil, state, err
	}

	state = StateSettled
	return resp, state, nil
}

func (c *Core) receive(conn net.Conn) (*Response, error) {
	var status int
	var statusText, httpVersion string
	var headers = map[string][]string{}
	var bodyBuf []byte
	var currentField string
	complete := false

	p := NewParser(Callbacks{
		OnStatus: func(v string, code int, text string) {
			httpVersion, status, statusText = v, code, text
		},
		OnHeaderField: func(name string) { currentField = name },
		OnHeaderValue: func(value string) {
			headers[currentField] = append(headers[currentField], value)
		},
		OnBody: func(chunk []byte) {
			bodyBuf = append(bodyBuf, chunk...)
			if len(bodyBuf) > maxResponseBytes+1 {
				bodyBuf = bodyBuf[:maxResponseBytes+1]
			}
		},
		OnMessageComplete: func() { complete = true },
	})

	buf := make([]byte, 32*1024)
	for !complete {
		n, err := conn.Read(buf)
		if n > 0 {
			if ferr := p.Feed(buf[:n]); ferr != nil {
				return nil, ferr
			}
		}
		if err != nil {
			p.Close()
			if !complete {
				return nil, jserr.Wrap(jserr.CodeHTTPNetwork, "connection closed before response complete", err)
			}
			break
		}
		if len(bodyBuf) > maxResponseBytes {
			return nil, jserr.New(jserr.CodeHTTPSecurityViolation, "response body exceeds maximum size")
		}
	}

	decoded, err := decodeBody(headers, bodyBuf)
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:      status,
		StatusText:  statusText,
		HTTPVersion: parseStatusLineVersion(httpVersion),
		Headers:     headers,
		Body:        decoded,
	}, nil
}

// NewRequest builds a Request from a raw URL string, method, headers, and
// body, validating the URL the way the Parsing URL state requires.
func NewRequest(rawURL, method string, headers map[string][]string, body []byte) (*Request, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "invalid URL", err)
	}
	if method == "" {
		method = "GET"
	}
	if headers == nil {
		headers = map[string][]string{}
	}
	return &Request{Method: method, URL: u, Headers: headers, Body: body}, nil
}
