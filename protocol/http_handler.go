package protocol

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/speedboat/jsrt/internal/jserr"
)

const (
	defaultUserAgent = "jsrt/1.0"
	defaultTimeout   = 30 * time.Second
	defaultMaxBytes  = 10 * 1024 * 1024
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// HTTPSecurityPolicy configures the validation applied before a module is
// fetched over the network, per spec.md §4.3.
type HTTPSecurityPolicy struct {
	// AllowedDomains, if non-empty, is the only set of hosts http(s)
	// module imports may target.
	AllowedDomains []string
	// MaxBytes caps the response body size. Zero means defaultMaxBytes.
	MaxBytes int64
	// AllowedContentTypePrefixes restricts Content-Type; empty means any.
	AllowedContentTypePrefixes []string
}

// HTTPHandler loads http(s):// module URLs with the security policy and
// sanitization pass described in spec.md §4.3.
type HTTPHandler struct {
	Client *http.Client
	Policy HTTPSecurityPolicy
}

// NewHTTPHandler returns a handler with a fixed-timeout client and policy.
func NewHTTPHandler(policy HTTPSecurityPolicy) *HTTPHandler {
	return &HTTPHandler{
		Client: &http.Client{Timeout: defaultTimeout},
		Policy: policy,
	}
}

// Load implements Handler.
func (h *HTTPHandler) Load(rawURL string) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "invalid URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, jserr.New(jserr.CodeUnsupportedProtocol, fmt.Sprintf("scheme %q not allowed", u.Scheme))
	}
	if err := h.checkDomain(u.Hostname()); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeHTTPProtocol, "building request", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeHTTPNetwork, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, jserr.New(jserr.CodeHTTPProtocol, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	if err := h.checkContentType(resp.Header.Get("Content-Type")); err != nil {
		return nil, err
	}

	maxBytes := h.Policy.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	limited := io.LimitReader(resp.Body, maxBytes+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, jserr.Wrap(jserr.CodeHTTPNetwork, "reading body", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, jserr.New(jserr.CodeHTTPSecurityViolation, "response exceeds size limit")
	}

	return sanitize(body), nil
}

func (h *HTTPHandler) checkDomain(host string) error {
	if len(h.Policy.AllowedDomains) == 0 {
		return nil
	}
	for _, allowed := range h.Policy.AllowedDomains {
		if strings.EqualFold(allowed, host) {
			return nil
		}
	}
	return jserr.New(jserr.CodeHTTPSecurityViolation, fmt.Sprintf("domain %q not in allowlist", host))
}

func (h *HTTPHandler) checkContentType(contentType string) error {
	if len(h.Policy.AllowedContentTypePrefixes) == 0 {
		return nil
	}
	for _, prefix := range h.Policy.AllowedContentTypePrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return nil
		}
	}
	return jserr.New(jserr.CodeHTTPSecurityViolation, fmt.Sprintf("content-type %q not allowed", contentType))
}

// sanitize strips a leading UTF-8 BOM, normalizes CRLF to LF, and drops
// bytes that are null or control characters other than tab, newline, or
// carriage return - per spec.md §4.3.
func sanitize(body []byte) []byte {
	body = bytes.TrimPrefix(body, utf8BOM)
	out := make([]byte, 0, len(body))
	for i := 0; i < len(body); i++ {
		b := body[i]
		if b == '\r' {
			if i+1 < len(body) && body[i+1] == '\n' {
				continue
			}
			out = append(out, '\n')
			continue
		}
		if b == 0 || (b < 0x20 && b != '\t' && b != '\n') {
			continue
		}
		out = append(out, b)
	}
	return out
}
