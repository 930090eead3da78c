// Package protocol implements the protocol registry and dispatcher from
// spec.md §4.3: a process-wide table of named transports that turns a URL
// into bytes, decoupling specifier resolution from byte acquisition.
package protocol

import (
	"fmt"
	"strings"
	"sync"

	"github.com/speedboat/jsrt/internal/jserr"
)

// maxHandlers bounds the registry at a small fixed number, per spec.md §3.
const maxHandlers = 16

// Handler is a registered transport for a URL scheme.
type Handler interface {
	// Load turns a URL into bytes, or returns an error.
	Load(url string) ([]byte, error)
}

// Cleaner is implemented by handlers that need to release resources on
// Unregister.
type Cleaner interface {
	Cleanup()
}

// Registry is the mutex-guarded, process-wide handler table described in
// spec.md §4.3 and §5.
type Registry struct {
	mu       sync.Mutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry with no handlers registered;
// NewDefaultRegistry is the constructor that also registers the built-in
// file and http/https handlers.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler, maxHandlers)}
	return r
}

// Register adds a named handler. It fails if the name is already present or
// the registry is at capacity.
func (r *Registry) Register(name string, h Handler) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.ToLower(name)
	if _, exists := r.handlers[name]; exists {
		return fmt.Errorf("protocol %q already registered", name)
	}
	if len(r.handlers) >= maxHandlers {
		return fmt.Errorf("protocol registry full (max %d handlers)", maxHandlers)
	}
	r.handlers[name] = h
	return nil
}

// Get returns the handler registered for name, if any.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.handlers[strings.ToLower(name)]
	return h, ok
}

// Unregister removes a handler, invoking its Cleanup if it implements
// Cleaner.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name = strings.ToLower(name)
	if h, ok := r.handlers[name]; ok {
		if c, ok := h.(Cleaner); ok {
			c.Cleanup()
		}
		delete(r.handlers, name)
	}
}

// ExtractScheme returns the longest prefix up to the first ':' consisting
// of valid scheme characters, lower-cased. It rejects schemes of length 0
// or greater than 16, or whose next three characters aren't "://".
func ExtractScheme(url string) (string, bool) {
	idx := strings.Index(url, "://")
	if idx <= 0 || idx > 16 {
		return "", false
	}
	candidate := url[:idx]
	for _, r := range candidate {
		if !isSchemeChar(r) {
			return "", false
		}
	}
	return strings.ToLower(candidate), true
}

func isSchemeChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '+' || r == '-' || r == '.':
		return true
	default:
		return false
	}
}

// Dispatch resolves url's scheme (defaulting to "file" when absent), looks
// up the matching handler, and invokes it. A missing handler maps to
// jserr.CodeUnsupportedProtocol.
func (r *Registry) Dispatch(url string) ([]byte, error) {
	scheme, ok := ExtractScheme(url)
	if !ok {
		scheme = "file"
	}
	h, ok := r.Get(scheme)
	if !ok {
		return nil, jserr.New(jserr.CodeUnsupportedProtocol, fmt.Sprintf("no handler registered for scheme %q", scheme))
	}
	data, err := h.Load(url)
	if err != nil {
		return nil, err
	}
	return data, nil
}
