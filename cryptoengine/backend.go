// Package cryptoengine implements spec.md §4.9-§4.11: a selectable
// operation-table backend (static vs dynamically loaded) over symmetric
// ciphers, digests, HMAC, RSA, and KDFs.
package cryptoengine

import (
	"crypto/rand"
	"fmt"
	"plugin"

	"github.com/speedboat/jsrt/internal/jserr"
)

// OperationTable is the selectable crypto provider backend from spec.md §4.9.
// It carries only Random and Name: digest, cipher, HMAC, RSA, EC and KDF
// operations are package-level functions that call Go's crypto packages
// directly, whichever table is installed. table.Random is the random source
// for AES and HMAC key generation (GenerateKey, HMACGenerateKey) and for the
// JS-facing random bytes and UUIDs; RSA and EC key generation do not use it.
// A dynamic table whose plugin does not export Random returns a
// jserr.CodeNotSupported error from Random; a nil table is not guarded
// against.
type OperationTable interface {
	Random(buf []byte) error
	Name() string
}

// staticTable is the default backend: every primitive resolves to Go's
// standard crypto/* packages, statically linked into this binary. This is
// spec.md §4.9's "Static" selection.
type staticTable struct{}

func (staticTable) Name() string { return "static" }

func (staticTable) Random(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

// NewStatic returns the static operation table.
func NewStatic() OperationTable { return staticTable{} }

// pluginTable is spec.md §4.9's "Dynamic" selection: the crypto provider is
// a separately-built Go plugin (the idiomatic Go analogue of dlopen'ing a
// shared library and resolving symbols by name), located by trying a list
// of candidate paths and opened with the standard plugin package.
type pluginTable struct {
	path string
	p    *plugin.Plugin
	rnd  func([]byte) error
}

func (t *pluginTable) Name() string { return "dynamic:" + t.path }

func (t *pluginTable) Random(buf []byte) error {
	if t.rnd == nil {
		return jserr.New(jserr.CodeNotSupported, "dynamic crypto provider does not export Random")
	}
	return t.rnd(buf)
}

// candidatePluginPaths mirrors spec.md §4.9's "platform-specific list of
// library names and canonical paths", adapted to Go's plugin ABI (.so
// built with -buildmode=plugin; plugin is linux/darwin only).
var candidatePluginPaths = []string{
	"/usr/lib/jsrt/cryptoprovider.so",
	"/usr/local/lib/jsrt/cryptoprovider.so",
	"./cryptoprovider.so",
}

// LoadDynamic implements spec.md §4.9's dynamic table selection: try each
// candidate path, and on the first that opens successfully, resolve the
// "Random" symbol. A table obtained this way that is missing the symbol
// still installs - its Random method returns a jserr.CodeNotSupported
// error at call time rather than failing the whole table at load time.
func LoadDynamic(extraPaths ...string) (OperationTable, error) {
	paths := append(append([]string{}, extraPaths...), candidatePluginPaths...)
	var lastErr error
	for _, path := range paths {
		p, err := plugin.Open(path)
		if err != nil {
			lastErr = err
			continue
		}
		t := &pluginTable{path: path, p: p}
		if sym, err := p.Lookup("Random"); err == nil {
			if fn, ok := sym.(func([]byte) error); ok {
				t.rnd = fn
			}
		}
		return t, nil
	}
	return nil, fmt.Errorf("cryptoengine: no dynamic provider found: %w", lastErr)
}
