// Package specifier classifies the string argument to require()/import()
// into the tagged variants described in spec.md §3, following the ordering
// rules in §4.1.
package specifier

import (
	"strings"

	"github.com/speedboat/jsrt/internal/jserr"
)

// Kind identifies which variant of Specifier was produced by Classify.
type Kind int

const (
	// KindBuiltin is "jsrt:name" or "node:name".
	KindBuiltin Kind = iota
	// KindURL is "file://...", "http://...", "https://...".
	KindURL
	// KindRelative begins with "./" or "../".
	KindRelative
	// KindAbsolute begins with "/".
	KindAbsolute
	// KindPackageImport begins with "#".
	KindPackageImport
	// KindBare is anything else, presumed to name an npm package.
	KindBare
)

// Specifier is the classified form of an import string.
type Specifier struct {
	Kind Kind
	Raw  string

	// Builtin / URL scheme, e.g. "jsrt", "node", "file", "http", "https".
	Scheme string
	// Name is the builtin module name (KindBuiltin) or the rest of a URL
	// (KindURL, without the scheme prefix).
	Name string
	// Package and Subpath are populated for KindBare, per the scoped-package
	// rule: if the specifier starts with "@", Package spans through the
	// second "/"; otherwise through the first "/".
	Package string
	Subpath string
}

var builtinSchemes = []string{"jsrt", "node"}

// Classify implements spec.md §4.1's ordering: hash-prefix, then known
// builtin schemes, then any other URL scheme, then absolute, then relative,
// then bare.
func Classify(s string) (Specifier, error) {
	if s == "" {
		return Specifier{}, jserr.New(jserr.CodeInvalidModuleSpecifier, "empty specifier")
	}

	if strings.HasPrefix(s, "#") {
		return Specifier{Kind: KindPackageImport, Raw: s, Name: s}, nil
	}

	for _, scheme := range builtinSchemes {
		prefix := scheme + ":"
		if strings.HasPrefix(s, prefix) {
			return Specifier{Kind: KindBuiltin, Raw: s, Scheme: scheme, Name: strings.TrimPrefix(s, prefix)}, nil
		}
	}

	if scheme, rest, ok := splitScheme(s); ok {
		return Specifier{Kind: KindURL, Raw: s, Scheme: scheme, Name: rest}, nil
	}

	if strings.HasPrefix(s, "/") {
		return Specifier{Kind: KindAbsolute, Raw: s, Name: s}, nil
	}

	if strings.HasPrefix(s, "./") || strings.HasPrefix(s, "../") || s == "." || s == ".." {
		return Specifier{Kind: KindRelative, Raw: s, Name: s}, nil
	}

	pkg, subpath := splitBare(s)
	return Specifier{Kind: KindBare, Raw: s, Package: pkg, Subpath: subpath}, nil
}

// splitScheme recognizes "scheme://rest" for any scheme made of letters,
// digits, '+', '-', '.'. Builtin schemes are handled earlier by Classify, so
// by the time this runs it only ever matches file/http/https in practice,
// but any syntactically valid scheme is accepted here; the resolver is
// responsible for rejecting unsupported ones.
func splitScheme(s string) (scheme, rest string, ok bool) {
	idx := strings.Index(s, "://")
	if idx <= 0 {
		return "", "", false
	}
	candidate := s[:idx]
	for _, r := range candidate {
		if !isSchemeChar(r) {
			return "", "", false
		}
	}
	return strings.ToLower(candidate), s[idx+len("://"):], true
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

// splitBare applies the scoped-package rule: if the first character is '@',
// package spans through the second '/'; otherwise through the first '/'.
func splitBare(s string) (pkg, subpath string) {
	if strings.HasPrefix(s, "@") {
		first := strings.Index(s, "/")
		if first < 0 {
			return s, ""
		}
		second := strings.Index(s[first+1:], "/")
		if second < 0 {
			return s, ""
		}
		end := first + 1 + second
		return s[:end], s[end+1:]
	}
	idx := strings.Index(s, "/")
	if idx < 0 {
		return s, ""
	}
	return s[:idx], s[idx+1:]
}
