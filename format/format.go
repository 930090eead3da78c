// Package format implements the ESM/CommonJS/JSON format detector from
// spec.md §4.5: extension first, then the nearest manifest's "type" field,
// then a lexical scan of the source, defaulting to CommonJS.
package format

import (
	"strings"

	"github.com/spf13/afero"

	"github.com/speedboat/jsrt/manifest"
	"github.com/speedboat/jsrt/pathutil"
)

// Format is one of the module execution models, or Unknown - which Detect
// never returns (it always resolves to CommonJS by default, per §4.5).
type Format int

const (
	Unknown Format = iota
	CommonJS
	ESM
	JSON
)

func (f Format) String() string {
	switch f {
	case CommonJS:
		return "commonjs"
	case ESM:
		return "esm"
	case JSON:
		return "json"
	default:
		return "unknown"
	}
}

// Detect decides a module's format per spec.md §4.5. content may be nil if
// unavailable; the lexical-scan step is then skipped and the default
// (CommonJS) applies once extension and manifest checks are inconclusive.
func Detect(fs afero.Fs, path string, content []byte) Format {
	switch {
	case strings.HasSuffix(path, ".cjs"):
		return CommonJS
	case strings.HasSuffix(path, ".mjs"):
		return ESM
	case strings.HasSuffix(path, ".json"):
		return JSON
	}

	if m := manifest.FindAndParse(fs, pathutil.Dirname(path)); m != nil {
		switch m.Type {
		case "module":
			return ESM
		case "commonjs":
			return CommonJS
		}
	}

	if content != nil {
		if kind, ok := scanTokens(content); ok {
			return kind
		}
	}

	return CommonJS
}
