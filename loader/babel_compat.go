package loader

import "strings"

// Options gates optional loader behavior. EnableBabelCompat defaults to
// false: the original runtime's babel_loader.c applied this workaround
// unconditionally, but the Design Notes direct a rewrite to make it
// opt-in, since the heuristic below is a narrow pattern match, not a
// general transform.
type Options struct {
	EnableBabelCompat bool
}

// babelTypesLikePaths is the small known list from spec.md §4.7's
// compatibility workaround: packages whose source references a bare `t`
// identifier at positions where `exports` would be correct.
var babelTypesLikePaths = []string{
	"/@babel/types/",
	"/babel-types/",
}

func needsBabelTypesShim(opts Options, resolvedPath string) bool {
	if !opts.EnableBabelCompat {
		return false
	}
	for _, substr := range babelTypesLikePaths {
		if strings.Contains(resolvedPath, substr) {
			return true
		}
	}
	return false
}

const babelTypesShimPrologue = `var t = new Proxy(exports, { get: (target, prop) => prop in target ? target[prop] : (typeof prop === 'string' && prop.startsWith('is') ? () => false : undefined) });`
