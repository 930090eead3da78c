package loader

import "github.com/speedboat/jsrt/internal/jserr"

// errRequireCycle is a sentinel-ish helper; code propagates via jserr.Code,
// not via errors.Is matching, per spec.md §7.
func errRequireCycle(path string) error {
	return jserr.New("ERR_REQUIRE_CYCLE", "cycle detected while requiring: "+path)
}

func errLoadFailed(path string, cause error) error {
	return jserr.Wrap(jserr.CodeModuleLoadFailed, "failed to load module: "+path, cause)
}

func errModuleNotFound(name string) error {
	return jserr.New(jserr.CodeModuleNotFound, "module not found: "+name)
}
