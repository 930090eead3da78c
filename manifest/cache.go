package manifest

import "github.com/spf13/afero"

// Cache memoizes FindAndParse for a single CLI invocation. cmd/run.go
// builds one and hands it to the module loader facade, and the resolver
// consults it for every manifest lookup when it is non-nil; with a nil
// cache the resolver calls FindAndParse directly each time.
type Cache struct {
	fs      afero.Fs
	entries map[string]*Manifest
}

// NewCache returns an empty manifest cache bound to fs.
func NewCache(fs afero.Fs) *Cache {
	return &Cache{fs: fs, entries: make(map[string]*Manifest)}
}

// FindAndParse returns the cached manifest for startDir, computing it via
// FindAndParse on first use.
func (c *Cache) FindAndParse(startDir string) *Manifest {
	if m, ok := c.entries[startDir]; ok {
		return m
	}
	m := FindAndParse(c.fs, startDir)
	c.entries[startDir] = m
	return m
}
