package protocol

import "github.com/spf13/afero"

// NewDefaultRegistry returns a Registry with the file and http/https
// handlers registered, per spec.md §4.3 ("Two handlers are always
// registered").
func NewDefaultRegistry(fs afero.Fs, httpPolicy HTTPSecurityPolicy) *Registry {
	r := NewRegistry()
	_ = r.Register("file", NewFileHandler(fs))
	httpHandler := NewHTTPHandler(httpPolicy)
	_ = r.Register("http", httpHandler)
	_ = r.Register("https", httpHandler)
	return r
}
