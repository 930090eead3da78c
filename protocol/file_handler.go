package protocol

import (
	"net/url"
	"strings"

	"github.com/spf13/afero"
)

// FileHandler reads file:// URLs (and bare paths, tolerating both) via an
// afero.Fs, per spec.md §4.3: it tolerates both two-slash and three-slash
// forms, URL-decodes %XX escapes, then reads the resulting path.
type FileHandler struct {
	FS afero.Fs
}

// NewFileHandler returns a FileHandler backed by fs.
func NewFileHandler(fs afero.Fs) *FileHandler {
	return &FileHandler{FS: fs}
}

// Load implements Handler.
func (h *FileHandler) Load(rawURL string) ([]byte, error) {
	path, err := filePathFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(h.FS, path)
}

// filePathFromURL tolerates "file:///abs/path", "file://abs/path" (missing
// leading slash after the authority-less form), and plain paths with no
// scheme at all.
func filePathFromURL(raw string) (string, error) {
	switch {
	case strings.HasPrefix(raw, "file:///"):
		decoded, err := url.PathUnescape(strings.TrimPrefix(raw, "file://"))
		if err != nil {
			return "", err
		}
		return decoded, nil
	case strings.HasPrefix(raw, "file://"):
		decoded, err := url.PathUnescape(strings.TrimPrefix(raw, "file://"))
		if err != nil {
			return "", err
		}
		if !strings.HasPrefix(decoded, "/") {
			decoded = "/" + decoded
		}
		return decoded, nil
	default:
		decoded, err := url.PathUnescape(raw)
		if err != nil {
			return "", err
		}
		return decoded, nil
	}
}
