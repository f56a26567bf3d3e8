package flow

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OpenFile opens path for upload. A blank path yields a nil File so Submit
// reports ErrNoFile. The caller closes the returned file.
func OpenFile(path string) (*File, func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		_ = f.Close()
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}
	return &File{Name: filepath.Base(path), Body: f}, f.Close, nil
}
