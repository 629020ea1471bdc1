package pantheon

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// isGzipped reports whether the file at path starts with a valid gzip header.
func isGzipped(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	switch {
	case err == nil:
		_ = zr.Close()
		return true, nil
	case errors.Is(err, gzip.ErrHeader), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return false, nil
	default:
		return false, fmt.Errorf("reading %s: %w", path, err)
	}
}
