// Package extract opens disk-image assets for reading regardless of
// their container: plain .img, gzip or xz compressed, or a zip archive
// wrapping a single image.
package extract

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Open returns a streaming reader over the raw image bytes inside path.
// The caller must Close it.
func Open(path string) (io.ReadCloser, error) {
	switch {
	case strings.HasSuffix(path, ".img.gz"), strings.HasSuffix(path, ".gz"):
		return openGzip(path)
	case strings.HasSuffix(path, ".img.xz"), strings.HasSuffix(path, ".xz"):
		return openXZ(path)
	case strings.HasSuffix(path, ".zip"):
		return openZip(path)
	default:
		return os.Open(path)
	}
}

type wrappedReader struct {
	io.Reader
	closers []io.Closer
}

func (w *wrappedReader) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func openGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
	}
	return &wrappedReader{Reader: gz, closers: []io.Closer{gz, f}}, nil
}

func openXZ(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r, err := xz.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open xz stream %s: %w", path, err)
	}
	return &wrappedReader{Reader: r, closers: []io.Closer{f}}, nil
}

// openZip expects the archive to wrap exactly one image file.
func openZip(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", path, err)
	}

	var image *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.HasSuffix(f.Name, ".img") {
			image = f
			break
		}
		if image == nil {
			image = f
		}
	}
	if image == nil {
		_ = zr.Close()
		return nil, fmt.Errorf("archive %s contains no image file", path)
	}

	rc, err := image.Open()
	if err != nil {
		_ = zr.Close()
		return nil, fmt.Errorf("failed to open %s inside %s: %w", image.Name, path, err)
	}
	return &wrappedReader{Reader: rc, closers: []io.Closer{rc, zr}}, nil
}

// ToFile decompresses path into a raw image file next to it and returns
// the new path. Already-raw images are returned as-is.
func ToFile(path string) (string, error) {
	if strings.HasSuffix(path, ".img") || strings.HasSuffix(path, ".fw") {
		return path, nil
	}

	src, err := Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	out := rawName(path)
	f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}

	_, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	if copyErr != nil {
		_ = os.Remove(out)
		return "", fmt.Errorf("failed to extract %s: %w", path, copyErr)
	}
	if closeErr != nil {
		_ = os.Remove(out)
		return "", closeErr
	}
	return out, nil
}

func rawName(path string) string {
	for _, ext := range []string{".img.gz", ".img.xz", ".gz", ".xz", ".zip"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + ".img"
		}
	}
	return path + ".img"
}
