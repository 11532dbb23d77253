// Package fileio opens datastore files, decompressing gzipped ones.
package fileio

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/klauspost/pgzip"
)

// Open opens path for reading. Files ending in .gz are decompressed.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !IsGzip(path) {
		return f, nil
	}

	gz, err := pgzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

// IsGzip reports whether path names a gzipped file.
func IsGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// TrimGzip strips a trailing .gz.
func TrimGzip(path string) string {
	return strings.TrimSuffix(path, ".gz")
}

type gzipFile struct {
	*pgzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gerr
}

// Fingerprint holds stat-based identity for a file.
type Fingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// Stat creates a Fingerprint from an on-disk file.
func Stat(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}
