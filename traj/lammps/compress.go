package lammps

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// multiCloser closes the decompressor first and then the file.
type multiCloser struct {
	io.Reader
	closers []func() error
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

//Also, why couldn't *zstd.Decoder implement io.ReadCloser? :-(
type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}

// openDecompressed opens name and, depending on its extension, puts a gzip
// or zstd decoder in front of it.
func openDecompressed(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	var dec io.ReadCloser
	in := bufio.NewReader(f)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".gz":
		dec, err = gzip.NewReader(in)
	case ".zst", ".zstd":
		var z *zstd.Decoder
		z, err = zstd.NewReader(in)
		if err == nil {
			dec = zstdCloser{z}
		}
	default:
		return f, nil
	}
	if err != nil {
		f.Close()
		return nil, err
	}
	return &multiCloser{Reader: dec, closers: []func() error{dec.Close, f.Close}}, nil
}
