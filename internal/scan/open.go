package scan

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ostafen/seginfo/internal/mmap"
)

var zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}

// OpenOptions selects how Open accesses the dump.
type OpenOptions struct {
	Mmap       bool
	Decompress bool // force zstd decoding; detected from the magic otherwise
}

// Input is an opened trace dump ready for random access.
type Input struct {
	io.ReaderAt
	Size       int64
	Mapped     bool
	Compressed bool

	closer io.Closer
}

func (in *Input) Close() error {
	if in.closer == nil {
		return nil
	}
	err := in.closer.Close()
	in.closer = nil
	return err
}

// Open opens the dump at path. Compressed dumps are decoded into memory;
// when mapping fails the plain file is used instead.
func Open(path string, opts OpenOptions, logger *slog.Logger) (*Input, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %q: %w", path, err)
	}

	compressed, err := hasZstdMagic(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if compressed || opts.Decompress {
		defer f.Close()
		return decompress(f)
	}

	if opts.Mmap {
		mf, err := mmap.Open(path)
		if err == nil {
			f.Close()
			return &Input{ReaderAt: mf, Size: int64(mf.Len()), Mapped: true, closer: mf}, nil
		}
		logger.Warn("could not mmap file, using file fallback", "path", path, "err", err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to get file info for %q: %w", path, err)
	}
	return &Input{ReaderAt: f, Size: fi.Size(), closer: f}, nil
}

func hasZstdMagic(f *os.File) (bool, error) {
	var magic [4]byte
	n, err := f.ReadAt(magic[:], 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read file magic: %w", err)
	}
	return n == len(magic) && bytes.Equal(magic[:], zstdMagic), nil
}

func decompress(r io.Reader) (*Input, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
	}
	defer dec.Close()

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress input: %w", err)
	}
	return &Input{ReaderAt: bytes.NewReader(data), Size: int64(len(data)), Compressed: true}, nil
}
