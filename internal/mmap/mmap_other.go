//go:build !unix

package mmap

import (
	"errors"
	"io"
	"os"
)

type MmapFile struct {
	Data []byte
	File *os.File
}

func Open(filePath string) (*MmapFile, error) {
	return nil, errors.ErrUnsupported
}

func (mf *MmapFile) Len() int { return len(mf.Data) }

func (mf *MmapFile) ReadAt(p []byte, off int64) (int, error) { return 0, io.EOF }

func (mf *MmapFile) Close() error { return nil }
