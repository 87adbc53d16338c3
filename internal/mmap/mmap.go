// Package mmap exposes an input file's bytes as a single read-only buffer.
//
// The whole file is mapped in one mmap call, so setup cost does not depend on
// file size and no line is ever copied out of the page cache. The mapping is
// PROT_READ/MAP_SHARED and advised MADV_SEQUENTIAL: workers scan their chunks
// front to back, and the hint lets the kernel read ahead aggressively.
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// File is a memory-mapped, read-only view of a file. The backing buffer is
// valid until Close; it must outlive every reader of Bytes.
type File struct {
	data []byte
}

// Open maps path into memory read-only. The error is fatal to the run: there
// is no retry path for a file that cannot be opened or mapped.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	size := info.Size()
	if size == 0 {
		// mmap with length 0 fails with EINVAL; an empty file is simply an
		// empty buffer.
		return &File{}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}

	// Best effort: the run works the same without the hint.
	_ = unix.Madvise(data, unix.MADV_SEQUENTIAL)

	return &File{data: data}, nil
}

// Bytes returns the mapped content. The slice is read-only: writing to it
// faults.
func (f *File) Bytes() []byte {
	return f.data
}

// Close unmaps the buffer. No slice returned by Bytes may be used afterwards.
func (f *File) Close() error {
	if f.data == nil {
		return nil
	}
	data := f.data
	f.data = nil
	if err := unix.Munmap(data); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
